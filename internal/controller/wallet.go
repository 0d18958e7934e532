package controller

import (
	"context" // Request cancellation and deadlines
	"errors"  // Error inspection
	"math"    // Amount sanity checks
	"sync"    // Snapshot guarding

	"wallet_console/internal/api"    // Wallet backend client
	"wallet_console/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Structured logging
)

// Status of the customer dashboard snapshot
type Status int

// Snapshot statuses
const (
	StatusLoading Status = iota // A load is in flight
	StatusReady                 // Snapshot reflects the last completed load
	StatusError                 // The load failed at the customer fetch
)

// DashboardSnapshot is the customer dashboard state as of the last completed
// load. Wallet is nil while the customer has no wallet yet; collapsing nil to
// the display sentinel happens at the presentation boundary, never here.
type DashboardSnapshot struct {
	Customer     *domain.Customer
	Wallet       *domain.Wallet
	Transactions []domain.Transaction
	Status       Status
}

// WalletSyncController drives the customer's dependent fetch chain
// (customer -> wallet -> transactions) and the balance mutations.
type WalletSyncController struct {
	api  *api.Client
	msgs *MessageChannel

	mu   sync.Mutex
	snap DashboardSnapshot
	gen  uint64 // Generation of the newest issued load; stale loads are discarded
}

// NewWalletSync creates the controller
func NewWalletSync(client *api.Client, msgs *MessageChannel) *WalletSyncController {
	return &WalletSyncController{api: client, msgs: msgs}
}

// Snapshot returns a copy of the current dashboard state
func (c *WalletSyncController) Snapshot() DashboardSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.snap
	snap.Transactions = append([]domain.Transaction(nil), c.snap.Transactions...)
	return snap
}

// Reset discards the snapshot and invalidates any in-flight load. Called on
// logout.
func (c *WalletSyncController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.snap = DashboardSnapshot{}
}

// begin claims a new load generation
func (c *WalletSyncController) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.snap.Status = StatusLoading
	return c.gen
}

// commit applies fn to the snapshot unless a newer load has been issued since
// gen was claimed. Superseded responses are dropped so the snapshot always
// reflects the last issued load, not the last resolved one.
func (c *WalletSyncController) commit(gen uint64, fn func(*DashboardSnapshot)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	fn(&c.snap)
	return true
}

// LoadDashboard runs the full dependent fetch chain for the customer
func (c *WalletSyncController) LoadDashboard(ctx context.Context, customerID string) {
	c.msgs.Clear()
	c.load(ctx, customerID)
}

// load is LoadDashboard without the message clear, so a mutation's re-sync
// does not wipe the success message it just published.
func (c *WalletSyncController) load(ctx context.Context, customerID string) {
	gen := c.begin()

	customer, err := c.api.GetCustomer(ctx, customerID)
	if err != nil {
		// The customer fetch is load-bearing: its failure blocks the
		// dependent wallet and transaction fetches.
		if c.commit(gen, func(s *DashboardSnapshot) { s.Status = StatusError }) {
			c.msgs.Error(loadErrorText(err))
			logrus.WithFields(logrus.Fields{
				"customer_id": customerID,
				"error":       err.Error(),
			}).Error("Dashboard load failed")
		}
		return
	}

	snap := DashboardSnapshot{
		Customer:     &customer,
		Transactions: []domain.Transaction{},
		Status:       StatusReady,
	}
	if customer.Wallet != nil && customer.Wallet.WalletID != "" {
		wallet, err := c.api.GetWalletByCustomer(ctx, customerID)
		if err != nil {
			if c.commit(gen, func(s *DashboardSnapshot) { s.Status = StatusError }) {
				c.msgs.Error(loadErrorText(err))
				logrus.WithFields(logrus.Fields{
					"customer_id": customerID,
					"error":       err.Error(),
				}).Error("Wallet fetch failed")
			}
			return
		}
		snap.Wallet = &wallet
		txs, err := c.api.ListTransactions(ctx, wallet.WalletID)
		if err != nil {
			// Asymmetric with the customer path: a failed history fetch
			// degrades to an empty list, the wallet still renders.
			logrus.WithFields(logrus.Fields{
				"customer_id": customerID,
				"wallet_id":   wallet.WalletID,
				"error":       err.Error(),
			}).Warn("Transaction fetch failed")
		} else {
			snap.Transactions = txs
		}
	}
	// No wallet reference: nil wallet and empty history, and that is a
	// ready state, not an error.
	if c.commit(gen, func(s *DashboardSnapshot) { *s = snap }) {
		logrus.WithFields(logrus.Fields{
			"customer_id": customerID,
			"has_wallet":  snap.Wallet != nil,
		}).Info("Dashboard loaded")
	}
}

// Credit adds funds to the customer's wallet and re-syncs the dashboard
func (c *WalletSyncController) Credit(ctx context.Context, customerID string, amount float64) {
	c.mutate(ctx, customerID, amount, c.api.AddFunds, "Amount added successfully", "Failed to add amount")
}

// Debit deducts funds from the customer's wallet and re-syncs the dashboard
func (c *WalletSyncController) Debit(ctx context.Context, customerID string, amount float64) {
	c.mutate(ctx, customerID, amount, c.api.DeductFunds, "Amount deducted successfully", "Failed to deduct amount")
}

// mutate runs one balance mutation. On success it always reloads the full
// dashboard rather than patching the local balance — the re-fetch is the
// system's only consistency mechanism. On failure the snapshot is untouched.
func (c *WalletSyncController) mutate(ctx context.Context, customerID string, amount float64,
	call func(context.Context, string, float64) error, okText, failText string) {
	c.msgs.Clear()
	if !(amount > 0) || math.IsInf(amount, 0) {
		// Rejected locally; no request is issued for a non-positive amount
		c.msgs.Error("Enter a valid amount")
		return
	}
	if err := call(ctx, customerID, amount); err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			c.msgs.Error(apiErr.Message) // Server-supplied text, verbatim
		} else {
			c.msgs.Error(failText)
		}
		logrus.WithFields(logrus.Fields{
			"customer_id": customerID,
			"amount":      amount,
			"error":       err.Error(),
		}).Error("Wallet mutation failed")
		return
	}
	c.msgs.Success(okText)
	logrus.WithFields(logrus.Fields{
		"customer_id": customerID,
		"amount":      amount,
	}).Info("Wallet mutation applied")
	// Read-after-write re-sync, strictly sequenced after the mutation response
	c.load(ctx, customerID)
}

// UpdateProfile submits edited customer details. It reports success so the
// caller can schedule the deferred return to the dashboard.
func (c *WalletSyncController) UpdateProfile(ctx context.Context, customerID string, req api.UpdateRequest) bool {
	c.msgs.Clear()
	if _, err := c.api.UpdateCustomer(ctx, customerID, req); err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			c.msgs.Error(apiErr.Message)
		} else {
			c.msgs.Error("Failed to update customer")
		}
		return false
	}
	c.msgs.Success("Customer updated successfully")
	return true
}

// loadErrorText picks the dashboard-level message for a failed load
func loadErrorText(err error) string {
	if errors.Is(err, api.ErrNotFound) {
		return "Customer not found"
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Error loading dashboard"
}
