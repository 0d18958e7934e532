package controller

import (
	"context" // Request cancellation and deadlines
	"errors"  // Error inspection
	"sync"    // Snapshot guarding

	"wallet_console/internal/api"    // Wallet backend client
	"wallet_console/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Structured logging
)

// RosterSnapshot is the administrator view state: the customer roster plus
// an optional read-only wallet drill-down.
type RosterSnapshot struct {
	Customers      []domain.Customer
	SelectedWallet *domain.Wallet
	Transactions   []domain.Transaction
}

// AdminRosterController drives the administrator's customer list, wallet
// drill-down and deletion operations.
type AdminRosterController struct {
	api  *api.Client
	msgs *MessageChannel

	mu   sync.Mutex
	snap RosterSnapshot
	gen  uint64 // Generation of the newest issued roster fetch
}

// NewAdminRoster creates the controller
func NewAdminRoster(client *api.Client, msgs *MessageChannel) *AdminRosterController {
	return &AdminRosterController{api: client, msgs: msgs}
}

// Snapshot returns a copy of the current roster state
func (c *AdminRosterController) Snapshot() RosterSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.snap
	snap.Customers = append([]domain.Customer(nil), c.snap.Customers...)
	snap.Transactions = append([]domain.Transaction(nil), c.snap.Transactions...)
	return snap
}

// Reset discards the snapshot and invalidates any in-flight fetch. Called on
// logout.
func (c *AdminRosterController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.snap = RosterSnapshot{}
}

// ListCustomers refreshes the roster
func (c *AdminRosterController) ListCustomers(ctx context.Context) {
	c.msgs.Clear()
	c.list(ctx)
}

// list is ListCustomers without the message clear, so the refresh after a
// deletion keeps the success message visible.
func (c *AdminRosterController) list(ctx context.Context) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	customers, err := c.api.ListCustomers(ctx)
	if err != nil {
		// Stale-but-visible: the previously fetched roster stays on screen
		c.msgs.Error("Failed to fetch customers")
		logrus.WithFields(logrus.Fields{"error": err.Error()}).Error("Roster fetch failed")
		return
	}
	c.mu.Lock()
	if gen == c.gen {
		c.snap.Customers = customers
	}
	c.mu.Unlock()
}

// SelectWallet populates the read-only drill-down for one customer's wallet.
// Any failure leaves the roster view intact; the drill-down is simply not
// shown.
func (c *AdminRosterController) SelectWallet(ctx context.Context, customerID string) {
	c.msgs.Clear()
	wallet, err := c.api.GetWalletByCustomer(ctx, customerID)
	if err != nil {
		c.msgs.Error("Failed to fetch wallet or transactions")
		logrus.WithFields(logrus.Fields{
			"customer_id": customerID,
			"error":       err.Error(),
		}).Error("Wallet drill-down failed")
		return
	}
	txs, err := c.api.ListTransactions(ctx, wallet.WalletID)
	if err != nil {
		c.msgs.Error("Failed to fetch wallet or transactions")
		logrus.WithFields(logrus.Fields{
			"customer_id": customerID,
			"wallet_id":   wallet.WalletID,
			"error":       err.Error(),
		}).Error("Wallet drill-down failed")
		return
	}
	c.mu.Lock()
	c.snap.SelectedWallet = &wallet
	c.snap.Transactions = txs
	c.mu.Unlock()
}

// ClearSelection drops the drill-down and returns to the roster view
func (c *AdminRosterController) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.SelectedWallet = nil
	c.snap.Transactions = nil
}

// DeleteCustomer removes a customer, then refreshes the roster on success.
// No confirmation prompt lives at this layer; that is a presentation concern.
func (c *AdminRosterController) DeleteCustomer(ctx context.Context, customerID string) {
	c.msgs.Clear()
	if err := c.api.DeleteCustomer(ctx, customerID); err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			c.msgs.Error("Failed to delete customer")
		} else {
			c.msgs.Error("Server error while deleting customer")
		}
		logrus.WithFields(logrus.Fields{
			"customer_id": customerID,
			"error":       err.Error(),
		}).Error("Customer deletion failed")
		return
	}
	c.msgs.Success("Customer deleted successfully")
	logrus.WithFields(logrus.Fields{"customer_id": customerID}).Info("Customer deleted")
	c.list(ctx) // Refresh without touching the success message
}
