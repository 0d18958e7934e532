package controller_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"wallet_console/internal/api"
	"wallet_console/internal/api/apitest"
	"wallet_console/internal/controller"
	"wallet_console/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWalletFixture(t *testing.T) (*apitest.Server, *controller.WalletSyncController, *controller.MessageChannel) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL(), 5*time.Second)
	msgs := controller.NewMessageChannel()
	return srv, controller.NewWalletSync(client, msgs), msgs
}

func seedJane(srv *apitest.Server) {
	srv.SeedCustomer(domain.Customer{
		CustomerID:          "C001",
		CustomerName:        "Jane Roe",
		CustomerEmail:       "jane@x.com",
		CustomerPhoneNumber: "9876543210",
	}, "Abcd123!")
	srv.SeedWallet("C001", domain.Wallet{WalletID: "W001", Balance: 1000})
}

func TestLoadDashboardFullChain(t *testing.T) {
	srv, wallet, _ := newWalletFixture(t)
	seedJane(srv)
	srv.SeedTransactions("W001", domain.Transaction{
		TransactionID: "T001", TransactionType: domain.TxCredit, Amount: 1000, Status: "SUCCESS",
	})

	wallet.LoadDashboard(context.Background(), "C001")

	snap := wallet.Snapshot()
	assert.Equal(t, controller.StatusReady, snap.Status)
	require.NotNil(t, snap.Customer)
	assert.Equal(t, "Jane Roe", snap.Customer.CustomerName)
	require.NotNil(t, snap.Wallet)
	assert.Equal(t, 1000.0, snap.Wallet.Balance)
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, "T001", snap.Transactions[0].TransactionID)
}

func TestLoadDashboardWithoutWalletIsReady(t *testing.T) {
	srv, wallet, msgs := newWalletFixture(t)
	srv.SeedCustomer(domain.Customer{CustomerID: "C002", CustomerName: "New User", CustomerEmail: "new@x.com"}, "Abcd123!")

	wallet.LoadDashboard(context.Background(), "C002")

	snap := wallet.Snapshot()
	assert.Equal(t, controller.StatusReady, snap.Status, "no wallet is not an error")
	assert.Nil(t, snap.Wallet, "controllers keep the missing wallet as nil, not the sentinel")
	assert.Empty(t, snap.Transactions)
	assert.Equal(t, domain.MessageNone, msgs.Current().Kind)
	// No dependent fetches were attempted
	assert.Zero(t, srv.CountRequests(http.MethodGet, "/wallets/customer/C002"))
}

func TestLoadDashboardCustomerFailureBlocksDependents(t *testing.T) {
	srv, wallet, msgs := newWalletFixture(t)

	wallet.LoadDashboard(context.Background(), "ghost")

	snap := wallet.Snapshot()
	assert.Equal(t, controller.StatusError, snap.Status)
	assert.Equal(t, domain.MessageError, msgs.Current().Kind)
	assert.Equal(t, "Customer not found", msgs.Current().Text)
	assert.Zero(t, srv.CountRequests(http.MethodGet, "/wallets/customer/ghost"))
}

func TestLoadDashboardTransactionFailureDegrades(t *testing.T) {
	srv, wallet, msgs := newWalletFixture(t)
	seedJane(srv)
	srv.SeedTransactions("W001", domain.Transaction{TransactionID: "T001"})
	srv.FailJSON(http.MethodGet, "/transactions/:walletId", http.StatusInternalServerError, `{"message":"history unavailable"}`)

	wallet.LoadDashboard(context.Background(), "C001")

	// Asymmetric with the customer path: wallet renders, history is empty
	snap := wallet.Snapshot()
	assert.Equal(t, controller.StatusReady, snap.Status)
	require.NotNil(t, snap.Wallet)
	assert.Empty(t, snap.Transactions)
	assert.Equal(t, domain.MessageNone, msgs.Current().Kind)
}

func TestMutationsRejectNonPositiveAmountLocally(t *testing.T) {
	srv, wallet, msgs := newWalletFixture(t)
	seedJane(srv)

	for _, amount := range []float64{0, -1, -500.25} {
		wallet.Credit(context.Background(), "C001", amount)
		assert.Equal(t, "Enter a valid amount", msgs.Current().Text, "amount %v", amount)
		wallet.Debit(context.Background(), "C001", amount)
		assert.Equal(t, "Enter a valid amount", msgs.Current().Text, "amount %v", amount)
	}
	assert.Zero(t, srv.CountRequests(http.MethodPut, "/wallets/add/C001"), "rejected amounts must not reach the network")
	assert.Zero(t, srv.CountRequests(http.MethodPut, "/wallets/deduct/C001"))
}

func TestCreditReloadsFromServerTruth(t *testing.T) {
	srv, wallet, msgs := newWalletFixture(t)
	seedJane(srv)
	wallet.LoadDashboard(context.Background(), "C001")

	wallet.Credit(context.Background(), "C001", 500)

	snap := wallet.Snapshot()
	require.NotNil(t, snap.Wallet)
	assert.Equal(t, 1500.0, snap.Wallet.Balance, "balance comes from the re-fetch, never a local patch")
	require.NotEmpty(t, snap.Transactions)
	assert.Equal(t, domain.TxCredit, snap.Transactions[0].TransactionType)
	assert.Equal(t, 500.0, snap.Transactions[0].Amount)
	// The success message survives the re-sync
	assert.Equal(t, domain.MessageSuccess, msgs.Current().Kind)
	assert.Equal(t, "Amount added successfully", msgs.Current().Text)
	// Exactly one mutation call, followed by the reload chain
	assert.Equal(t, 1, srv.CountRequests(http.MethodPut, "/wallets/add/C001"))
	assert.Equal(t, 2, srv.CountRequests(http.MethodGet, "/customers/C001"), "initial load plus re-sync")
}

func TestDebitFailureKeepsSnapshotAndReportsVerbatim(t *testing.T) {
	srv, wallet, msgs := newWalletFixture(t)
	seedJane(srv)
	wallet.LoadDashboard(context.Background(), "C001")

	wallet.Debit(context.Background(), "C001", 5000)

	assert.Equal(t, domain.MessageError, msgs.Current().Kind)
	assert.Equal(t, "Insufficient balance", msgs.Current().Text, "server text is surfaced verbatim")
	snap := wallet.Snapshot()
	require.NotNil(t, snap.Wallet)
	assert.Equal(t, 1000.0, snap.Wallet.Balance, "no partial mutation is reflected")
	assert.Equal(t, 1, srv.CountRequests(http.MethodGet, "/customers/C001"), "a failed mutation triggers no re-sync")
}

func TestMutationFailureWithoutServerTextFallsBack(t *testing.T) {
	srv, wallet, msgs := newWalletFixture(t)
	seedJane(srv)
	srv.FailText(http.MethodPut, "/wallets/add/:id", http.StatusInternalServerError, "")

	wallet.Credit(context.Background(), "C001", 10)

	assert.Equal(t, "Failed to add amount", msgs.Current().Text)
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	srv, wallet, _ := newWalletFixture(t)
	seedJane(srv) // C001 has a wallet, so its load passes through the wallet route
	srv.SeedCustomer(domain.Customer{CustomerID: "C002", CustomerName: "New User", CustomerEmail: "new@x.com"}, "Abcd123!")

	// Hold the first load open at its wallet fetch
	release := srv.Gate(http.MethodGet, "/wallets/customer/:id")
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		wallet.LoadDashboard(context.Background(), "C001")
	}()
	require.Eventually(t, func() bool {
		return srv.CountRequests(http.MethodGet, "/wallets/customer/C001") == 1
	}, 5*time.Second, 10*time.Millisecond, "first load should be parked at the wallet fetch")

	// A newer load completes while the first is still in flight; C002 has no
	// wallet, so it never touches the gated route
	wallet.LoadDashboard(context.Background(), "C002")

	release()
	<-firstDone

	// Last issued wins: the superseded response must not overwrite the snapshot
	snap := wallet.Snapshot()
	require.NotNil(t, snap.Customer)
	assert.Equal(t, "C002", snap.Customer.CustomerID)
	assert.Nil(t, snap.Wallet)
	assert.Equal(t, controller.StatusReady, snap.Status)
}

func TestResetInvalidatesInFlightLoad(t *testing.T) {
	srv, wallet, _ := newWalletFixture(t)
	seedJane(srv)

	release := srv.Gate(http.MethodGet, "/wallets/customer/:id")
	done := make(chan struct{})
	go func() {
		defer close(done)
		wallet.LoadDashboard(context.Background(), "C001")
	}()
	require.Eventually(t, func() bool {
		return srv.CountRequests(http.MethodGet, "/wallets/customer/C001") == 1
	}, 5*time.Second, 10*time.Millisecond)

	wallet.Reset() // Logout while the load is in flight
	release()
	<-done

	snap := wallet.Snapshot()
	assert.Nil(t, snap.Customer, "a load resolving after Reset must not repopulate the snapshot")
	assert.Nil(t, snap.Wallet)
}

func TestUpdateProfile(t *testing.T) {
	srv, wallet, msgs := newWalletFixture(t)
	seedJane(srv)

	ok := wallet.UpdateProfile(context.Background(), "C001", api.UpdateRequest{
		CustomerName:        "Jane R. Roe",
		CustomerEmail:       "jane@x.com",
		CustomerPhoneNumber: "9876543210",
	})
	assert.True(t, ok)
	assert.Equal(t, "Customer updated successfully", msgs.Current().Text)

	ok = wallet.UpdateProfile(context.Background(), "ghost", api.UpdateRequest{})
	assert.False(t, ok)
	assert.Equal(t, domain.MessageError, msgs.Current().Kind)
}
