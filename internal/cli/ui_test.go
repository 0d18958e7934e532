package cli

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wallet_console/internal/api"
	"wallet_console/internal/api/apitest"
	"wallet_console/internal/config"
	"wallet_console/internal/controller"
	"wallet_console/internal/domain"
	"wallet_console/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newScriptedUI wires a UI against the fake backend, feeding it the given
// input lines and capturing everything it prints.
func newScriptedUI(t *testing.T, srv *apitest.Server, script string) (*UI, *session.FileStore, *bytes.Buffer) {
	t.Helper()
	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	cfg := &config.Config{UpdateRedirectDelay: time.Millisecond}
	client := api.NewClient(srv.URL(), 5*time.Second)
	msgs := controller.NewMessageChannel()
	out := &bytes.Buffer{}
	ui := New(cfg, client, store, msgs,
		controller.NewWalletSync(client, msgs),
		controller.NewAdminRoster(client, msgs),
		bufio.NewReader(strings.NewReader(script)), out)
	return ui, store, out
}

func TestRegisterThenLoginFlow(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	// Enter the auth form, switch to register, register, log in with the new
	// credentials, then log out and exit.
	script := strings.Join([]string{
		"1",          // customer login / register
		"2",          // switch to register
		"1",          // register
		"Jane Roe",   // name
		"jane@x.com", // email
		"9876543210", // phone
		"Abcd123!",   // password
		"Abcd123!",   // retype
		"1",          // login
		"jane@x.com", // email
		"Abcd123!",   // password
		"0",          // logout from the dashboard
		"0",          // exit
	}, "\n") + "\n"

	ui, store, out := newScriptedUI(t, srv, script)
	ui.Run(context.Background())

	text := out.String()
	assert.Contains(t, text, "[ok] Registration successful. Please login!")
	assert.Contains(t, text, "[ok] Login successful")
	assert.Contains(t, text, "Welcome, Jane Roe")
	assert.Contains(t, text, "Wallet ID: N/A", "no wallet renders as the display sentinel")
	assert.Contains(t, text, "Balance: 0.00")
	assert.Contains(t, text, "Logged out.")

	assert.Equal(t, 1, srv.CountRequests(http.MethodPost, "/customers"))
	assert.Equal(t, 1, srv.CountRequests(http.MethodPost, "/customers/login"))
	_, ok := store.Current()
	assert.False(t, ok, "logout must remove the persisted session")
}

func TestRunResumesPersistedSession(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.SeedCustomer(domain.Customer{CustomerID: "C001", CustomerName: "Jane Roe", CustomerEmail: "jane@x.com"}, "Abcd123!")
	srv.SeedWallet("C001", domain.Wallet{WalletID: "W001", Balance: 75.5})

	// Straight to the dashboard, then log out and exit
	ui, store, out := newScriptedUI(t, srv, "0\n0\n")
	require.NoError(t, store.Login(session.Identity{CustomerID: "C001"}))
	ui.Run(context.Background())

	text := out.String()
	assert.Contains(t, text, "Welcome, Jane Roe")
	assert.Contains(t, text, "Wallet ID: W001")
	assert.Contains(t, text, "Balance: 75.50")
}

func TestDashboardGuardWithoutSession(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	ui, _, out := newScriptedUI(t, srv, "")
	ui.customerDashboard(context.Background(), "C001")

	assert.Contains(t, out.String(), "Please log in first.")
	assert.Zero(t, srv.CountRequests(http.MethodGet, "/customers/C001"), "the guard runs before any data request")
}

func TestModeToggleClearsMessage(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	// A failed login publishes a message; toggling to the register face
	// clears it, so it renders exactly once.
	script := strings.Join([]string{
		"1",           // customer login / register
		"1",           // login
		"jane@x.com",  // email
		"Wrongpass1!", // password, rejected by the backend
		"2",           // switch to register
		"0",           // back
		"0",           // exit
	}, "\n") + "\n"

	ui, _, out := newScriptedUI(t, srv, script)
	ui.Run(context.Background())

	text := out.String()
	assert.Equal(t, 1, strings.Count(text, "[error] Invalid email or password"))
	assert.Contains(t, text, "=== Registration Form ===")
}

func TestAdminLoginAndRosterFlow(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.SeedCustomer(domain.Customer{CustomerID: "C001", CustomerName: "Jane Roe", CustomerEmail: "jane@x.com"}, "Abcd123!")
	srv.SeedWallet("C001", domain.Wallet{WalletID: "W001", Balance: 250})

	script := strings.Join([]string{
		"2",     // admin login
		"admin", // username
		"admin", // password
		"1",     // view wallet
		"C001",  // customer id
		"1",     // back to roster
		"0",     // logout
		"0",     // exit
	}, "\n") + "\n"

	ui, store, out := newScriptedUI(t, srv, script)
	ui.Run(context.Background())

	text := out.String()
	assert.Contains(t, text, "[ok] Admin login successful")
	assert.Contains(t, text, "Jane Roe")
	assert.Contains(t, text, "=== Wallet Details ===")
	assert.Contains(t, text, "Balance: 250.00")
	assert.Contains(t, text, "Logged out.")
	_, ok := store.Current()
	assert.False(t, ok)
}
