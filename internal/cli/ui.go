// Package cli renders the console UI: a prompt loop over the auth forms and
// the customer and admin dashboards. All state lives in the controllers;
// this layer only reads snapshots and forwards user actions.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"wallet_console/internal/api"
	"wallet_console/internal/config"
	"wallet_console/internal/controller"
	"wallet_console/internal/domain"
	"wallet_console/internal/session"
	"wallet_console/internal/validate"
)

// AuthMode selects which face of the shared auth form is active
type AuthMode int

const (
	ModeLogin AuthMode = iota
	ModeRegister
)

type UI struct {
	cfg      *config.Config
	api      *api.Client
	sessions session.Store
	msgs     *controller.MessageChannel
	wallet   *controller.WalletSyncController
	roster   *controller.AdminRosterController
	in       *bufio.Reader
	out      io.Writer
}

func New(cfg *config.Config, client *api.Client, sessions session.Store,
	msgs *controller.MessageChannel, wallet *controller.WalletSyncController,
	roster *controller.AdminRosterController, in *bufio.Reader, out io.Writer) *UI {
	return &UI{cfg: cfg, api: client, sessions: sessions, msgs: msgs,
		wallet: wallet, roster: roster, in: in, out: out}
}

// Run is the top-level loop. A persisted session resumes straight into the
// matching dashboard, like a page reload landing on a dashboard route.
func (ui *UI) Run(ctx context.Context) {
	if id, ok := ui.sessions.Current(); ok {
		if id.Admin {
			ui.adminDashboard(ctx)
		} else {
			ui.customerDashboard(ctx, id.CustomerID)
		}
	}
	for {
		fmt.Fprintln(ui.out, "\n=== Digital Wallet ===")
		fmt.Fprintln(ui.out, "1) Customer login / register")
		fmt.Fprintln(ui.out, "2) Admin login")
		fmt.Fprintln(ui.out, "0) Exit")
		fmt.Fprint(ui.out, "> ")
		switch strings.TrimSpace(ui.readLine()) {
		case "1":
			ui.customerAuth(ctx)
		case "2":
			ui.adminLogin(ctx)
		default:
			return
		}
	}
}

// customerAuth runs the dual-purpose auth form. The two modes are toggled
// purely by user action; a toggle clears field errors and the live message.
func (ui *UI) customerAuth(ctx context.Context) {
	mode := ModeLogin
	fieldErrs := map[string]string{}
	for {
		ui.renderMessage()
		ui.renderFieldErrors(fieldErrs)
		if mode == ModeLogin {
			fmt.Fprintln(ui.out, "\n=== Login Form ===")
			fmt.Fprintln(ui.out, "1) Login")
			fmt.Fprintln(ui.out, "2) Switch to register")
			fmt.Fprintln(ui.out, "3) Forgot password")
		} else {
			fmt.Fprintln(ui.out, "\n=== Registration Form ===")
			fmt.Fprintln(ui.out, "1) Register")
			fmt.Fprintln(ui.out, "2) Switch to login")
		}
		fmt.Fprintln(ui.out, "0) Back")
		fmt.Fprint(ui.out, "> ")
		choice := strings.TrimSpace(ui.readLine())
		switch {
		case choice == "1" && mode == ModeLogin:
			done, errs := ui.submitLogin(ctx)
			fieldErrs = errs
			if done {
				return
			}
		case choice == "1" && mode == ModeRegister:
			registered, errs := ui.submitRegister(ctx)
			fieldErrs = errs
			if registered {
				// Form resets and the login face takes over; the success
				// message stays visible, this switch is not a user toggle.
				mode = ModeLogin
			}
		case choice == "2":
			if mode == ModeLogin {
				mode = ModeRegister
			} else {
				mode = ModeLogin
			}
			fieldErrs = map[string]string{}
			ui.msgs.Clear()
		case choice == "3" && mode == ModeLogin:
			ui.forgotPassword(ctx)
		default:
			return
		}
	}
}

// submitLogin validates the login field subset and dispatches the login
// handler. Reports whether the session moved on to the dashboard.
func (ui *UI) submitLogin(ctx context.Context) (bool, map[string]string) {
	email := ui.prompt("Email: ")
	password := ui.prompt("Password: ")
	errs := validate.Validate(validate.Form{Email: email, Password: password}, validate.ModeLogin)
	if len(errs) > 0 {
		return false, errs
	}
	resp, err := ui.api.Login(ctx, email, password)
	if err != nil {
		var apiErr *api.APIError
		switch {
		case errors.As(err, &apiErr) && len(apiErr.FieldErrors) > 0:
			return false, apiErr.FieldErrors
		case errors.As(err, &apiErr) && apiErr.Message != "":
			ui.msgs.Error(apiErr.Message)
		case errors.As(err, &apiErr):
			ui.msgs.Error("Login failed")
		default:
			ui.msgs.Error("Server error")
		}
		return false, map[string]string{}
	}
	if err := ui.sessions.Login(session.Identity{CustomerID: resp.CustomerID}); err != nil {
		ui.msgs.Error("Failed to save session")
		return false, map[string]string{}
	}
	ui.msgs.Success("Login successful")
	ui.renderMessage() // Shown once; the dashboard load clears the channel
	ui.customerDashboard(ctx, resp.CustomerID)
	return true, map[string]string{}
}

// submitRegister validates the register field subset and dispatches the
// registration handler. Reports whether registration succeeded.
func (ui *UI) submitRegister(ctx context.Context) (bool, map[string]string) {
	form := validate.Form{
		Name:           ui.prompt("Name: "),
		Email:          ui.prompt("Email: "),
		Phone:          ui.prompt("Phone number: "),
		Password:       ui.prompt("Password: "),
		RetypePassword: ui.prompt("Retype password: "),
	}
	errs := validate.Validate(form, validate.ModeRegister)
	if len(errs) > 0 {
		return false, errs
	}
	_, err := ui.api.Register(ctx, api.RegisterRequest{
		CustomerName:        strings.TrimSpace(form.Name),
		CustomerEmail:       strings.TrimSpace(form.Email),
		CustomerPhoneNumber: strings.TrimSpace(form.Phone),
		Password:            form.Password,
	})
	if err != nil {
		var apiErr *api.APIError
		switch {
		case errors.As(err, &apiErr) && len(apiErr.FieldErrors) > 0:
			return false, apiErr.FieldErrors
		case errors.As(err, &apiErr):
			ui.msgs.Error("Registration failed")
		default:
			ui.msgs.Error("Server error")
		}
		return false, map[string]string{}
	}
	ui.msgs.Success("Registration successful. Please login!")
	return true, map[string]string{}
}

func (ui *UI) forgotPassword(ctx context.Context) {
	fmt.Fprintln(ui.out, "\n=== Forgot Password ===")
	email := ui.prompt("Email: ")
	newPassword := ui.prompt("New password: ")
	errs := validate.Validate(validate.Form{Email: email, NewPassword: newPassword}, validate.ModeForgotPassword)
	if len(errs) > 0 {
		ui.renderFieldErrors(errs)
		return
	}
	text, err := ui.api.ForgotPassword(ctx, email, newPassword)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			ui.msgs.Error(apiErr.Message)
		} else if errors.As(err, &apiErr) {
			ui.msgs.Error("Something went wrong")
		} else {
			ui.msgs.Error("Server error. Try again later.")
		}
		return
	}
	if text == "" {
		text = "Password updated successfully!"
	}
	ui.msgs.Success(text)
}

// customerDashboard renders the wallet view. The session guard runs before
// any data request; without a session the flow falls back to the auth form.
func (ui *UI) customerDashboard(ctx context.Context, customerID string) {
	id, ok := ui.sessions.Current()
	if !ok || id.CustomerID == "" {
		fmt.Fprintln(ui.out, "Please log in first.")
		return
	}
	ui.wallet.LoadDashboard(ctx, customerID)
	for {
		snap := ui.wallet.Snapshot()
		ui.renderMessage()
		ui.renderDashboard(snap)
		fmt.Fprintln(ui.out, "\n1) Add money")
		fmt.Fprintln(ui.out, "2) Deduct money")
		fmt.Fprintln(ui.out, "3) Update details")
		fmt.Fprintln(ui.out, "4) Refresh")
		fmt.Fprintln(ui.out, "0) Logout")
		fmt.Fprint(ui.out, "> ")
		switch strings.TrimSpace(ui.readLine()) {
		case "1":
			ui.wallet.Credit(ctx, customerID, ui.readAmount())
		case "2":
			ui.wallet.Debit(ctx, customerID, ui.readAmount())
		case "3":
			ui.updateProfile(ctx, customerID)
		case "4":
			ui.wallet.LoadDashboard(ctx, customerID)
		default:
			ui.logout()
			return
		}
	}
}

func (ui *UI) renderDashboard(snap controller.DashboardSnapshot) {
	switch snap.Status {
	case controller.StatusLoading:
		fmt.Fprintln(ui.out, "Loading...")
		return
	case controller.StatusError:
		return // The message banner already carries the failure
	}
	if snap.Customer == nil {
		fmt.Fprintln(ui.out, "Loading...")
		return
	}
	// Collapse the missing wallet to the display sentinel here, at the
	// presentation boundary only.
	wallet := domain.SentinelWallet()
	if snap.Wallet != nil {
		wallet = *snap.Wallet
	}
	fmt.Fprintf(ui.out, "\nWelcome, %s\n", snap.Customer.CustomerName)
	fmt.Fprintf(ui.out, "Wallet ID: %s\n", wallet.WalletID)
	fmt.Fprintf(ui.out, "Balance: %.2f\n", wallet.Balance)
	ui.renderTransactions(snap.Transactions)
}

func (ui *UI) renderTransactions(txs []domain.Transaction) {
	fmt.Fprintln(ui.out, "\nTransactions:")
	if len(txs) == 0 {
		fmt.Fprintln(ui.out, "  No transactions")
		return
	}
	for _, t := range txs {
		fmt.Fprintf(ui.out, "  %s  %-6s  %10.2f  %s  %s\n",
			t.TransactionID, t.TransactionType, t.Amount, t.Status, t.TransactionTime)
	}
}

// updateProfile prefills the form from a fresh customer fetch, validates the
// profile subset, and on success schedules the one-shot deferred return to
// the dashboard.
func (ui *UI) updateProfile(ctx context.Context, customerID string) {
	current, err := ui.api.GetCustomer(ctx, customerID)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			ui.msgs.Error("Failed to load customer details")
		} else {
			ui.msgs.Error("Error loading customer details")
		}
		return
	}
	fmt.Fprintln(ui.out, "\n=== Update Your Details ===")
	fmt.Fprintln(ui.out, "Press enter to keep the current value.")
	form := validate.Form{
		Name:  ui.promptDefault("Name", current.CustomerName),
		Email: ui.promptDefault("Email", current.CustomerEmail),
		Phone: ui.promptDefault("Phone number", current.CustomerPhoneNumber),
	}
	errs := validate.Validate(form, validate.ModeProfileUpdate)
	if len(errs) > 0 {
		ui.renderFieldErrors(errs)
		return
	}
	ok := ui.wallet.UpdateProfile(ctx, customerID, api.UpdateRequest{
		CustomerName:        strings.TrimSpace(form.Name),
		CustomerEmail:       strings.TrimSpace(form.Email),
		CustomerPhoneNumber: strings.TrimSpace(form.Phone),
	})
	if !ok {
		return
	}
	ui.renderMessage()
	// One-shot deferred transition back to the dashboard
	done := make(chan struct{})
	timer := time.AfterFunc(ui.cfg.UpdateRedirectDelay, func() { close(done) })
	defer timer.Stop()
	<-done
	ui.wallet.LoadDashboard(ctx, customerID)
}

func (ui *UI) adminLogin(ctx context.Context) {
	fmt.Fprintln(ui.out, "\n=== Admin Login ===")
	username := ui.prompt("Username: ")
	password := ui.prompt("Password: ")
	fieldErrs := map[string]string{}
	if strings.TrimSpace(username) == "" {
		fieldErrs["username"] = "Enter username"
	}
	if strings.TrimSpace(password) == "" {
		fieldErrs["password"] = "Enter password"
	}
	if len(fieldErrs) > 0 {
		ui.renderFieldErrors(fieldErrs)
		return
	}
	text, err := ui.api.AdminLogin(ctx, username, password)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			ui.msgs.Error(apiErr.Message)
		} else if errors.As(err, &apiErr) {
			ui.msgs.Error("Invalid username or password")
		} else {
			ui.msgs.Error("Server error. Try again later.")
		}
		ui.renderMessage()
		return
	}
	if err := ui.sessions.Login(session.Identity{Admin: true}); err != nil {
		ui.msgs.Error("Failed to save session")
		ui.renderMessage()
		return
	}
	if text == "" {
		text = "Login successful!"
	}
	ui.msgs.Success(text)
	ui.renderMessage() // Shown once; the roster fetch clears the channel
	ui.adminDashboard(ctx)
}

// adminDashboard renders the roster and the wallet drill-down. Same session
// guard discipline as the customer dashboard.
func (ui *UI) adminDashboard(ctx context.Context) {
	id, ok := ui.sessions.Current()
	if !ok || !id.Admin {
		fmt.Fprintln(ui.out, "Please log in first.")
		return
	}
	ui.roster.ListCustomers(ctx)
	for {
		snap := ui.roster.Snapshot()
		ui.renderMessage()
		if snap.SelectedWallet != nil {
			fmt.Fprintln(ui.out, "\n=== Wallet Details ===")
			fmt.Fprintf(ui.out, "Wallet ID: %s\n", snap.SelectedWallet.WalletID)
			fmt.Fprintf(ui.out, "Balance: %.2f\n", snap.SelectedWallet.Balance)
			ui.renderTransactions(snap.Transactions)
			fmt.Fprintln(ui.out, "\n1) Back to roster")
			fmt.Fprintln(ui.out, "0) Logout")
			fmt.Fprint(ui.out, "> ")
			switch strings.TrimSpace(ui.readLine()) {
			case "1":
				ui.roster.ClearSelection()
			default:
				ui.adminLogout()
				return
			}
			continue
		}
		ui.renderRoster(snap.Customers)
		fmt.Fprintln(ui.out, "\n1) View wallet")
		fmt.Fprintln(ui.out, "2) Delete customer")
		fmt.Fprintln(ui.out, "3) Refresh")
		fmt.Fprintln(ui.out, "0) Logout")
		fmt.Fprint(ui.out, "> ")
		switch strings.TrimSpace(ui.readLine()) {
		case "1":
			ui.roster.SelectWallet(ctx, ui.prompt("Customer ID: "))
		case "2":
			ui.roster.DeleteCustomer(ctx, ui.prompt("Customer ID: "))
		case "3":
			ui.roster.ListCustomers(ctx)
		default:
			ui.adminLogout()
			return
		}
	}
}

func (ui *UI) renderRoster(customers []domain.Customer) {
	fmt.Fprintln(ui.out, "\nCustomers:")
	if len(customers) == 0 {
		fmt.Fprintln(ui.out, "  No customers found")
		return
	}
	sorted := append([]domain.Customer(nil), customers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CustomerID < sorted[j].CustomerID })
	for _, c := range sorted {
		fmt.Fprintf(ui.out, "  %s  %-20s  %-25s  %s\n",
			c.CustomerID, c.CustomerName, c.CustomerEmail, c.CustomerPhoneNumber)
	}
}

// logout tears the customer session down and discards the snapshot
func (ui *UI) logout() {
	_ = ui.sessions.Logout()
	ui.wallet.Reset()
	ui.msgs.Clear()
	fmt.Fprintln(ui.out, "Logged out.")
}

// adminLogout tears the admin session down and discards the roster
func (ui *UI) adminLogout() {
	_ = ui.sessions.Logout()
	ui.roster.Reset()
	ui.msgs.Clear()
	fmt.Fprintln(ui.out, "Logged out.")
}

func (ui *UI) renderMessage() {
	msg := ui.msgs.Current()
	switch msg.Kind {
	case domain.MessageSuccess:
		fmt.Fprintf(ui.out, "[ok] %s\n", msg.Text)
	case domain.MessageError:
		fmt.Fprintf(ui.out, "[error] %s\n", msg.Text)
	}
}

func (ui *UI) renderFieldErrors(errs map[string]string) {
	if len(errs) == 0 {
		return
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(ui.out, "  %s: %s\n", f, errs[f])
	}
}

func (ui *UI) prompt(label string) string {
	fmt.Fprint(ui.out, label)
	return strings.TrimSpace(ui.readLine())
}

// promptDefault keeps the current value when the user just presses enter
func (ui *UI) promptDefault(label, current string) string {
	fmt.Fprintf(ui.out, "%s [%s]: ", label, current)
	if v := strings.TrimSpace(ui.readLine()); v != "" {
		return v
	}
	return current
}

// readAmount parses the amount input; anything unparseable becomes zero and
// is rejected by the controller without a network call
func (ui *UI) readAmount() float64 {
	fmt.Fprint(ui.out, "Enter amount: ")
	raw := strings.TrimSpace(ui.readLine())
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func (ui *UI) readLine() string {
	s, _ := ui.in.ReadString('\n')
	return strings.TrimRight(s, "\r\n")
}
