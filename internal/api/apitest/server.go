// Package apitest provides an in-memory stand-in for the wallet backend,
// covering the REST surface the console consumes. Tests seed it with
// customers, wallets and transactions, inject failures per route, and
// inspect the request journal.
package apitest

import (
	"fmt"               // ID formatting
	"net/http"          // HTTP status codes
	"net/http/httptest" // Test server
	"sync"              // State guarding
	"time"              // Transaction timestamps

	"wallet_console/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request is one journal entry of an observed backend call
type Request struct {
	Method string // HTTP method
	Path   string // Resolved request path
}

// failure is an injected canned response for a route
type failure struct {
	status      int    // HTTP status to answer with
	contentType string // Body content type
	body        string // Raw body
}

// Server is the fake wallet backend
type Server struct {
	mu            sync.Mutex
	customers     map[string]domain.Customer      // Keyed by customer id
	passwords     map[string]string               // Keyed by email
	wallets       map[string]*domain.Wallet       // Keyed by owning customer id
	transactions  map[string][]domain.Transaction // Keyed by wallet id, newest first
	nextID        int                             // Sequence for generated ids
	failures      map[string]failure              // Keyed by "METHOD /route/pattern"
	gates         map[string]chan struct{}        // Requests matching a gate block until released
	requests      []Request                       // Journal of observed requests
	adminUser     string                          // Accepted admin username
	adminPassword string                          // Accepted admin password

	httpSrv *httptest.Server
}

// NewServer starts the fake backend. Admin credentials are admin/admin.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		customers:     map[string]domain.Customer{},
		passwords:     map[string]string{},
		wallets:       map[string]*domain.Wallet{},
		transactions:  map[string][]domain.Transaction{},
		failures:      map[string]failure{},
		gates:         map[string]chan struct{}{},
		adminUser:     "admin",
		adminPassword: "admin",
	}

	r := gin.New()
	r.Use(s.intercept)

	// Route table mirrors the real backend contract
	r.GET("/customers", s.listCustomers)
	r.GET("/customers/:id", s.getCustomer)
	r.POST("/customers", s.register)
	r.PUT("/customers/:id", s.updateCustomer)
	r.DELETE("/customers/:id", s.deleteCustomer)
	r.POST("/customers/login", s.login)
	r.POST("/customers/forgot-password", s.forgotPassword)
	r.GET("/wallets/customer/:id", s.walletByCustomer)
	r.PUT("/wallets/add/:id", s.addFunds)
	r.PUT("/wallets/deduct/:id", s.deductFunds)
	r.GET("/transactions/:walletId", s.listTransactions)
	r.POST("/admin/login", s.adminLogin)

	s.httpSrv = httptest.NewServer(r)
	return s
}

// URL returns the base URL of the running fake backend
func (s *Server) URL() string { return s.httpSrv.URL }

// Close shuts the fake backend down
func (s *Server) Close() { s.httpSrv.Close() }

// intercept journals every request, honors gates and injected failures
func (s *Server) intercept(c *gin.Context) {
	key := c.Request.Method + " " + c.FullPath()
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: c.Request.Method, Path: c.Request.URL.Path})
	gate := s.gates[key]
	f, failed := s.failures[key]
	s.mu.Unlock()
	if gate != nil {
		<-gate // Held open until the test releases it
	}
	if failed {
		c.Data(f.status, f.contentType, []byte(f.body))
		c.Abort()
		return
	}
	c.Next()
}

// FailJSON makes requests matching "METHOD /route/:pattern" answer with a JSON body
func (s *Server) FailJSON(method, pattern string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+pattern] = failure{status: status, contentType: "application/json", body: body}
}

// FailText makes matching requests answer with a plain-text body
func (s *Server) FailText(method, pattern string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+pattern] = failure{status: status, contentType: "text/plain", body: body}
}

// ClearFailures removes every injected failure
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]failure{}
}

// Gate holds every request matching the route pattern until the returned
// release function is called. Used to force request-ordering races.
func (s *Server) Gate(method, pattern string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates[method+" "+pattern] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, method+" "+pattern)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns a copy of the request journal
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests counts journal entries matching method and exact path
func (s *Server) CountRequests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// SeedCustomer inserts a customer (and remembers its password for login)
func (s *Server) SeedCustomer(c domain.Customer, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.CustomerID] = c
	if password != "" {
		s.passwords[c.CustomerEmail] = password
	}
}

// SeedWallet attaches a wallet to a customer
func (s *Server) SeedWallet(customerID string, w domain.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wallet := w
	s.wallets[customerID] = &wallet
}

// SeedTransactions sets a wallet's history, newest first
func (s *Server) SeedTransactions(walletID string, txs ...domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[walletID] = append([]domain.Transaction{}, txs...)
}

// Balance reports the current balance of a customer's wallet
func (s *Server) Balance(customerID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wallets[customerID]; ok {
		return w.Balance
	}
	return 0
}

// nextSeq returns the next id sequence number
func (s *Server) nextSeq() int {
	s.nextID++
	return s.nextID
}

// --- Handlers ---

func (s *Server) listCustomers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Customer, 0, len(s.customers))
	for _, cust := range s.customers {
		out = append(out, s.withWalletLocked(cust))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getCustomer(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cust, ok := s.customers[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, s.withWalletLocked(cust))
}

// withWalletLocked embeds the wallet reference the way the real backend does
func (s *Server) withWalletLocked(cust domain.Customer) domain.Customer {
	if w, ok := s.wallets[cust.CustomerID]; ok {
		wallet := *w
		cust.Wallet = &wallet
	}
	return cust
}

func (s *Server) register(c *gin.Context) {
	var req struct {
		CustomerName        string `json:"customerName"`
		CustomerEmail       string `json:"customerEmail"`
		CustomerPhoneNumber string `json:"customerPhoneNumber"`
		Password            string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.passwords[req.CustomerEmail]; taken {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"customerEmail": "Email already registered"}})
		return
	}
	cust := domain.Customer{
		CustomerID:          fmt.Sprintf("C%03d", s.nextSeq()),
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhoneNumber: req.CustomerPhoneNumber,
	}
	s.customers[cust.CustomerID] = cust
	s.passwords[req.CustomerEmail] = req.Password
	c.JSON(http.StatusCreated, cust)
}

func (s *Server) updateCustomer(c *gin.Context) {
	var req struct {
		CustomerName        string `json:"customerName"`
		CustomerEmail       string `json:"customerEmail"`
		CustomerPhoneNumber string `json:"customerPhoneNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cust, ok := s.customers[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}
	cust.CustomerName = req.CustomerName
	cust.CustomerEmail = req.CustomerEmail
	cust.CustomerPhoneNumber = req.CustomerPhoneNumber
	s.customers[cust.CustomerID] = cust
	c.JSON(http.StatusOK, s.withWalletLocked(cust))
}

func (s *Server) deleteCustomer(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	cust, ok := s.customers[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}
	delete(s.customers, id)
	delete(s.passwords, cust.CustomerEmail)
	if w, hadWallet := s.wallets[id]; hadWallet {
		delete(s.transactions, w.WalletID)
		delete(s.wallets, id)
	}
	c.Status(http.StatusOK)
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if pw, ok := s.passwords[req.Email]; !ok || pw != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	for _, cust := range s.customers {
		if cust.CustomerEmail == req.Email {
			c.JSON(http.StatusOK, gin.H{"customerId": cust.CustomerID})
			return
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid request")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.passwords[req.Email]; !ok {
		c.String(http.StatusNotFound, "Customer not found")
		return
	}
	s.passwords[req.Email] = req.NewPassword
	c.String(http.StatusOK, "Password updated successfully")
}

func (s *Server) walletByCustomer(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Wallet not found"})
		return
	}
	c.JSON(http.StatusOK, *w)
}

func (s *Server) addFunds(c *gin.Context) {
	s.mutateBalance(c, domain.TxCredit)
}

func (s *Server) deductFunds(c *gin.Context) {
	s.mutateBalance(c, domain.TxDebit)
}

// mutateBalance applies a credit or debit and records the transaction,
// newest first, the way the real backend orders history
func (s *Server) mutateBalance(c *gin.Context, txType string) {
	var amount float64
	if err := c.ShouldBindJSON(&amount); err != nil || amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid amount"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Wallet not found"})
		return
	}
	if txType == domain.TxDebit {
		if w.Balance < amount {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient balance"})
			return
		}
		w.Balance -= amount
	} else {
		w.Balance += amount
	}
	tx := domain.Transaction{
		TransactionID:   fmt.Sprintf("T%03d", s.nextSeq()),
		TransactionType: txType,
		Amount:          amount,
		Status:          "SUCCESS",
		TransactionTime: time.Now().Format(time.RFC3339),
	}
	s.transactions[w.WalletID] = append([]domain.Transaction{tx}, s.transactions[w.WalletID]...)
	c.JSON(http.StatusOK, *w)
}

func (s *Server) listTransactions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := s.transactions[c.Param("walletId")]
	if txs == nil {
		txs = []domain.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}

func (s *Server) adminLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid request")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Username != s.adminUser || req.Password != s.adminPassword {
		c.String(http.StatusUnauthorized, "Invalid username or password")
		return
	}
	c.String(http.StatusOK, "Admin login successful")
}
