package api

import (
	"context"       // Request cancellation and deadlines
	"encoding/json" // JSON decoding
	"fmt"           // Error wrapping
	"net/http"      // HTTP methods
	"net/url"       // Path escaping
	"strings"       // Response text trimming

	"wallet_console/internal/domain" // Importing domain models
)

// RegisterRequest is the payload for creating a customer
type RegisterRequest struct {
	CustomerName        string `json:"customerName"`        // Display name
	CustomerEmail       string `json:"customerEmail"`       // Email used for login
	CustomerPhoneNumber string `json:"customerPhoneNumber"` // 10-digit phone number
	Password            string `json:"password"`            // Plaintext password; hashing is the backend's concern
}

// UpdateRequest is the payload for updating a customer's details
type UpdateRequest struct {
	CustomerName        string `json:"customerName"`        // Display name
	CustomerEmail       string `json:"customerEmail"`       // Email used for login
	CustomerPhoneNumber string `json:"customerPhoneNumber"` // 10-digit phone number
}

// LoginRequest is the payload for customer login
type LoginRequest struct {
	Email    string `json:"email"`    // Login email
	Password string `json:"password"` // Plaintext password
}

// LoginResponse carries the opaque identity handed back on login
type LoginResponse struct {
	CustomerID string `json:"customerId"` // Identifier persisted in the session store
}

// ListCustomers returns every customer (admin roster)
func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := c.getJSON(ctx, "/customers", &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer returns one customer by id; the wallet may come embedded
func (c *Client) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	var customer domain.Customer
	if err := c.getJSON(ctx, "/customers/"+url.PathEscape(id), &customer); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

// Register creates a new customer account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (domain.Customer, error) {
	raw, err := c.do(ctx, http.MethodPost, "/customers", req)
	if err != nil {
		return domain.Customer{}, err
	}
	var customer domain.Customer
	if err := json.Unmarshal(raw, &customer); err != nil {
		return domain.Customer{}, fmt.Errorf("decode POST /customers: %w", err)
	}
	return customer, nil
}

// UpdateCustomer replaces the customer's editable details
func (c *Client) UpdateCustomer(ctx context.Context, id string, req UpdateRequest) (domain.Customer, error) {
	raw, err := c.do(ctx, http.MethodPut, "/customers/"+url.PathEscape(id), req)
	if err != nil {
		return domain.Customer{}, err
	}
	var customer domain.Customer
	if err := json.Unmarshal(raw, &customer); err != nil {
		return domain.Customer{}, fmt.Errorf("decode PUT /customers/%s: %w", id, err)
	}
	return customer, nil
}

// DeleteCustomer removes a customer (admin operation)
func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/customers/"+url.PathEscape(id), nil)
	return err
}

// Login authenticates a customer and returns the opaque identifier
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	raw, err := c.do(ctx, http.MethodPost, "/customers/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return LoginResponse{}, err
	}
	var resp LoginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return LoginResponse{}, fmt.Errorf("decode POST /customers/login: %w", err)
	}
	return resp, nil
}

// ForgotPassword resets a customer's password and returns the backend's
// plain-text confirmation
func (c *Client) ForgotPassword(ctx context.Context, email, newPassword string) (string, error) {
	payload := struct {
		Email       string `json:"email"`       // Registered email
		NewPassword string `json:"newPassword"` // Replacement password
	}{Email: email, NewPassword: newPassword}
	raw, err := c.do(ctx, http.MethodPost, "/customers/forgot-password", payload)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
