package domain

// Customer Model (as served by the wallet backend)
type Customer struct {
	CustomerID          string  `json:"customerId"`          // Server-assigned identifier
	CustomerName        string  `json:"customerName"`        // Display name
	CustomerEmail       string  `json:"customerEmail"`       // Email used for login
	CustomerPhoneNumber string  `json:"customerPhoneNumber"` // 10-digit phone number
	Wallet              *Wallet `json:"wallet,omitempty"`    // Optional wallet reference; nil until a wallet exists
}
