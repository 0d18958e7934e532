package domain

// Transaction type values used by the backend
const (
	TxCredit = "credit" // Money added to the wallet
	TxDebit  = "debit"  // Money deducted from the wallet
)

// Transaction Model (immutable once fetched; the client only displays it)
type Transaction struct {
	TransactionID   string  `json:"transactionId"`   // Server-assigned identifier
	TransactionType string  `json:"transactionType"` // credit or debit
	Amount          float64 `json:"amount"`          // Transaction amount
	Status          string  `json:"status"`          // Server-reported status
	TransactionTime string  `json:"transactionTime"` // Timestamp as reported by the server
}
