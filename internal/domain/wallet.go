package domain

// Wallet Model
type Wallet struct {
	WalletID string  `json:"walletId"` // Server-assigned identifier
	Balance  float64 `json:"balance"`  // Server-authoritative balance; never computed on the client
}

// SentinelWalletID is the placeholder shown while a customer has no wallet.
const SentinelWalletID = "N/A"

// SentinelWallet returns the display placeholder for a missing wallet.
// It belongs to the presentation boundary only and is never sent to the server.
func SentinelWallet() Wallet {
	return Wallet{WalletID: SentinelWalletID, Balance: 0}
}
