package api

import (
	"context"  // Request cancellation and deadlines
	"net/http" // HTTP methods
	"net/url"  // Path escaping

	"wallet_console/internal/domain" // Importing domain models
)

// GetWalletByCustomer returns the wallet owned by the given customer
func (c *Client) GetWalletByCustomer(ctx context.Context, customerID string) (domain.Wallet, error) {
	var wallet domain.Wallet
	if err := c.getJSON(ctx, "/wallets/customer/"+url.PathEscape(customerID), &wallet); err != nil {
		return domain.Wallet{}, err
	}
	return wallet, nil
}

// AddFunds credits the customer's wallet. The contract takes a raw number
// body, not an object.
func (c *Client) AddFunds(ctx context.Context, customerID string, amount float64) error {
	_, err := c.do(ctx, http.MethodPut, "/wallets/add/"+url.PathEscape(customerID), amount)
	return err
}

// DeductFunds debits the customer's wallet. Same raw number body as AddFunds.
func (c *Client) DeductFunds(ctx context.Context, customerID string, amount float64) error {
	_, err := c.do(ctx, http.MethodPut, "/wallets/deduct/"+url.PathEscape(customerID), amount)
	return err
}

// ListTransactions returns the transaction history of a wallet
func (c *Client) ListTransactions(ctx context.Context, walletID string) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	if err := c.getJSON(ctx, "/transactions/"+url.PathEscape(walletID), &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
