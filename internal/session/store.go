// Package session persists the active identity — a customer id or an
// administrator flag — durably across process restarts until explicit logout.
package session

// Identity is the client-held proof of who is signed in
type Identity struct {
	CustomerID string `json:"customerId,omitempty"`    // Signed-in customer, when present
	Admin      bool   `json:"adminLoggedIn,omitempty"` // Administrator flag
}

// Store is the durable identity record. Only the login and logout flows
// write; concurrent writers (two processes sharing a record) are undefined
// behavior and out of scope.
type Store interface {
	// Login persists the identity until Logout
	Login(id Identity) error
	// Logout clears the persisted identity. Callers must also discard any
	// in-memory snapshots held by the controllers.
	Logout() error
	// Current reads the persisted identity; false means no live session
	Current() (Identity, bool)
}
