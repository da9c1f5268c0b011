// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the view/service
// layer from the concrete HTTP clients and session backends.
package port

import (
	"context"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
)

// Authenticator exchanges credentials for an opaque bearer token.
type Authenticator interface {
	Login(ctx context.Context, req *domain.LoginRequest) (string, error)
}

// AccountsAPI is the account side of the banking backend.
type AccountsAPI interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetMyAccount(ctx context.Context) (*domain.Account, error)
}

// TransactionsAPI is the transaction side of the banking backend.
type TransactionsAPI interface {
	// Transfer returns the backend's free-text result message.
	Transfer(ctx context.Context, req *domain.TransferRequest) (string, error)
	GetExtract(ctx context.Context) ([]domain.Transaction, error)
}

// TokenSource yields the current session token at call time.
// An absent token is the empty string.
type TokenSource interface {
	Token(ctx context.Context) string
}

// SessionStorage is key/value storage scoped to the caller's browser session.
type SessionStorage interface {
	GetItem(ctx context.Context, key string) (string, bool)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
