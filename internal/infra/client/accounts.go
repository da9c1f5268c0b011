package client

import (
	"context"
	"net/http"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
)

// AccountClient calls the backend's account endpoints.
type AccountClient struct {
	backend *Backend
}

// NewAccountClient creates a new AccountClient.
func NewAccountClient(backend *Backend) *AccountClient {
	return &AccountClient{backend: backend}
}

// CreateAccount submits a new account. The acknowledgement body is ignored.
func (c *AccountClient) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := c.backend.do(ctx, call{
		service:   "accounts",
		operation: "AccountClient.CreateAccount",
		method:    http.MethodPost,
		path:      createAccountPath,
		body:      account,
		auth:      true,
	})
	return err
}

// ListAccounts fetches every account (admin only on the backend).
func (c *AccountClient) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	body, err := c.backend.do(ctx, call{
		service:   "accounts",
		operation: "AccountClient.ListAccounts",
		method:    http.MethodGet,
		path:      listAccountsPath,
		auth:      true,
	})
	if err != nil {
		return nil, err
	}

	accounts := []domain.Account{}
	if err := decodeJSON("accounts", body, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetMyAccount fetches the caller's own account.
func (c *AccountClient) GetMyAccount(ctx context.Context) (*domain.Account, error) {
	body, err := c.backend.do(ctx, call{
		service:   "accounts",
		operation: "AccountClient.GetMyAccount",
		method:    http.MethodGet,
		path:      myAccountPath,
		auth:      true,
	})
	if err != nil {
		return nil, err
	}

	var account domain.Account
	if err := decodeJSON("accounts", body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
