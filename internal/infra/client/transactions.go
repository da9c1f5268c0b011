package client

import (
	"context"
	"net/http"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
)

// TransactionClient calls the backend's transaction endpoints.
type TransactionClient struct {
	backend *Backend
}

// NewTransactionClient creates a new TransactionClient.
func NewTransactionClient(backend *Backend) *TransactionClient {
	return &TransactionClient{backend: backend}
}

// Transfer submits a transfer and returns the backend's message verbatim.
func (c *TransactionClient) Transfer(ctx context.Context, req *domain.TransferRequest) (string, error) {
	body, err := c.backend.do(ctx, call{
		service:   "transactions",
		operation: "TransactionClient.Transfer",
		method:    http.MethodPost,
		path:      transferPath,
		body:      req,
		auth:      true,
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetExtract fetches the caller's transaction history.
func (c *TransactionClient) GetExtract(ctx context.Context) ([]domain.Transaction, error) {
	body, err := c.backend.do(ctx, call{
		service:   "transactions",
		operation: "TransactionClient.GetExtract",
		method:    http.MethodGet,
		path:      extractPath,
		auth:      true,
	})
	if err != nil {
		return nil, err
	}

	transactions := []domain.Transaction{}
	if err := decodeJSON("transactions", body, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}
