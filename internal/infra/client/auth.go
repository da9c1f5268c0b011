package client

import (
	"context"
	"net/http"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
)

// AuthClient calls the backend's authentication endpoint.
type AuthClient struct {
	backend *Backend
}

// NewAuthClient creates a new AuthClient.
func NewAuthClient(backend *Backend) *AuthClient {
	return &AuthClient{backend: backend}
}

// Login exchanges credentials for a bearer token.
// A non-2xx answer is an *domain.ErrBackendStatus.
func (c *AuthClient) Login(ctx context.Context, req *domain.LoginRequest) (string, error) {
	body, err := c.backend.do(ctx, call{
		service:   "auth",
		operation: "AuthClient.Login",
		method:    http.MethodPost,
		path:      loginPath,
		body:      req,
	})
	if err != nil {
		return "", err
	}

	var resp domain.LoginResponse
	if err := decodeJSON("auth", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
