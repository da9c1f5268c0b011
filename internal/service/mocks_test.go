package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
)

// --- Mocks ---

var errBackend = &domain.ErrBackendStatus{Service: "test", Status: 500}

type mockAuth struct {
	token string
	err   error
	calls int
	last  *domain.LoginRequest
}

func (m *mockAuth) Login(_ context.Context, req *domain.LoginRequest) (string, error) {
	m.calls++
	m.last = req
	return m.token, m.err
}

type mockStorage struct {
	mu     sync.Mutex
	items  map[string]string
	setErr error
}

func newMockStorage() *mockStorage {
	return &mockStorage{items: make(map[string]string)}
}

func (m *mockStorage) GetItem(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *mockStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.items[key] = value
	return nil
}

func (m *mockStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

type mockAccounts struct {
	account   *domain.Account
	accounts  []domain.Account
	myErr     error
	myErrs    []error // consumed per GetMyAccount call before myErr
	listErr   error
	createErr error

	myCalls     int
	listCalls   int
	createCalls int
	created     []*domain.Account
}

func (m *mockAccounts) CreateAccount(_ context.Context, a *domain.Account) error {
	m.createCalls++
	m.created = append(m.created, a)
	if m.createErr != nil {
		return m.createErr
	}
	m.accounts = append(m.accounts, *a)
	return nil
}

func (m *mockAccounts) ListAccounts(context.Context) ([]domain.Account, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Account{}, m.accounts...), nil
}

func (m *mockAccounts) GetMyAccount(context.Context) (*domain.Account, error) {
	m.myCalls++
	if len(m.myErrs) > 0 {
		err := m.myErrs[0]
		m.myErrs = m.myErrs[1:]
		if err != nil {
			return nil, err
		}
	} else if m.myErr != nil {
		return nil, m.myErr
	}
	a := *m.account
	return &a, nil
}

type mockTransactions struct {
	message     string
	txs         []domain.Transaction
	transferErr error
	extractErr  error

	transferCalls int
	extractCalls  int
	transfers     []*domain.TransferRequest
}

func (m *mockTransactions) Transfer(_ context.Context, req *domain.TransferRequest) (string, error) {
	m.transferCalls++
	m.transfers = append(m.transfers, req)
	if m.transferErr != nil {
		return "", m.transferErr
	}
	return m.message, nil
}

func (m *mockTransactions) GetExtract(context.Context) ([]domain.Transaction, error) {
	m.extractCalls++
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.txs, nil
}

var errNetwork = errors.New("connection refused")
