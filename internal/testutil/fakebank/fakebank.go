// Package fakebank is an in-process stand-in for the banking backend used by
// tests. It checks bcrypt passwords, issues HS256 tokens carrying a role
// claim, enforces roles per endpoint and records every request it serves.
package fakebank

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var secret = []byte("fakebank-test-secret")

// TransferMessage is the text the fake answers a successful transfer with.
const TransferMessage = "Transferência realizada com sucesso"

// User is a backend login.
type User struct {
	Username string
	Password string
	Role     string
	// RolesList issues the role as the first element of a "roles" claim.
	RolesList bool
	// Token, when set, is returned verbatim instead of a signed token.
	Token string
}

type user struct {
	User
	hash []byte
}

// Request is one recorded request.
type Request struct {
	Method        string
	Path          string
	Authorization string
	Body          []byte
}

// Bank is the fake backend.
type Bank struct {
	*httptest.Server

	mu           sync.Mutex
	users        map[string]*user
	accounts     []domain.Account
	transactions map[string][]domain.Transaction
	failures     map[string]int
	delays       map[string]time.Duration
	requests     []Request
}

// New starts a fake backend. Close it when done.
func New() *Bank {
	b := &Bank{
		users:        make(map[string]*user),
		transactions: make(map[string][]domain.Transaction),
		failures:     make(map[string]int),
		delays:       make(map[string]time.Duration),
	}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Post("/api/v1/auth/login", b.login)
	r.Route("/api/v1/accounts", func(r chi.Router) {
		r.With(b.requireRole(domain.RoleAdmin)).Post("/create", b.createAccount)
		r.With(b.requireRole(domain.RoleAdmin)).Get("/", b.listAccounts)
		r.With(b.requireRole("")).Get("/me", b.myAccount)
	})
	r.Route("/api/v1/transactions", func(r chi.Router) {
		r.With(b.requireRole(domain.RoleCliente)).Post("/transfer", b.transfer)
		r.With(b.requireRole("")).Get("/extract", b.extract)
	})

	b.Server = httptest.NewServer(r)
	return b
}

// AddUser registers a login.
func (b *Bank) AddUser(u User) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[u.Username] = &user{User: u, hash: hash}
}

// AddAccount registers an account.
func (b *Bank) AddAccount(a domain.Account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts = append(b.accounts, a)
}

// Account returns the stored account with the given number.
func (b *Bank) Account(number string) (domain.Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accounts {
		if a.AccountNumber == number {
			return a, true
		}
	}
	return domain.Account{}, false
}

// Fail makes every request to path answer with status until cleared with 0.
func (b *Bank) Fail(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, path)
		return
	}
	b.failures[path] = status
}

// Delay holds every answer to path for d until cleared with 0.
func (b *Bank) Delay(path string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d == 0 {
		delete(b.delays, path)
		return
	}
	b.delays[path] = d
}

// Calls counts requests served for path.
func (b *Bank) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

// Requests returns every recorded request to path, oldest first.
func (b *Bank) Requests(path string) []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Request
	for _, r := range b.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Total counts every recorded request.
func (b *Bank) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// SignToken issues a token for username with the given role claim.
func SignToken(username, role string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	s, err := token.SignedString(secret)
	if err != nil {
		panic(err)
	}
	return s
}

// ============================================================
// Middleware
// ============================================================

func (b *Bank) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		status := b.failures[r.URL.Path]
		delay := b.delays[r.URL.Path]
		b.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

type principal struct {
	username string
	role     string
}

// requireRole validates the bearer token; an empty role admits any caller.
func (b *Bank) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			p := principal{}
			p.username, _ = claims["sub"].(string)
			p.role, _ = claims["role"].(string)
			if role != "" && p.role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(withPrincipal(r, p)))
		})
	}
}

// ============================================================
// Handlers
// ============================================================

func (b *Bank) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	u, ok := b.users[req.Username]
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(req.Password)) != nil {
		http.Error(w, "Bad credentials", http.StatusUnauthorized)
		return
	}

	token := u.Token
	if token == "" {
		claims := jwt.MapClaims{
			"sub": u.Username,
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(24 * time.Hour).Unix(),
		}
		if u.RolesList {
			claims["roles"] = []string{u.Role}
		} else {
			claims["role"] = u.Role
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		token = signed
	}
	writeJSON(w, domain.LoginResponse{Token: token})
}

func (b *Bank) createAccount(w http.ResponseWriter, r *http.Request) {
	var a domain.Account
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if _, exists := b.Account(a.AccountNumber); exists {
		http.Error(w, "Conta já existe", http.StatusConflict)
		return
	}
	b.AddAccount(a)
	w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
	_, _ = io.WriteString(w, "Conta criada com sucesso para "+a.Username)
}

func (b *Bank) listAccounts(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	accounts := append([]domain.Account{}, b.accounts...)
	b.mu.Unlock()
	writeJSON(w, accounts)
}

func (b *Bank) myAccount(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accounts {
		if a.Username == p.username {
			writeJSON(w, a)
			return
		}
	}
	http.Error(w, "Conta não encontrada", http.StatusNotFound)
}

func (b *Bank) transfer(w http.ResponseWriter, r *http.Request) {
	var req domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	p := principalFrom(r)

	b.mu.Lock()
	defer b.mu.Unlock()

	from, to := -1, -1
	for i, a := range b.accounts {
		switch a.AccountNumber {
		case req.FromAccountNumber:
			from = i
		case req.ToAccountNumber:
			to = i
		}
	}
	if from < 0 || to < 0 || b.accounts[from].Username != p.username {
		http.Error(w, "Conta inválida", http.StatusBadRequest)
		return
	}
	if b.accounts[from].Balance.LessThan(req.Amount) {
		http.Error(w, "Saldo insuficiente", http.StatusBadRequest)
		return
	}

	b.accounts[from].Balance = b.accounts[from].Balance.Sub(req.Amount)
	b.accounts[to].Balance = b.accounts[to].Balance.Add(req.Amount)

	now := domain.Timestamp{Time: time.Now().Truncate(time.Second)}
	b.transactions[req.FromAccountNumber] = append(b.transactions[req.FromAccountNumber], domain.Transaction{
		Amount: req.Amount, DateTime: now, Type: domain.TransactionSent, OtherAccount: req.ToAccountNumber,
	})
	b.transactions[req.ToAccountNumber] = append(b.transactions[req.ToAccountNumber], domain.Transaction{
		Amount: req.Amount, DateTime: now, Type: domain.TransactionReceived, OtherAccount: req.FromAccountNumber,
	})

	w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
	_, _ = io.WriteString(w, TransferMessage)
}

func (b *Bank) extract(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []domain.Transaction{}
	for _, a := range b.accounts {
		if a.Username == p.username {
			out = append(out, b.transactions[a.AccountNumber]...)
		}
	}
	writeJSON(w, out)
}

// Balance is a convenience for building accounts in tests.
func Balance(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
