package handler_test

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"
	"time"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
	"github.com/boddenberg/moza-banking-bfa-go/internal/service"
	"github.com/boddenberg/moza-banking-bfa-go/internal/testutil/fakebank"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBrowser returns a second client with its own cookie jar, so it holds a
// separate session against the same app.
func (a *app) newBrowser(t *testing.T) *app {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	other := *a
	other.browser = &http.Client{
		Jar:           jar,
		CheckRedirect: a.browser.CheckRedirect,
	}
	return &other
}

// TestFlow_AdminOnboardsClientWhoTransfers walks through both dashboards with
// two concurrent sessions.
func TestFlow_AdminOnboardsClientWhoTransfers(t *testing.T) {
	admin := newApp(t)
	admin.bank.AddUser(fakebank.User{Username: "maria", Password: "maria123", Role: domain.RoleCliente})

	// --- Admin creates Maria's account ---
	resp := admin.login(t, "admin", "admin123")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := admin.post(t, "/admin-dashboard/accounts", url.Values{
		"userName":      {"Maria Nhaca"},
		"nuit":          {"300"},
		"accountNumber": {"AC789"},
		"balance":       {"250"},
		"username":      {"maria"},
	})
	require.Contains(t, body, service.MsgAccountCreated)

	// --- Maria logs in on her own browser ---
	maria := admin.newBrowser(t)
	resp = maria.login(t, "maria", "maria123")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, service.RouteUserDashboard, resp.Header.Get("Location"))

	_, body = maria.get(t, service.RouteUserDashboard)
	assert.Contains(t, body, "Maria Nhaca")
	assert.Contains(t, body, "250.00")

	_, body = maria.post(t, "/user-dashboard/transfer", url.Values{
		"toAccountNumber": {"AC123"},
		"amount":          {"50"},
		"description":     {"almoço"},
	})
	assert.Contains(t, body, fakebank.TransferMessage)
	assert.Contains(t, body, "200.00")

	// --- Admin's session is untouched and sees the new balances ---
	_, body = admin.get(t, service.RouteAdminDashboard)
	assert.Contains(t, body, "200.00")
	assert.Contains(t, body, "550.00")

	// Each session sent its own token.
	var adminCalls, mariaCalls int
	adminToken, mariaToken := "", ""
	for _, r := range admin.bank.Requests("/api/v1/accounts/") {
		adminCalls++
		adminToken = r.Authorization
	}
	for _, r := range admin.bank.Requests("/api/v1/transactions/transfer") {
		mariaCalls++
		mariaToken = r.Authorization
	}
	assert.Equal(t, 3, adminCalls)
	assert.Equal(t, 1, mariaCalls)
	assert.NotEqual(t, adminToken, mariaToken)
}

// TestFlow_FailedLoginClearsPreviousToken checks that a failed attempt leaves
// the session without a token, so dashboards stop loading.
func TestFlow_FailedLoginClearsPreviousToken(t *testing.T) {
	a := newApp(t)

	a.login(t, "ana", "ana123")
	_, body := a.get(t, service.RouteUserDashboard)
	require.Contains(t, body, "AC123")

	_, body = a.post(t, "/login", url.Values{"username": {"ana"}, "password": {"wrong"}})
	require.Contains(t, body, service.MsgInvalidCredentials)

	_, body = a.get(t, service.RouteUserDashboard)
	assert.Contains(t, body, service.MsgLoadAccountFailed)
}

// TestFlow_BackendDown keeps every page rendering with failure notices.
func TestFlow_BackendDown(t *testing.T) {
	a := newApp(t)
	a.bank.Close()

	_, body := a.post(t, "/login", url.Values{"username": {"admin"}, "password": {"admin123"}})
	assert.Contains(t, body, service.MsgInvalidCredentials)

	resp, body := a.get(t, service.RouteAdminDashboard)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, service.MsgLoadAccountsFailed)

	resp, body = a.get(t, service.RouteUserDashboard)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, service.MsgLoadAccountFailed)
}

// TestFlow_OneUsersBackendErrorsDoNotAffectOthers keeps every session's calls
// independent: repeated server errors for one holder never stop another
// user's login from reaching the backend.
func TestFlow_OneUsersBackendErrorsDoNotAffectOthers(t *testing.T) {
	ana := newApp(t)
	ana.bank.Fail("/api/v1/transactions/extract", http.StatusInternalServerError)

	ana.login(t, "ana", "ana123")
	for i := 0; i < 6; i++ {
		_, body := ana.get(t, service.RouteUserDashboard)
		require.Contains(t, body, service.MsgLoadExtractFailed)
	}

	admin := ana.newBrowser(t)
	resp := admin.login(t, "admin", "admin123")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, service.RouteAdminDashboard, resp.Header.Get("Location"))
	assert.Equal(t, 2, admin.bank.Calls("/api/v1/auth/login"))
}

// TestFlow_SlowTransferIsAwaited shows the backend's answer however long it
// takes, so the page never reports a failure for a transfer that went through.
func TestFlow_SlowTransferIsAwaited(t *testing.T) {
	a := newApp(t)
	a.bank.Delay("/api/v1/transactions/transfer", 300*time.Millisecond)
	a.login(t, "ana", "ana123")

	_, body := a.post(t, "/user-dashboard/transfer", url.Values{
		"toAccountNumber": {"AC456"},
		"amount":          {"100"},
		"description":     {"renda"},
	})

	assert.Contains(t, body, fakebank.TransferMessage)
	assert.NotContains(t, body, service.MsgTransferFailed)
	assert.Contains(t, body, "400.00")
}
