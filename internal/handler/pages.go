package handler

import (
	"net/http"
	"net/url"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
	"github.com/boddenberg/moza-banking-bfa-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxFormBytes caps submitted form bodies.
const maxFormBytes = 64 << 10

// ============================================================
// Page data
// ============================================================

type loginPage struct {
	Username string
	Notices  []service.Notice
}

type adminPage struct {
	Form     domain.AccountForm
	Accounts []domain.Account
	Notices  []service.Notice
}

type userPage struct {
	Account      *domain.Account
	TransferForm *domain.TransferForm
	Loading      bool
	Transactions []domain.Transaction
	Notices      []service.Notice
}

func newAdminPage(d *service.AdminDashboard) adminPage {
	return adminPage{Form: d.Form, Accounts: d.Accounts, Notices: d.Notices}
}

func newUserPage(d *service.UserDashboard) userPage {
	return userPage{
		Account:      d.Account,
		TransferForm: d.TransferForm,
		Loading:      d.Loading,
		Transactions: d.Transactions,
		Notices:      d.Notices,
	}
}

// postedForm parses a urlencoded body. A malformed body binds as empty so
// the page reports it like any other incomplete form.
func postedForm(w http.ResponseWriter, r *http.Request, logger *zap.Logger) url.Values {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		logger.Debug("page: unreadable form body", zap.String("path", r.URL.Path), zap.Error(err))
		return url.Values{}
	}
	return r.PostForm
}

// ============================================================
// 1. Login
// ============================================================

func loginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, http.StatusOK, pageLogin, loginPage{})
	}
}

func loginSubmitHandler(login *service.LoginService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "LoginSubmit")
		defer span.End()

		form := domain.ParseLoginForm(postedForm(w, r, logger))
		result := login.Submit(ctx, form)
		span.SetAttributes(attribute.String("login.redirect", result.Redirect))

		if result.Redirect != "" {
			http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
			return
		}
		renderPage(w, http.StatusOK, pageLogin, loginPage{Username: result.Username, Notices: result.Notices})
	}
}

// ============================================================
// 2. Admin dashboard
// ============================================================

func adminDashboardHandler(dashboards *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := dashboards.Admin()
		d.Activate(r.Context())
		renderPage(w, http.StatusOK, pageAdmin, newAdminPage(d))
	}
}

func createAccountHandler(dashboards *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "CreateAccountSubmit")
		defer span.End()

		form := domain.ParseAccountForm(postedForm(w, r, logger))

		d := dashboards.Admin()
		d.Activate(ctx)
		created := d.CreateAccount(ctx, form)
		span.SetAttributes(attribute.Bool("account.created", created))

		renderPage(w, http.StatusOK, pageAdmin, newAdminPage(d))
	}
}

// ============================================================
// 3. User dashboard
// ============================================================

func userDashboardHandler(dashboards *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := dashboards.User()
		d.Activate(r.Context())
		renderPage(w, http.StatusOK, pageUser, newUserPage(d))
	}
}

func transferHandler(dashboards *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "TransferSubmit")
		defer span.End()

		input := domain.ParseTransferInput(postedForm(w, r, logger))

		d := dashboards.User()
		d.Activate(ctx)
		sent := d.SubmitTransfer(ctx, input)
		span.SetAttributes(attribute.Bool("transfer.sent", sent))

		renderPage(w, http.StatusOK, pageUser, newUserPage(d))
	}
}
