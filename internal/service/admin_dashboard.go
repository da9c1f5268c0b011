package service

import (
	"context"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"

	"go.uber.org/zap"
)

// AdminDashboard creates accounts and lists every account.
type AdminDashboard struct {
	svc *DashboardService

	Form     domain.AccountForm
	Accounts []domain.Account
	Notices  []Notice
}

func newAdminDashboard(svc *DashboardService) *AdminDashboard {
	return &AdminDashboard{svc: svc, Form: domain.NewAccountForm()}
}

// Activate loads the account list.
func (d *AdminDashboard) Activate(ctx context.Context) {
	d.LoadAccounts(ctx)
}

// LoadAccounts replaces the list with the backend's. On failure the list is
// left as it was.
func (d *AdminDashboard) LoadAccounts(ctx context.Context) {
	ctx, span := dashTracer.Start(ctx, "AdminDashboard.LoadAccounts")
	defer span.End()

	accounts, err := d.svc.accounts.ListAccounts(ctx)
	if err != nil {
		d.svc.logger.Warn("admin: failed to load accounts", zap.Error(err))
		d.fail(actionLoadAccounts, MsgLoadAccountsFailed)
		return
	}
	d.Accounts = accounts
}

// CreateAccount submits the form. An invalid form is never sent. On success
// the form is reset and the list reloaded; on failure the form keeps its input.
func (d *AdminDashboard) CreateAccount(ctx context.Context, form domain.AccountForm) bool {
	ctx, span := dashTracer.Start(ctx, "AdminDashboard.CreateAccount")
	defer span.End()

	d.Form = form

	if err := form.Validate(); err != nil {
		d.svc.logger.Debug("admin: invalid account form", zap.Error(err))
		d.fail(actionValidation, MsgInvalidForm)
		return false
	}

	if err := d.svc.accounts.CreateAccount(ctx, form.Account()); err != nil {
		d.svc.logger.Warn("admin: failed to create account",
			zap.String("account_number", form.AccountNumber),
			zap.Error(err),
		)
		d.fail(actionCreateAccount, MsgCreateAccountFailed)
		return false
	}

	d.svc.logger.Info("admin: account created", zap.String("account_number", form.AccountNumber))
	d.Notices = append(d.Notices, info(MsgAccountCreated))
	d.Form = domain.NewAccountForm()
	d.LoadAccounts(ctx)
	return true
}

func (d *AdminDashboard) fail(action, text string) {
	d.svc.metrics.IncrNotice(action)
	d.Notices = append(d.Notices, failure(text))
}
