package service

import (
	"context"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"

	"go.uber.org/zap"
)

// UserDashboard shows the holder's account, accepts transfers and lists the
// extract.
type UserDashboard struct {
	svc *DashboardService

	Account      *domain.Account
	TransferForm *domain.TransferForm // nil until the account is loaded
	Loading      bool
	Transactions []domain.Transaction
	Notices      []Notice
}

func newUserDashboard(svc *DashboardService) *UserDashboard {
	return &UserDashboard{svc: svc, Loading: true}
}

// Activate loads the holder's account, locks the transfer form to it and
// then loads the extract.
func (d *UserDashboard) Activate(ctx context.Context) {
	ctx, span := dashTracer.Start(ctx, "UserDashboard.Activate")
	defer span.End()

	d.Loading = true
	defer func() { d.Loading = false }()

	account, err := d.svc.accounts.GetMyAccount(ctx)
	if err != nil {
		d.svc.logger.Warn("user: failed to load account", zap.Error(err))
		d.fail(actionLoadAccount, MsgLoadAccountFailed)
		return
	}

	d.Account = account
	form := domain.NewTransferForm(account.AccountNumber)
	d.TransferForm = &form
	d.LoadTransactions(ctx)
}

// LoadTransactions replaces the extract. On failure the previous extract stays.
func (d *UserDashboard) LoadTransactions(ctx context.Context) {
	ctx, span := dashTracer.Start(ctx, "UserDashboard.LoadTransactions")
	defer span.End()

	txs, err := d.svc.transactions.GetExtract(ctx)
	if err != nil {
		d.svc.logger.Warn("user: failed to load extract", zap.Error(err))
		d.fail(actionLoadExtract, MsgLoadExtractFailed)
		return
	}
	d.Transactions = txs
}

// SubmitTransfer applies the editable input to the form and submits the raw
// form value, source account included. Nothing is sent before the account is
// loaded, which yields the transfer notice, or while the form is invalid.
func (d *UserDashboard) SubmitTransfer(ctx context.Context, input domain.TransferInput) bool {
	ctx, span := dashTracer.Start(ctx, "UserDashboard.SubmitTransfer")
	defer span.End()

	if d.Account == nil || d.TransferForm == nil {
		d.svc.logger.Warn("user: transfer refused, account not loaded",
			zap.String("to", input.ToAccountNumber),
		)
		d.fail(actionTransfer, MsgTransferFailed)
		return false
	}

	form := *d.TransferForm
	form.ToAccountNumber = input.ToAccountNumber
	form.Amount = input.Amount
	form.Description = input.Description
	d.TransferForm = &form

	if err := form.Validate(); err != nil {
		d.svc.logger.Debug("user: invalid transfer form", zap.Error(err))
		d.fail(actionValidation, MsgInvalidForm)
		return false
	}

	msg, err := d.svc.transactions.Transfer(ctx, form.RawValue())
	if err != nil {
		d.svc.logger.Warn("user: transfer failed",
			zap.String("from", form.FromAccountNumber),
			zap.String("to", form.ToAccountNumber),
			zap.Error(err),
		)
		d.fail(actionTransfer, MsgTransferFailed)
		return false
	}

	d.svc.logger.Info("user: transfer submitted",
		zap.String("from", form.FromAccountNumber),
		zap.String("to", form.ToAccountNumber),
		zap.String("amount", form.Amount.String()),
	)
	d.Notices = append(d.Notices, info(msg))

	reset := domain.NewTransferForm(d.Account.AccountNumber)
	d.TransferForm = &reset

	d.LoadTransactions(ctx)
	d.refreshAccount(ctx)
	return true
}

// refreshAccount re-reads the balance after a transfer. A failure is only
// logged; the previous account stays on screen.
func (d *UserDashboard) refreshAccount(ctx context.Context) {
	account, err := d.svc.accounts.GetMyAccount(ctx)
	if err != nil {
		d.svc.logger.Warn("user: could not refresh balance after transfer", zap.Error(err))
		return
	}
	d.Account = account
}

func (d *UserDashboard) fail(action, text string) {
	d.svc.metrics.IncrNotice(action)
	d.Notices = append(d.Notices, failure(text))
}
