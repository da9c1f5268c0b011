package domain

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ============================================================
// Forms
// ============================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Decimals reach validators as their exact string form so bounds never
	// go through float64.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		return d.String()
	}, decimal.Decimal{})
	_ = v.RegisterValidation("decimal_gte", decimalGTE)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// decimalGTE checks decimal_gte=<min> exactly.
func decimalGTE(fl validator.FieldLevel) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	limit, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	return value.GreaterThanOrEqual(limit)
}

// LoginForm holds the login page input.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Request converts the form into the auth payload.
func (f LoginForm) Request() *LoginRequest {
	return &LoginRequest{Username: f.Username, Password: f.Password}
}

// AccountForm holds the admin account-creation input.
type AccountForm struct {
	UserName      string          `form:"userName" validate:"required"`
	Nuit          string          `form:"nuit" validate:"required"`
	AccountNumber string          `form:"accountNumber" validate:"required"`
	Balance       decimal.Decimal `form:"balance" validate:"decimal_gte=0"`
	Username      string          `form:"username" validate:"required"`

	// balanceInvalid is set when the balance input was blank or not a number.
	balanceInvalid bool
}

// NewAccountForm returns the form in its reset state.
func NewAccountForm() AccountForm {
	return AccountForm{Balance: decimal.Zero}
}

// Account converts the form into the creation payload.
func (f AccountForm) Account() *Account {
	return &Account{
		UserName:      f.UserName,
		Nuit:          f.Nuit,
		AccountNumber: f.AccountNumber,
		Balance:       f.Balance,
		Username:      f.Username,
	}
}

// TransferForm holds the transfer input. FromAccountNumber is locked to the
// holder's own account and cannot be edited.
type TransferForm struct {
	FromAccountNumber string          `form:"fromAccountNumber" validate:"required"`
	ToAccountNumber   string          `form:"toAccountNumber" validate:"required"`
	Amount            decimal.Decimal `form:"amount" validate:"decimal_gte=1"`
	Description       string          `form:"description" validate:"required"`
}

// NewTransferForm returns a blank transfer form locked to the given source account.
func NewTransferForm(fromAccountNumber string) TransferForm {
	return TransferForm{FromAccountNumber: fromAccountNumber, Amount: decimal.Zero}
}

// RawValue returns the full payload, disabled fields included.
func (f TransferForm) RawValue() *TransferRequest {
	return &TransferRequest{
		FromAccountNumber: f.FromAccountNumber,
		ToAccountNumber:   f.ToAccountNumber,
		Amount:            f.Amount,
		Description:       f.Description,
	}
}

// TransferInput is the editable subset of the transfer form.
type TransferInput struct {
	ToAccountNumber string
	Amount          decimal.Decimal
	Description     string
}

// ============================================================
// Binding from submitted HTML forms
// ============================================================

// ParseLoginForm binds a submitted login form.
func ParseLoginForm(v url.Values) LoginForm {
	return LoginForm{
		Username: strings.TrimSpace(v.Get("username")),
		Password: v.Get("password"),
	}
}

// ParseAccountForm binds a submitted account-creation form. A blank or
// malformed balance leaves the form invalid.
func ParseAccountForm(v url.Values) AccountForm {
	f := AccountForm{
		UserName:      strings.TrimSpace(v.Get("userName")),
		Nuit:          strings.TrimSpace(v.Get("nuit")),
		AccountNumber: strings.TrimSpace(v.Get("accountNumber")),
		Username:      strings.TrimSpace(v.Get("username")),
	}
	balance, ok := parseAmount(v.Get("balance"))
	f.Balance, f.balanceInvalid = balance, !ok
	return f
}

// ParseTransferInput binds the editable fields of a submitted transfer form.
// A posted fromAccountNumber is ignored. A blank or malformed amount binds
// to zero, which fails the minimum check.
func ParseTransferInput(v url.Values) TransferInput {
	amount, _ := parseAmount(v.Get("amount"))
	return TransferInput{
		ToAccountNumber: strings.TrimSpace(v.Get("toAccountNumber")),
		Amount:          amount,
		Description:     strings.TrimSpace(v.Get("description")),
	}
}

func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ============================================================
// Validation
// ============================================================

// Validate checks the login form.
func (f LoginForm) Validate() error {
	return validateStruct(f)
}

// Validate checks the account form.
func (f AccountForm) Validate() error {
	if f.balanceInvalid {
		return &ErrValidation{Field: "balance", Message: "required"}
	}
	return validateStruct(f)
}

// Validate checks the transfer form.
func (f TransferForm) Validate() error {
	return validateStruct(f)
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ErrValidation{Field: fieldErrs[0].Field(), Message: fieldErrs[0].Tag()}
	}
	return &ErrValidation{Field: "form", Message: err.Error()}
}
