package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend binds amounts to BigDecimal and expects JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ============================================================
// Accounts
// ============================================================

// Account is the backend's account representation. It is also the body of
// POST /api/v1/accounts/create.
type Account struct {
	UserName      string          `json:"userName"`
	Nuit          string          `json:"nuit"`
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	Username      string          `json:"username"`
}

// ============================================================
// Transactions (extract)
// ============================================================

// Transaction directions, seen from the account holder.
const (
	TransactionSent     = "ENVIADA"
	TransactionReceived = "RECEBIDA"
)

// TransferRequest is the body of POST /api/v1/transactions/transfer.
type TransferRequest struct {
	FromAccountNumber string          `json:"fromAccountNumber"`
	ToAccountNumber   string          `json:"toAccountNumber"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
}

// Transaction is one line of GET /api/v1/transactions/extract.
type Transaction struct {
	Amount       decimal.Decimal `json:"amount"`
	DateTime     Timestamp       `json:"dateTime"`
	Type         string          `json:"type"` // ENVIADA, RECEBIDA
	OtherAccount string          `json:"otherAccount"`
}

// Sent reports whether the transaction left the holder's account.
func (t Transaction) Sent() bool {
	return t.Type == TransactionSent
}

// localDateTime is the layout the backend uses for timestamps without a zone.
const localDateTime = "2006-01-02T15:04:05.999999999"

// Timestamp decodes both RFC 3339 and zone-less local timestamps.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(localDateTime, s, time.Local)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(localDateTime) + `"`), nil
}
