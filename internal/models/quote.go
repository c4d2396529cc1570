package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuoteStatus string

const (
	QuotePending  QuoteStatus = "pending"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuotePending, QuoteAccepted, QuoteRejected, QuoteExpired:
		return true
	}
	return false
}

func (s QuoteStatus) Label() string {
	switch s {
	case QuotePending:
		return "Pending"
	case QuoteAccepted:
		return "Accepted"
	case QuoteRejected:
		return "Rejected"
	default:
		return "Expired"
	}
}

// Quote is an estimate sent to a client. Status is only ever set by the user;
// passing the expiry date does not change it.
type Quote struct {
	ID          ID              `json:"id"`
	Number      string          `json:"number"`
	Client      ID              `json:"client"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
	Expiry      Date            `json:"expiry"`
	Status      QuoteStatus     `json:"status"`
	Note        string          `json:"note"`
	CreatedAt   time.Time       `json:"createdAt"`
}
