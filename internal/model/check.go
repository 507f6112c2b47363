package model

import "time"

// Verdict is the tri-state outcome of a gateway check.
type Verdict string

const (
	VerdictLive    Verdict = "live"
	VerdictDead    Verdict = "dead"
	VerdictUnknown Verdict = "unknown"
)

// CheckRequest is the inbound body of POST /api/check.
// CC is "{number}|{expMonth}|{expYear}|{cvc}".
type CheckRequest struct {
	CC     string   `json:"cc"`
	Amount *float64 `json:"amount,omitempty"`
}

// CheckResult is the caller-visible outcome of one check.
// Amount carries either the numeric charge amount or the provider
// MCP string when the provider reported one; internal-failure results
// have no amount and the key is omitted.
type CheckResult struct {
	Status      Verdict     `json:"status"`
	APIStatus   string      `json:"apiStatus"`
	APIMessage  string      `json:"apiMessage"`
	RawResponse string      `json:"rawResponse"`
	Amount      interface{} `json:"amount,omitempty"`
	MCP         *string     `json:"mcp"`
}

// CheckLog is the persisted record of a completed check. The card
// number is stored masked, never in full.
type CheckLog struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	MaskedCard  string    `json:"masked_card" db:"masked_card"`
	Verdict     Verdict   `json:"verdict" db:"verdict"`
	Message     string    `json:"message" db:"message"`
	Amount      string    `json:"amount" db:"amount"`
	Gateway     string    `json:"gateway" db:"gateway"`
	RawResponse string    `json:"raw_response" db:"raw_response"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
