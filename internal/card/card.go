package card

import (
	"fmt"
	"regexp"
	"strings"
)

var cvcPattern = regexp.MustCompile(`^\d{3,4}$`)

// Card is the decomposed pipe-separated payload
// "{number}|{expMonth}|{expYear}|{cvc}".
type Card struct {
	Number   string
	ExpMonth string
	ExpYear  string
	CVC      string
}

// Parse splits a raw cc string into its card fields. The payload must
// contain at least four pipe-separated segments and the fourth segment
// must be a 3-4 digit CVC.
func Parse(cc string) (*Card, error) {
	parts := strings.Split(cc, "|")
	if len(parts) < 4 {
		return nil, fmt.Errorf("cc must contain at least 4 pipe-separated fields, got %d", len(parts))
	}

	c := &Card{
		Number:   strings.TrimSpace(parts[0]),
		ExpMonth: strings.TrimSpace(parts[1]),
		ExpYear:  strings.TrimSpace(parts[2]),
		CVC:      strings.TrimSpace(parts[3]),
	}

	if !cvcPattern.MatchString(c.CVC) {
		return nil, fmt.Errorf("cvc must be 3-4 digits")
	}

	return c, nil
}

// Masked returns the card number as first six digits, four asterisks and
// the last four digits. Numbers too short to mask that way are returned
// fully masked.
func (c *Card) Masked() string {
	if len(c.Number) < 10 {
		return strings.Repeat("*", len(c.Number))
	}
	return c.Number[:6] + "****" + c.Number[len(c.Number)-4:]
}
