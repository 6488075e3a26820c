// Package emailverify gates discovered emails before they enter a record.
// Discovery finds what a site displays; verification decides whether the
// address is worth keeping as a lead.
package emailverify

import (
	"context"
	"strings"

	"github.com/mcnijman/go-emailaddress"
)

// Result of verifying one address.
type Result struct {
	Email       string
	Deliverable bool
	Reason      string
}

// Verifier checks a discovered email address.
type Verifier interface {
	Verify(ctx context.Context, email string) (*Result, error)
}

// NoOp accepts every address, used when verification is disabled.
type NoOp struct{}

func (NoOp) Verify(_ context.Context, email string) (*Result, error) {
	return &Result{Email: email, Deliverable: true, Reason: "verification disabled"}, nil
}

// Local verifies addresses without any external API: RFC parse, ICANN
// suffix check, and (optionally) an MX lookup on the domain.
type Local struct {
	// CheckHost enables the MX/A record lookup. It costs a DNS round trip
	// per address, so it is off unless explicitly requested.
	CheckHost bool
}

func (v *Local) Verify(ctx context.Context, email string) (*Result, error) {
	parsed, err := emailaddress.Parse(strings.TrimSpace(email))
	if err != nil {
		return &Result{Email: email, Deliverable: false, Reason: "unparseable address"}, nil
	}

	if err := parsed.ValidateIcanSuffix(); err != nil {
		return &Result{Email: email, Deliverable: false, Reason: "non-ICANN suffix"}, nil
	}

	if v.CheckHost {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := parsed.ValidateHost(); err != nil {
			return &Result{Email: email, Deliverable: false, Reason: "host validation failed"}, nil
		}
	}

	return &Result{Email: parsed.String(), Deliverable: true, Reason: "ok"}, nil
}
