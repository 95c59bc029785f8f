// Package payment defines the gateway boundary used by the reservation
// transaction.  The production system would talk to a real processor with
// an authorize/capture split; this service ships a synchronous stub that
// validates the card details and either approves or declines.
package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Card carries the details submitted with a reservation request.  The
// gateway owns their validation; callers pass them through untouched.
type Card struct {
	Number string `json:"card_number"`
	Holder string `json:"card_holder"`
	Expiry string `json:"expiry_date"` // MM/YY
	CVV    string `json:"cvv"`
}

// Result is the outcome of an authorization attempt.  Ref is set only
// when Approved; Reason is set only when declined.
type Result struct {
	Approved bool
	Ref      string
	Reason   string
}

// Gateway authorizes a charge.  Implementations must be synchronous with
// bounded latency and idempotent per attempt: a declined authorization
// has no side effects and may be retried by the user.
type Gateway interface {
	Authorize(ctx context.Context, amountCents uint32, card Card) (Result, error)
}

// declineSuffix marks the card number the stub always declines, mirroring
// the decline test card of common processors.
const declineSuffix = "0002"

var expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)

// Stub is an in-process Gateway.  It validates the card format the way
// the real gateway would (16 digit number, MM/YY expiry in the future,
// 3-4 digit CVV), declines numbers ending in 0002, and approves anything
// else with a fresh payment reference.  Latency simulates processor
// round-trip time and is honored up to context cancellation.
type Stub struct {
	Latency time.Duration
	now     func() time.Time // overridable in tests
}

// NewStub returns a stub gateway with the given simulated latency.
func NewStub(latency time.Duration) *Stub {
	return &Stub{Latency: latency, now: func() time.Time { return time.Now().UTC() }}
}

// Authorize implements Gateway.
func (s *Stub) Authorize(ctx context.Context, amountCents uint32, card Card) (Result, error) {
	if s.Latency > 0 {
		select {
		case <-time.After(s.Latency):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	if amountCents == 0 {
		return Result{Reason: "zero amount"}, nil
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1 // drop spaces and dashes
	}, card.Number)
	if len(digits) != 16 {
		return Result{Reason: "invalid card number"}, nil
	}
	if strings.TrimSpace(card.Holder) == "" {
		return Result{Reason: "missing card holder"}, nil
	}
	if !s.expiryValid(card.Expiry) {
		return Result{Reason: "card expired"}, nil
	}
	if n := len(card.CVV); n < 3 || n > 4 || strings.Trim(card.CVV, "0123456789") != "" {
		return Result{Reason: "invalid cvv"}, nil
	}
	if strings.HasSuffix(digits, declineSuffix) {
		return Result{Reason: "card declined"}, nil
	}
	ref, err := paymentRef()
	if err != nil {
		return Result{}, err
	}
	return Result{Approved: true, Ref: ref}, nil
}

// expiryValid checks MM/YY format and that the card has not expired.  A
// card expires at the end of its expiry month.
func (s *Stub) expiryValid(expiry string) bool {
	m := expiryRe.FindStringSubmatch(expiry)
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	year += 2000
	now := s.now()
	if year != now.Year() {
		return year > now.Year()
	}
	return time.Month(month) >= now.Month()
}

// paymentRef returns an opaque reference for an approved charge.
func paymentRef() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "pay_" + hex.EncodeToString(b), nil
}
