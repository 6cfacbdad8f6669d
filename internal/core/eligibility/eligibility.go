// Package eligibility decides whether a member may redeem a partner's
// offers right now, given the historical redemption log. It performs no
// I/O and reads no clocks: callers pass the evaluation instant, so the
// same inputs always produce the same output.
package eligibility

import (
	"fmt"
	"time"
)

// Limit is the usage-limit policy attached to an offer.
type Limit string

const (
	// LimitUnlimited places no cap on redemptions.
	LimitUnlimited Limit = "UNLIMITED"
	// LimitMonthly allows at most one redemption per calendar month.
	LimitMonthly Limit = "MONTHLY"
	// LimitOnce allows a single redemption for the lifetime of the offer.
	LimitOnce Limit = "ONCE"
)

// Valid reports whether l is a known usage-limit policy.
func (l Limit) Valid() bool {
	switch l {
	case LimitUnlimited, LimitMonthly, LimitOnce:
		return true
	}
	return false
}

// StandardBenefitID is the reserved offer identifier for a partner's
// standard benefit. Promotion offer ids are decimal database ids, so
// the sentinel can never collide with one.
const StandardBenefitID = "STANDARD_BENEFIT"

// Reason explains why an offer is blocked. ReasonNone means available.
type Reason string

const (
	ReasonNone          Reason = "NONE"
	ReasonAlreadyUsed   Reason = "ALREADY_USED"
	ReasonUsedThisMonth Reason = "USED_THIS_MONTH"
)

// Offer is one redeemable benefit in a partner's catalog. Callers must
// pass active offers only; the engine does not re-check active flags.
type Offer struct {
	ID    string
	Title string
	Limit Limit
}

// Event is one confirmed redemption from the append-only log.
type Event struct {
	MemberID   uint
	PartnerID  uint
	OfferID    string
	OccurredAt time.Time
}

// OfferStatus is the per-offer evaluation result.
type OfferStatus struct {
	OfferID    string     `json:"offer_id"`
	Title      string     `json:"title"`
	UsageCount int        `json:"usage_count"`
	LastUsedAt *time.Time `json:"last_used_at"`
	Available  bool       `json:"available"`
	Reason     Reason     `json:"reason"`
}

// InvalidOfferError reports a data-integrity fault in the offer set:
// a duplicated identifier or an unknown usage limit. Evaluation
// produces no partial results when it is returned. Callers should
// surface a configuration error rather than retry.
type InvalidOfferError struct {
	OfferID string
	Detail  string
}

func (e *InvalidOfferError) Error() string {
	return fmt.Sprintf("invalid offer %q: %s", e.OfferID, e.Detail)
}

// usage accumulates the per-offer slice of the event log.
type usage struct {
	count int
	last  time.Time
}

// Evaluate computes the redemption status of every offer for one member
// at one partner, at the instant now. The events slice may be any
// superset of the (member, partner) history; rows for other members or
// partners are ignored. Statuses come back in input offer order.
func Evaluate(memberID, partnerID uint, offers []Offer, events []Event, now time.Time) ([]OfferStatus, error) {
	seen := make(map[string]struct{}, len(offers))
	for _, o := range offers {
		if _, dup := seen[o.ID]; dup {
			return nil, &InvalidOfferError{OfferID: o.ID, Detail: "duplicate offer id"}
		}
		if !o.Limit.Valid() {
			return nil, &InvalidOfferError{OfferID: o.ID, Detail: fmt.Sprintf("unknown usage limit %q", o.Limit)}
		}
		seen[o.ID] = struct{}{}
	}

	// One pass over the log instead of re-filtering per offer.
	byOffer := make(map[string]*usage, len(offers))
	for _, ev := range events {
		if ev.MemberID != memberID || ev.PartnerID != partnerID {
			continue
		}
		if _, ok := seen[ev.OfferID]; !ok {
			continue
		}
		u := byOffer[ev.OfferID]
		if u == nil {
			u = &usage{}
			byOffer[ev.OfferID] = u
		}
		u.count++
		// Log order breaks timestamp ties, so a later row wins on equal instants.
		if !ev.OccurredAt.Before(u.last) {
			u.last = ev.OccurredAt
		}
	}

	statuses := make([]OfferStatus, 0, len(offers))
	for _, o := range offers {
		st := OfferStatus{
			OfferID:   o.ID,
			Title:     o.Title,
			Available: true,
			Reason:    ReasonNone,
		}
		if u := byOffer[o.ID]; u != nil {
			st.UsageCount = u.count
			last := u.last
			st.LastUsedAt = &last
		}

		switch o.Limit {
		case LimitUnlimited:
			// Count is informational only.
		case LimitOnce:
			if st.UsageCount > 0 {
				st.Available = false
				st.Reason = ReasonAlreadyUsed
			}
		case LimitMonthly:
			if st.LastUsedAt != nil && sameCalendarMonth(*st.LastUsedAt, now) {
				st.Available = false
				st.Reason = ReasonUsedThisMonth
			}
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// sameCalendarMonth compares calendar month and year, not a rolling
// window: a redemption on Jan 31 is redeemable again on Feb 1.
func sameCalendarMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
