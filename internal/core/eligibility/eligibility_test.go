package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	memberID  uint = 7
	partnerID uint = 3
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func event(offerID string, at time.Time) Event {
	return Event{MemberID: memberID, PartnerID: partnerID, OfferID: offerID, OccurredAt: at}
}

func TestEvaluate_UnlimitedAlwaysAvailable(t *testing.T) {
	offers := []Offer{{ID: StandardBenefitID, Title: "10% off", Limit: LimitUnlimited}}
	now := ts("2024-01-25T12:00:00Z")

	for _, prior := range []int{0, 1, 5} {
		var events []Event
		for i := 0; i < prior; i++ {
			events = append(events, event(StandardBenefitID, now.Add(-time.Duration(i+1)*time.Hour)))
		}

		statuses, err := Evaluate(memberID, partnerID, offers, events, now)
		require.NoError(t, err)
		require.Len(t, statuses, 1)
		assert.True(t, statuses[0].Available, "prior=%d", prior)
		assert.Equal(t, ReasonNone, statuses[0].Reason)
		assert.Equal(t, prior, statuses[0].UsageCount)
	}
}

func TestEvaluate_OnceBlocksPermanently(t *testing.T) {
	offers := []Offer{{ID: "41", Title: "Free dessert", Limit: LimitOnce}}

	statuses, err := Evaluate(memberID, partnerID, offers, nil, ts("2024-01-25T12:00:00Z"))
	require.NoError(t, err)
	assert.True(t, statuses[0].Available)
	assert.Equal(t, 0, statuses[0].UsageCount)
	assert.Nil(t, statuses[0].LastUsedAt)

	events := []Event{event("41", ts("2024-01-05T10:00:00Z"))}
	statuses, err = Evaluate(memberID, partnerID, offers, events, ts("2024-01-25T12:00:00Z"))
	require.NoError(t, err)
	assert.False(t, statuses[0].Available)
	assert.Equal(t, ReasonAlreadyUsed, statuses[0].Reason)

	// Still blocked years later, and more events never flip it back.
	events = append(events, event("41", ts("2024-06-01T10:00:00Z")))
	statuses, err = Evaluate(memberID, partnerID, offers, events, ts("2027-03-01T00:00:00Z"))
	require.NoError(t, err)
	assert.False(t, statuses[0].Available)
	assert.Equal(t, ReasonAlreadyUsed, statuses[0].Reason)
	assert.Equal(t, 2, statuses[0].UsageCount)
}

func TestEvaluate_MonthlyCalendarWindow(t *testing.T) {
	offers := []Offer{{ID: "12", Title: "2x1 Tuesday", Limit: LimitMonthly}}
	used := ts("2024-01-20T15:00:00Z")
	events := []Event{event("12", used)}

	// Same calendar month: blocked.
	statuses, err := Evaluate(memberID, partnerID, offers, events, ts("2024-01-25T12:00:00Z"))
	require.NoError(t, err)
	assert.False(t, statuses[0].Available)
	assert.Equal(t, ReasonUsedThisMonth, statuses[0].Reason)
	require.NotNil(t, statuses[0].LastUsedAt)
	assert.True(t, statuses[0].LastUsedAt.Equal(used))

	// New calendar month, even one day into it: available.
	statuses, err = Evaluate(memberID, partnerID, offers, events, ts("2024-02-01T09:00:00Z"))
	require.NoError(t, err)
	assert.True(t, statuses[0].Available)
	assert.Equal(t, ReasonNone, statuses[0].Reason)

	// Same month number in a different year is not "this month".
	statuses, err = Evaluate(memberID, partnerID, offers, events, ts("2025-01-10T09:00:00Z"))
	require.NoError(t, err)
	assert.True(t, statuses[0].Available)
}

func TestEvaluate_MonthlyEndOfMonthBoundary(t *testing.T) {
	offers := []Offer{{ID: "12", Limit: LimitMonthly}}
	lastSecond := ts("2024-01-31T23:59:59Z")
	events := []Event{event("12", lastSecond)}

	statuses, err := Evaluate(memberID, partnerID, offers, events, lastSecond)
	require.NoError(t, err)
	assert.False(t, statuses[0].Available)

	statuses, err = Evaluate(memberID, partnerID, offers, events, ts("2024-02-01T00:00:00Z"))
	require.NoError(t, err)
	assert.True(t, statuses[0].Available)
}

func TestEvaluate_ScenarioThreeOffers(t *testing.T) {
	offers := []Offer{
		{ID: StandardBenefitID, Title: "Standard benefit", Limit: LimitUnlimited},
		{ID: "promo1", Title: "promo1", Limit: LimitOnce},
		{ID: "promo2", Title: "promo2", Limit: LimitMonthly},
	}
	events := []Event{
		event("promo1", ts("2024-01-05T11:00:00Z")),
		event("promo2", ts("2024-01-20T16:30:00Z")),
	}

	statuses, err := Evaluate(memberID, partnerID, offers, events, ts("2024-01-25T10:00:00Z"))
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	assert.True(t, statuses[0].Available)
	assert.Equal(t, 0, statuses[0].UsageCount)

	assert.False(t, statuses[1].Available)
	assert.Equal(t, ReasonAlreadyUsed, statuses[1].Reason)
	assert.Equal(t, 1, statuses[1].UsageCount)

	assert.False(t, statuses[2].Available)
	assert.Equal(t, ReasonUsedThisMonth, statuses[2].Reason)
	assert.Equal(t, 1, statuses[2].UsageCount)
	assert.True(t, statuses[2].LastUsedAt.Equal(ts("2024-01-20T16:30:00Z")))

	// Same history one calendar month later: promo2 reopens, promo1 stays shut.
	statuses, err = Evaluate(memberID, partnerID, offers, events, ts("2024-02-01T10:00:00Z"))
	require.NoError(t, err)
	assert.True(t, statuses[2].Available)
	assert.False(t, statuses[1].Available)
}

func TestEvaluate_IgnoresOtherMembersAndPartners(t *testing.T) {
	offers := []Offer{{ID: "9", Limit: LimitOnce}}
	events := []Event{
		{MemberID: memberID + 1, PartnerID: partnerID, OfferID: "9", OccurredAt: ts("2024-01-05T10:00:00Z")},
		{MemberID: memberID, PartnerID: partnerID + 1, OfferID: "9", OccurredAt: ts("2024-01-05T10:00:00Z")},
		{MemberID: memberID, PartnerID: partnerID, OfferID: "other", OccurredAt: ts("2024-01-05T10:00:00Z")},
	}

	statuses, err := Evaluate(memberID, partnerID, offers, events, ts("2024-01-25T10:00:00Z"))
	require.NoError(t, err)
	assert.True(t, statuses[0].Available)
	assert.Equal(t, 0, statuses[0].UsageCount)
}

func TestEvaluate_Deterministic(t *testing.T) {
	offers := []Offer{
		{ID: StandardBenefitID, Limit: LimitUnlimited},
		{ID: "5", Limit: LimitMonthly},
	}
	events := []Event{event("5", ts("2024-03-02T08:00:00Z"))}
	now := ts("2024-03-10T08:00:00Z")

	first, err := Evaluate(memberID, partnerID, offers, events, now)
	require.NoError(t, err)
	second, err := Evaluate(memberID, partnerID, offers, events, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluate_AppendOnlyMovesTowardBlocked(t *testing.T) {
	offers := []Offer{{ID: "5", Limit: LimitMonthly}}
	now := ts("2024-03-10T08:00:00Z")

	var events []Event
	prevCount := 0
	prevAvailable := true
	for i := 0; i < 4; i++ {
		statuses, err := Evaluate(memberID, partnerID, offers, events, now)
		require.NoError(t, err)
		st := statuses[0]
		assert.GreaterOrEqual(t, st.UsageCount, prevCount)
		if !prevAvailable {
			assert.False(t, st.Available, "appending events must never reopen an offer at the same instant")
		}
		prevCount = st.UsageCount
		prevAvailable = st.Available
		events = append(events, event("5", now.Add(-time.Duration(4-i)*time.Hour)))
	}
}

func TestEvaluate_DuplicateOfferID(t *testing.T) {
	offers := []Offer{
		{ID: "promo1", Limit: LimitOnce},
		{ID: "promo1", Limit: LimitMonthly},
	}

	statuses, err := Evaluate(memberID, partnerID, offers, nil, ts("2024-01-25T10:00:00Z"))
	assert.Nil(t, statuses)

	var invalid *InvalidOfferError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "promo1", invalid.OfferID)
}

func TestEvaluate_UnknownLimit(t *testing.T) {
	offers := []Offer{{ID: "promo1", Limit: Limit("WEEKLY")}}

	statuses, err := Evaluate(memberID, partnerID, offers, nil, ts("2024-01-25T10:00:00Z"))
	assert.Nil(t, statuses)

	var invalid *InvalidOfferError
	require.ErrorAs(t, err, &invalid)
}

func TestEvaluate_NoOffers(t *testing.T) {
	statuses, err := Evaluate(memberID, partnerID, nil, nil, ts("2024-01-25T10:00:00Z"))
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestEvaluate_TimestampTieKeepsLogOrder(t *testing.T) {
	offers := []Offer{{ID: "5", Limit: LimitMonthly}}
	at := ts("2024-01-20T10:00:00Z")
	events := []Event{event("5", at), event("5", at)}

	statuses, err := Evaluate(memberID, partnerID, offers, events, ts("2024-01-21T10:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, 2, statuses[0].UsageCount)
	assert.True(t, statuses[0].LastUsedAt.Equal(at))
}
