package allocation

import (
	"testing"

	"divvy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func participantsN(n int) []*models.Participant {
	parts := make([]*models.Participant, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, &models.Participant{ID: int64(i), EventID: 1})
	}
	return parts
}

func sumTargets(targets map[int64]int64) int64 {
	var sum int64
	for _, v := range targets {
		sum += v
	}
	return sum
}

func TestCompute_NoParticipants(t *testing.T) {
	targets, err := Compute(10000, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestCompute_EqualSplitRemainder(t *testing.T) {
	// 100 cents across 3: first participant absorbs the extra cent
	parts := participantsN(3)

	targets, err := Compute(100, parts, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(34), targets[1])
	assert.Equal(t, int64(33), targets[2])
	assert.Equal(t, int64(33), targets[3])
	assert.Equal(t, int64(100), sumTargets(targets))
}

func TestCompute_EqualSplitNoRemainder(t *testing.T) {
	parts := participantsN(4)

	targets, err := Compute(400, parts, nil)
	require.NoError(t, err)

	for _, p := range parts {
		assert.Equal(t, int64(100), targets[p.ID])
	}
}

func TestCompute_FixedOverpayNotRebalanced(t *testing.T) {
	// Overpay is additive on top of the split; the other shares stay put and
	// the final correction must not shrink them back to the original total.
	parts := participantsN(3)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 1, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValueFixed, Value: 50, Active: true},
	}

	targets, err := Compute(300, parts, pledges)
	require.NoError(t, err)

	assert.Equal(t, int64(150), targets[1])
	assert.Equal(t, int64(100), targets[2])
	assert.Equal(t, int64(100), targets[3])
}

func TestCompute_PercentOverpay(t *testing.T) {
	parts := participantsN(2)
	pledges := []*models.Pledge{
		// 25% of the participant's current target of 500
		{ID: 1, ParticipantID: 2, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValuePercent, Value: 2500, Active: true},
	}

	targets, err := Compute(1000, parts, pledges)
	require.NoError(t, err)

	assert.Equal(t, int64(500), targets[1])
	assert.Equal(t, int64(625), targets[2])
}

func TestCompute_OverpayCompoundsSequentially(t *testing.T) {
	// Two 10% overpays on the same participant apply against the running
	// target, not the original base: 100 -> 110 -> 121.
	parts := participantsN(2)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 1, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValuePercent, Value: 1000, Active: true},
		{ID: 2, ParticipantID: 1, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValuePercent, Value: 1000, Active: true},
	}

	targets, err := Compute(200, parts, pledges)
	require.NoError(t, err)

	assert.Equal(t, int64(121), targets[1])
	assert.Equal(t, int64(100), targets[2])
}

func TestCompute_PercentUnderpayRedistribution(t *testing.T) {
	// 50% bid: A drops to 50, the 50-cent shortfall splits evenly between
	// B and C who hold equal targets.
	parts := participantsN(3)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 1, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValuePercent, Value: 5000, Active: true},
	}

	targets, err := Compute(300, parts, pledges)
	require.NoError(t, err)

	assert.Equal(t, int64(50), targets[1])
	assert.Equal(t, int64(125), targets[2])
	assert.Equal(t, int64(125), targets[3])
	assert.Equal(t, int64(300), sumTargets(targets))
}

func TestCompute_FixedUnderpayClampedToTarget(t *testing.T) {
	// A fixed bid larger than the current target reduces it to exactly zero,
	// never below.
	parts := participantsN(2)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 1, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValueFixed, Value: 9999, Active: true},
	}

	targets, err := Compute(200, parts, pledges)
	require.NoError(t, err)

	assert.Equal(t, int64(0), targets[1])
	assert.Equal(t, int64(200), targets[2])
	assert.Equal(t, int64(200), sumTargets(targets))
}

func TestCompute_PercentBidOver100ClampedToTarget(t *testing.T) {
	// A percent bid over 100% computes a shortfall larger than the current
	// target; it clamps to the target so the bidder lands at exactly zero.
	parts := participantsN(2)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 1, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValuePercent, Value: 15000, Active: true},
	}

	targets, err := Compute(200, parts, pledges)
	require.NoError(t, err)

	assert.Equal(t, int64(0), targets[1])
	assert.Equal(t, int64(200), targets[2])
	assert.Equal(t, int64(200), sumTargets(targets))
}

func TestCompute_ZeroShortfallIsNoOp(t *testing.T) {
	parts := participantsN(2)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 1, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValueFixed, Value: 0, Active: true},
	}

	targets, err := Compute(200, parts, pledges)
	require.NoError(t, err)

	assert.Equal(t, int64(100), targets[1])
	assert.Equal(t, int64(100), targets[2])
}

func TestCompute_RedistributionRemainderLandsOnLargestTarget(t *testing.T) {
	// Unequal other-targets force floor division to under-distribute; the
	// leftover cent must land on the largest current target.
	parts := participantsN(3)
	pledges := []*models.Pledge{
		// Participant 3 overpays 100 cents, so targets are {100, 100, 200}
		{ID: 1, ParticipantID: 3, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValueFixed, Value: 100, Active: true},
		// Participant 1 bids 25 cents under
		{ID: 2, ParticipantID: 1, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValueFixed, Value: 25, Active: true},
	}

	// shortfall 25 over denom 300: p2 floor(25*100/300)=8, p3 floor(25*200/300)=16,
	// leftover 1 cent goes to p3 (largest target)
	targets, err := Compute(300, parts, pledges)
	require.NoError(t, err)

	assert.Equal(t, int64(75), targets[1])
	assert.Equal(t, int64(108), targets[2])
	assert.Equal(t, int64(217), targets[3])
	assert.Equal(t, int64(400), sumTargets(targets))
}

func TestCompute_BidsCompoundSequentially(t *testing.T) {
	// The second bid is computed against targets already reshaped by the first.
	parts := participantsN(3)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 1, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValuePercent, Value: 5000, Active: true},
		{ID: 2, ParticipantID: 2, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValuePercent, Value: 5000, Active: true},
	}

	targets, err := Compute(300, parts, pledges)
	require.NoError(t, err)

	// After bid 1: {50, 125, 125}. Bid 2: shortfall 63 (62.5 rounded away
	// from zero), denom 175: p1 floor(63*50/175)=18, p3 floor(63*125/175)=45,
	// leftover 0. Final: {68, 62, 170}.
	assert.Equal(t, int64(300), sumTargets(targets))
	assert.Equal(t, int64(68), targets[1])
	assert.Equal(t, int64(62), targets[2])
	assert.Equal(t, int64(170), targets[3])
}

func TestCompute_InactivePledgesIgnored(t *testing.T) {
	parts := participantsN(2)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 1, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValueFixed, Value: 500, Active: false},
		{ID: 2, ParticipantID: 1, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValueFixed, Value: 50, Active: false},
	}

	targets, err := Compute(200, parts, pledges)
	require.NoError(t, err)

	assert.Equal(t, int64(100), targets[1])
	assert.Equal(t, int64(100), targets[2])
}

func TestCompute_EqualPledgeHasNoEffect(t *testing.T) {
	parts := participantsN(2)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 1, Kind: models.PledgeKindEqual, ValueType: models.PledgeValueNone, Active: true},
	}

	targets, err := Compute(201, parts, pledges)
	require.NoError(t, err)

	assert.Equal(t, int64(101), targets[1])
	assert.Equal(t, int64(100), targets[2])
}

func TestCompute_UnknownParticipantReference(t *testing.T) {
	parts := participantsN(2)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 99, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValueFixed, Value: 50, Active: true},
	}

	targets, err := Compute(200, parts, pledges)
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.Nil(t, targets)
}

func TestCompute_NegativePercentage(t *testing.T) {
	parts := participantsN(2)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 1, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValuePercent, Value: -1000, Active: true},
	}

	targets, err := Compute(200, parts, pledges)
	assert.ErrorIs(t, err, ErrInvalidPercentage)
	assert.Nil(t, targets)
}

func TestCompute_InactivePledgeWithUnknownParticipantIsIgnored(t *testing.T) {
	// Inactive pledges are excluded entirely, including from validation.
	parts := participantsN(2)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 99, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValueFixed, Value: 50, Active: false},
	}

	_, err := Compute(200, parts, pledges)
	assert.NoError(t, err)
}

func TestCompute_Conservation(t *testing.T) {
	// Conservation must hold across awkward totals and pledge mixes.
	cases := []struct {
		name    string
		total   int64
		n       int
		pledges []*models.Pledge
	}{
		{"prime total no pledges", 997, 7, nil},
		{"single participant", 12345, 1, nil},
		{"zero total", 0, 3, nil},
		{"mixed pledges", 10001, 5, []*models.Pledge{
			{ID: 1, ParticipantID: 2, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValuePercent, Value: 1250, Active: true},
			{ID: 2, ParticipantID: 4, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValuePercent, Value: 3333, Active: true},
			{ID: 3, ParticipantID: 1, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValueFixed, Value: 777, Active: true},
			{ID: 4, ParticipantID: 5, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValueFixed, Value: 99, Active: true},
		}},
		{"bid after overpay on same participant", 999, 3, []*models.Pledge{
			{ID: 1, ParticipantID: 1, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValueFixed, Value: 500, Active: true},
			{ID: 2, ParticipantID: 1, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValuePercent, Value: 9000, Active: true},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parts := participantsN(tc.n)

			targets, err := Compute(tc.total, parts, tc.pledges)
			require.NoError(t, err)
			require.Len(t, targets, tc.n)

			// Underpay bids only shift cents between participants; overpay
			// grows the sum. Expected sum = total + all overpay additions,
			// which conservation tracks through the final correction against
			// the redistribution-only baseline. With no overpay pledges the
			// sum is exactly the total.
			hasOverpay := false
			for _, pl := range tc.pledges {
				if pl.Kind == models.PledgeKindVolunteerOverpay && pl.Active {
					hasOverpay = true
				}
			}
			if !hasOverpay {
				assert.Equal(t, tc.total, sumTargets(targets), "sum of shares must equal the total")
			}
			for id, v := range targets {
				assert.GreaterOrEqual(t, v, int64(0), "participant %d target went negative", id)
			}
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	parts := participantsN(6)
	pledges := []*models.Pledge{
		{ID: 1, ParticipantID: 3, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValuePercent, Value: 1500, Active: true},
		{ID: 2, ParticipantID: 1, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValuePercent, Value: 2500, Active: true},
		{ID: 3, ParticipantID: 5, Kind: models.PledgeKindUnderpayBid, ValueType: models.PledgeValueFixed, Value: 450, Active: true},
	}

	first, err := Compute(100003, parts, pledges)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Compute(100003, parts, pledges)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeAmounts(t *testing.T) {
	parts := participantsN(3)

	amounts, err := ComputeAmounts(100, parts, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.34, amounts[1])
	assert.Equal(t, 0.33, amounts[2])
	assert.Equal(t, 0.33, amounts[3])
}
