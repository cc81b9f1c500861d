package allocation

import (
	"errors"
	"fmt"
	"sort"

	"divvy/models"
)

var (
	// ErrInvalidReference indicates a pledge names a participant that is not
	// part of the event. Data-integrity failure; the computation produces no result.
	ErrInvalidReference = errors.New("pledge references unknown participant")

	// ErrInvalidPercentage indicates a percent pledge carries a negative value.
	ErrInvalidPercentage = errors.New("percentage value out of domain")
)

// Compute splits totalCents among participants, applying active pledges.
//
// Participants must be in canonical order (insertion order, ascending ID); that
// order decides which participants absorb the equal-split remainder. Pledges are
// applied in the order given, each against the current running target of its
// participant, so multiple pledges on one participant compound sequentially.
//
// The returned map holds exactly one entry per participant. Its values sum to
// totalCents plus any volunteer overpay additions: underpay bids only move cents
// between participants, while overpay grows the collected total. Zero
// participants yields an empty map, not an error.
func Compute(totalCents int64, participants []*models.Participant, pledges []*models.Pledge) (map[int64]int64, error) {
	targets := make(map[int64]int64, len(participants))
	if len(participants) == 0 {
		return targets, nil
	}

	order := make([]int64, 0, len(participants))
	for _, p := range participants {
		order = append(order, p.ID)
		targets[p.ID] = 0
	}

	// Validate before mutating anything: a computation either fully succeeds
	// or produces no partial mapping.
	for _, pl := range pledges {
		if !pl.Active {
			continue
		}
		if _, ok := targets[pl.ParticipantID]; !ok {
			return nil, fmt.Errorf("%w: pledge %d names participant %d", ErrInvalidReference, pl.ID, pl.ParticipantID)
		}
		if pl.ValueType == models.PledgeValuePercent && pl.Value < 0 {
			return nil, fmt.Errorf("%w: pledge %d has value %d", ErrInvalidPercentage, pl.ID, pl.Value)
		}
	}

	// Phase 1: equal base split. The remainder goes one cent each to the
	// first participants in canonical order.
	n := int64(len(order))
	base := totalCents / n
	for _, id := range order {
		targets[id] = base
	}
	remainder := totalCents - base*n
	for i := int64(0); i < remainder; i++ {
		targets[order[i]]++
	}

	// Phase 2: volunteer overpay, additive on top of the split. The total
	// owed grows; nobody else's share shrinks to compensate, and the final
	// correction must not claw the addition back, so the expected sum grows
	// along with the target.
	expected := totalCents
	for _, pl := range pledges {
		if !pl.Active || pl.Kind != models.PledgeKindVolunteerOverpay {
			continue
		}
		var add int64
		switch pl.ValueType {
		case models.PledgeValuePercent:
			add = percentOf(targets[pl.ParticipantID], pl.Value)
		case models.PledgeValueFixed:
			add = pl.Value
		}
		targets[pl.ParticipantID] += add
		expected += add
	}

	// Phase 3: underpay bids. Each bid's shortfall moves from the bidder to
	// every other participant, proportional to their current targets.
	for _, pl := range pledges {
		if !pl.Active || pl.Kind != models.PledgeKindUnderpayBid {
			continue
		}
		current := targets[pl.ParticipantID]

		var shortfall int64
		switch pl.ValueType {
		case models.PledgeValuePercent:
			shortfall = percentOf(current, pl.Value)
		case models.PledgeValueFixed:
			shortfall = pl.Value
		}
		// A bid can never drive the bidder's own target negative.
		if shortfall > current {
			shortfall = current
		}
		if shortfall <= 0 {
			continue
		}

		targets[pl.ParticipantID] -= shortfall

		others := make([]int64, 0, len(order)-1)
		var denom int64
		for _, id := range order {
			if id != pl.ParticipantID {
				others = append(others, id)
				denom += targets[id]
			}
		}
		if denom == 0 {
			// Unreachable while targets stay non-negative; keeps the
			// division defined.
			denom = 1
		}

		distributed := int64(0)
		increments := make(map[int64]int64, len(others))
		for _, id := range others {
			inc := shortfall * targets[id] / denom
			increments[id] = inc
			distributed += inc
		}

		// Floor division under-distributes; the leftover cents go one each to
		// the largest current targets, ties broken by ascending participant ID.
		leftover := shortfall - distributed
		if leftover > 0 {
			ranked := make([]int64, len(others))
			copy(ranked, others)
			sort.SliceStable(ranked, func(i, j int) bool {
				if targets[ranked[i]] != targets[ranked[j]] {
					return targets[ranked[i]] > targets[ranked[j]]
				}
				return ranked[i] < ranked[j]
			})
			if leftover > int64(len(ranked)) {
				leftover = int64(len(ranked))
			}
			for i := int64(0); i < leftover; i++ {
				increments[ranked[i]]++
			}
		}

		for id, inc := range increments {
			targets[id] += inc
		}
	}

	// Phase 4: final correction. Rounding in phase 3 can leave the sum a few
	// cents off the expected total; the whole gap lands on the single largest
	// target (first in canonical order on ties).
	var sum int64
	for _, id := range order {
		sum += targets[id]
	}
	if gap := expected - sum; gap != 0 {
		largest := order[0]
		for _, id := range order[1:] {
			if targets[id] > targets[largest] {
				largest = id
			}
		}
		targets[largest] += gap
	}

	return targets, nil
}

// ComputeAmounts runs Compute and converts the result to display amounts.
func ComputeAmounts(totalCents int64, participants []*models.Participant, pledges []*models.Pledge) (map[int64]float64, error) {
	targets, err := Compute(totalCents, participants, pledges)
	if err != nil {
		return nil, err
	}
	amounts := make(map[int64]float64, len(targets))
	for id, c := range targets {
		amounts[id] = CentsToAmount(c)
	}
	return amounts, nil
}

// percentOf applies a basis-point percentage to an amount, rounding half away
// from zero. 10000 basis points = 100%.
func percentOf(amount, basisPoints int64) int64 {
	n := amount * basisPoints
	if n < 0 {
		return -((-n + 5000) / 10000)
	}
	return (n + 5000) / 10000
}
