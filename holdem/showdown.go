package holdem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"tablecore/betting"
	"tablecore/card"
	"tablecore/eval"
)

// ShowdownResult is the outcome of a completed hand: winners in seat order,
// chips awarded per player, each contender's hand score, and a
// human-readable one-line summary for logs and lobby chat.
type ShowdownResult struct {
	Winners []string
	Awards  map[string]int64
	Scores  map[string]eval.HandScore
	Summary string
}

// settleShowdown awards every pot layer. When foldedOut is true, the sole
// remaining contender takes every pot outright and no hand is evaluated —
// mirroring how a live table never turns cards over when everyone else has
// folded.
func settleShowdown(state *State, foldedOut bool) (*ShowdownResult, error) {
	contributions := make([]betting.Contribution, 0, len(state.Seats))
	for _, seat := range state.Seats {
		if !seat.InHand {
			continue
		}
		contributions = append(contributions, betting.Contribution{
			PlayerID: seat.PlayerID,
			Amount:   state.HandContributions[seat.PlayerID],
			Folded:   seat.Folded,
		})
	}
	pots := betting.BuildSidePots(contributions)

	awards := map[string]int64{}
	scores := map[string]eval.HandScore{}
	winnerSet := map[string]bool{}

	if foldedOut {
		survivor := ""
		for _, seat := range state.Seats {
			if seat.InHand && !seat.Folded {
				survivor = seat.PlayerID
				break
			}
		}
		for _, pot := range pots {
			awards[survivor] += pot.Amount
		}
		if survivor != "" {
			winnerSet[survivor] = true
		}
	} else {
		for _, seat := range state.Seats {
			if !seat.InHand || seat.Folded {
				continue
			}
			hand := append(append([]card.Card{}, seat.HoleCards...), state.Board...)
			score, err := eval.Evaluate(hand)
			if err != nil {
				return nil, err
			}
			scores[seat.PlayerID] = score
		}
		for _, pot := range pots {
			winners := bestContenders(pot.Eligible, scores)
			if len(winners) == 0 {
				continue
			}
			sort.Slice(winners, func(i, j int) bool {
				return state.seatIndexOf(winners[i]) < state.seatIndexOf(winners[j])
			})
			k := int64(len(winners))
			share := pot.Amount / k
			remainder := pot.Amount % k
			for i, id := range winners {
				award := share
				if int64(i) < remainder {
					award++
				}
				awards[id] += award
				winnerSet[id] = true
			}
		}
	}

	winners := make([]string, 0, len(winnerSet))
	for id := range winnerSet {
		winners = append(winners, id)
	}
	sort.Slice(winners, func(i, j int) bool {
		return state.seatIndexOf(winners[i]) < state.seatIndexOf(winners[j])
	})

	for id, amt := range awards {
		for _, seat := range state.Seats {
			if seat.PlayerID == id {
				seat.Stack += amt
				break
			}
		}
	}

	return &ShowdownResult{
		Winners: winners,
		Awards:  awards,
		Scores:  scores,
		Summary: summarizeShowdown(winners, awards, scores),
	}, nil
}

// bestContenders returns every eligible seat tied at the highest score —
// the layer's winner set, which is >1 only on an exact tie.
func bestContenders(eligible []string, scores map[string]eval.HandScore) []string {
	contenders := make([]string, 0, len(eligible))
	for _, id := range eligible {
		if _, ok := scores[id]; ok {
			contenders = append(contenders, id)
		}
	}
	if len(contenders) == 0 {
		return nil
	}
	best := contenders[0]
	for _, id := range contenders[1:] {
		if eval.Compare(scores[id], scores[best]) > 0 {
			best = id
		}
	}
	winners := make([]string, 0, len(contenders))
	for _, id := range contenders {
		if eval.Compare(scores[id], scores[best]) == 0 {
			winners = append(winners, id)
		}
	}
	return winners
}

func summarizeShowdown(winners []string, awards map[string]int64, scores map[string]eval.HandScore) string {
	var b strings.Builder
	for i, id := range winners {
		if i > 0 {
			b.WriteString("; ")
		}
		amt := awards[id]
		if score, ok := scores[id]; ok {
			fmt.Fprintf(&b, "%s wins %s chips with %s", id, humanize.Comma(amt), score.Category)
		} else {
			fmt.Fprintf(&b, "%s wins %s chips (others folded)", id, humanize.Comma(amt))
		}
	}
	return b.String()
}
