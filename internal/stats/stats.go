// Package stats computes per-club summary statistics from joined shot rows.
// Everything here is a pure function over rows the caller already fetched;
// nothing is cached or shared between requests.
package stats

import (
	"math"
	"sort"

	"github.com/openfairway/rangelog/internal/shape"
	"github.com/openfairway/rangelog/internal/store"
)

// ClubStat is one club's derived summary: shot count, average distance, and
// the miss distribution as percentages of the club's total shot count.
// Shots logged without a result count toward ShotCount and AvgDistance but
// land in no bucket, so the six percentages sum to at most 100.
type ClubStat struct {
	ClubID         int64   `json:"club_id"`
	Name           string  `json:"name"`
	Notes          string  `json:"notes,omitempty"`
	BagOrder       int     `json:"bag_order"`
	AvgDistance    float64 `json:"avg_distance"`
	ShotCount      int     `json:"shot_count"`
	LeftPct        float64 `json:"left_pct"`
	CenterLeftPct  float64 `json:"center_left_pct"`
	CenterPct      float64 `json:"center_pct"`
	CenterRightPct float64 `json:"center_right_pct"`
	RightPct       float64 `json:"right_pct"`
	OtherPct       float64 `json:"other_pct"`
}

// Aggregate groups shot rows by club and derives a ClubStat per club,
// ordered by (bag_order, name). Clubs with no rows in the input simply do
// not appear. Date filtering happens at the query layer; the rows passed in
// are the window to aggregate.
func Aggregate(rows []store.ShotWithClub) []ClubStat {
	type group struct {
		name     string
		notes    string
		bagOrder int
		count    int
		sum      float64
		misses   map[shape.Category]int
	}

	groups := make(map[int64]*group)
	for _, r := range rows {
		g, ok := groups[r.ClubID]
		if !ok {
			g = &group{
				name:     r.ClubName,
				notes:    r.ClubNotes,
				bagOrder: r.BagOrder,
				misses:   make(map[shape.Category]int),
			}
			groups[r.ClubID] = g
		}
		g.count++
		g.sum += r.Distance
		// Unresulted shots count toward the totals but classify to nothing.
		if shape.Normalize(r.Result) != "" {
			g.misses[shape.Classify(r.Result)]++
		}
	}

	out := make([]ClubStat, 0, len(groups))
	for id, g := range groups {
		cs := ClubStat{
			ClubID:    id,
			Name:      g.name,
			Notes:     g.notes,
			BagOrder:  g.bagOrder,
			ShotCount: g.count,
		}
		if g.count > 0 {
			cs.AvgDistance = Round1(g.sum / float64(g.count))
			cs.LeftPct = pct(g.misses[shape.Left], g.count)
			cs.CenterLeftPct = pct(g.misses[shape.CenterLeft], g.count)
			cs.CenterPct = pct(g.misses[shape.Center], g.count)
			cs.CenterRightPct = pct(g.misses[shape.CenterRight], g.count)
			cs.RightPct = pct(g.misses[shape.Right], g.count)
			cs.OtherPct = pct(g.misses[shape.Other], g.count)
		}
		out = append(out, cs)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].BagOrder != out[j].BagOrder {
			return out[i].BagOrder < out[j].BagOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func pct(n, total int) float64 {
	return Round1(100 * float64(n) / float64(total))
}

// Round1 rounds to one decimal place, half away from zero. Stats and chart
// share it so every emitted number rounds the same way.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
