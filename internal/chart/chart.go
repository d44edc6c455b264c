// Package chart maps raw shot rows onto dispersion-chart primitives:
// distance gridlines, per-shot dots, and a per-club legend. Coordinates
// live in a 0-100 unit square with a 5-unit margin top and bottom.
package chart

import (
	"math"

	"github.com/openfairway/rangelog/internal/shape"
	"github.com/openfairway/rangelog/internal/stats"
	"github.com/openfairway/rangelog/internal/store"
)

// palette is the fixed club color cycle. Clubs take colors in bag order,
// wrapping after eight, so assignment is stable for a given club set.
var palette = [...]string{
	"#ef4444", // red
	"#3b82f6", // blue
	"#22c55e", // green
	"#f97316", // orange
	"#a855f7", // purple
	"#14b8a6", // teal
	"#eab308", // yellow
	"#6b7280", // gray
}

const (
	fallbackColor = "#6b7280"
	fallbackLabel = "Unknown club"

	// dotOffset pulls each dot down by its visual radius so it stays
	// inside the gridline for its exact distance.
	dotOffset = 3.9
)

// Tick is one horizontal distance gridline.
type Tick struct {
	Value int     `json:"value"`
	Y     float64 `json:"y"`
}

// Dot is one shot placed on the chart.
type Dot struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    string  `json:"color"`
	Label    string  `json:"label"`
	Distance float64 `json:"distance"`
	Result   string  `json:"result_raw"`
}

// LegendEntry pairs a club label with its assigned color.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Chart is the full dispersion chart payload.
type Chart struct {
	Max    int           `json:"chart_max"`
	Ticks  []Tick        `json:"range_ticks"`
	Shots  []Dot         `json:"spray_shots"`
	Legend []LegendEntry `json:"spray_legend"`
}

// Build derives the chart from shot rows and the aggregated club stats.
// clubStats supplies both the legend order and the color assignment, so the
// chart stays consistent with the stats table rendered next to it. An empty
// row set still yields a usable 50-unit axis with no dots or legend.
func Build(rows []store.ShotWithClub, clubStats []stats.ClubStat) Chart {
	max := chartMax(rows)

	labels := make(map[int64]string, len(clubStats))
	colors := make(map[int64]string, len(clubStats))
	legend := make([]LegendEntry, 0, len(clubStats))
	for i, cs := range clubStats {
		label := cs.Name
		if cs.Notes != "" {
			label = cs.Name + " – " + cs.Notes
		}
		color := palette[i%len(palette)]
		labels[cs.ClubID] = label
		colors[cs.ClubID] = color
		legend = append(legend, LegendEntry{Label: label, Color: color})
	}

	ticks := make([]Tick, 0, max/50)
	for v := 50; v <= max; v += 50 {
		ticks = append(ticks, Tick{
			Value: v,
			Y:     stats.Round1(5 + float64(v)/float64(max)*90),
		})
	}

	dots := make([]Dot, 0, len(rows))
	for _, r := range rows {
		norm := r.Distance / float64(max)
		y := clamp(5+norm*90-dotOffset, 5, 95)
		lane := shape.Lane(shape.Classify(r.Result))
		x := clamp(float64(50+lane*10), 5, 95)

		color, ok := colors[r.ClubID]
		if !ok {
			color = fallbackColor
		}
		label, ok := labels[r.ClubID]
		if !ok {
			label = fallbackLabel
		}

		dots = append(dots, Dot{
			X:        stats.Round1(x),
			Y:        stats.Round1(y),
			Color:    color,
			Label:    label,
			Distance: stats.Round1(r.Distance),
			Result:   shape.Normalize(r.Result),
		})
	}

	return Chart{Max: max, Ticks: ticks, Shots: dots, Legend: legend}
}

// chartMax returns the distance axis ceiling: the max shot distance rounded
// up to the next multiple of 50, never below 50.
func chartMax(rows []store.ShotWithClub) int {
	var rawMax float64
	for _, r := range rows {
		if r.Distance > rawMax {
			rawMax = r.Distance
		}
	}
	if rawMax <= 0 {
		return 50
	}
	max := int(math.Ceil(rawMax/50)) * 50
	if max < 50 {
		max = 50
	}
	return max
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
