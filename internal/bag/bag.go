// Package bag assigns clubs their canonical position in the bag.
// Every ordering decision in the service (club lists, stats rows, chart
// legend) sorts on the integer this package produces.
package bag

import "strings"

// UnknownOrder sorts clubs the classifier cannot place to the bottom.
const UnknownOrder = 999

// clubOrder is the fixed total ordering of common club types. Gaps between
// values are reserved for future insertions without renumbering.
var clubOrder = map[string]int{
	"driver":      10,
	"mini-driver": 15,
	"3 wood":      20,
	"4 wood":      30,
	"5 wood":      40,
	"7 wood":      50,
	"9 wood":      60,
	"11 wood":     70,

	"2 hybrid": 80,
	"3 hybrid": 90,
	"4 hybrid": 100,

	"2 iron": 110,
	"3 iron": 120,
	"4 iron": 130,
	"5 iron": 140,
	"6 iron": 150,
	"7 iron": 160,
	"8 iron": 170,
	"9 iron": 180,

	"pw": 200,
	"gw": 210,
	"aw": 220,
	"sw": 230,
	"lw": 240,

	"putter": 300,
}

// Order derives a club's sort key from its name and, when the name is not
// recognized, its loft. Priority:
//
//  1. exact name match (case- and whitespace-insensitive)
//  2. wedge loft ranges: [44,48)→205, [48,52)→215, [52,56)→225,
//     [56,60)→235, [60,∞)→245
//  3. UnknownOrder
//
// Pass loft as nil when the club has none (or the supplied value failed to
// parse as a number upstream).
func Order(name string, loft *float64) int {
	key := strings.ToLower(strings.TrimSpace(name))
	if v, ok := clubOrder[key]; ok {
		return v
	}

	if loft != nil {
		switch l := *loft; {
		case l >= 44 && l < 48:
			return 205
		case l >= 48 && l < 52:
			return 215
		case l >= 52 && l < 56:
			return 225
		case l >= 56 && l < 60:
			return 235
		case l >= 60:
			return 245
		}
	}

	return UnknownOrder
}
