package flashscore

import (
	"strconv"
	"strings"
)

const DefaultSportID = 1

var sportIDs = map[string]int{
	"soccer":            1,
	"football":          1,
	"tennis":            2,
	"basketball":        3,
	"hockey":            4,
	"ice-hockey":        4,
	"american-football": 5,
	"baseball":          6,
	"handball":          7,
	"rugby":             8,
	"rugby-union":       8,
	"floorball":         9,
	"bandy":             10,
	"futsal":            11,
	"volleyball":        12,
	"cricket":           13,
	"darts":             14,
	"snooker":           15,
	"boxing":            16,
	"beach-volleyball":  17,
	"aussie-rules":      18,
	"rugby-league":      19,
	"badminton":         21,
	"water-polo":        22,
	"golf":              23,
	"field-hockey":      24,
	"table-tennis":      25,
	"mma":               28,
	"esports":           36,
}

// SportID maps a sport name or numeric id to the provider's sport id.
// Unknown or empty values fall back to football.
func SportID(sport string) int {
	normalized := strings.ToLower(strings.TrimSpace(sport))
	if normalized == "" {
		return DefaultSportID
	}
	if id, err := strconv.Atoi(normalized); err == nil && id > 0 {
		return id
	}
	normalized = strings.NewReplacer(" ", "-", "_", "-").Replace(normalized)
	if id, ok := sportIDs[normalized]; ok {
		return id
	}
	return DefaultSportID
}
