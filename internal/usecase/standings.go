package usecase

import (
	"sort"
	"strconv"

	"github.com/riskibarqy/flashscore-gateway/internal/platform/payload"
)

const (
	standingsGroupNameKey = "group_name"
	standingsRowsKey      = "rows"
)

var keysParticipantID = []string{"participant_id", "team_id", "id"}

// RegroupStandings flattens upstream standings groups and rebuilds them as
// "Zone A", "Zone B", ... from assignments (participant id to zone index).
// Unassigned participants land in the first zone. Rows keep upstream order
// among equal positions.
func RegroupStandings(doc any, assignments map[string]int) []any {
	rows := flattenStandingRows(doc)

	zones := make(map[int][]map[string]any)
	for _, row := range rows {
		zone := assignments[standingParticipantID(row)]
		if zone < 0 {
			zone = 0
		}
		zones[zone] = append(zones[zone], row)
	}

	indexes := make([]int, 0, len(zones))
	for index := range zones {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	out := make([]any, 0, len(indexes))
	for _, index := range indexes {
		members := zones[index]
		sort.SliceStable(members, func(i, j int) bool {
			return standingPosition(members[i]) < standingPosition(members[j])
		})

		groupRows := make([]any, 0, len(members))
		for _, member := range members {
			groupRows = append(groupRows, member)
		}
		out = append(out, map[string]any{
			standingsGroupNameKey: ZoneLabel(index),
			standingsRowsKey:      groupRows,
		})
	}
	return out
}

// ZoneLabel names a zero-based zone index.
func ZoneLabel(index int) string {
	if index >= 0 && index < 26 {
		return "Zone " + string(rune('A'+index))
	}
	return "Zone " + strconv.Itoa(index+1)
}

func flattenStandingRows(doc any) []map[string]any {
	root := payload.Unwrap(doc)
	items := payload.Objects(root)
	if obj, ok := root.(map[string]any); ok {
		items = []map[string]any{obj}
	}

	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if nested, ok := payload.Lookup(item, standingsRowsKey); ok {
			rows = append(rows, payload.Objects(nested)...)
			continue
		}
		rows = append(rows, item)
	}
	return rows
}

func standingParticipantID(row map[string]any) string {
	if team, ok := payload.Lookup(row, "team"); ok {
		if obj, ok := team.(map[string]any); ok {
			if id := payload.Field(obj, "id"); id != "" {
				return id
			}
		}
	}
	return payload.Field(row, keysParticipantID...)
}

func standingPosition(row map[string]any) float64 {
	value, _ := payload.Lookup(row, "position")
	return payload.Number(value)
}
