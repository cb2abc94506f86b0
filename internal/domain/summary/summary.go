// Package summary computes the derived aggregate snapshot over the full
// submission history.
package summary

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/watchkeep/internal/domain/record"
)

// Unknown is the bucket for rows whose ship-type or region is missing. Such
// rows still count toward the total; skipping them entirely was an earlier
// behavior that has been superseded.
const Unknown = "Unknown"

// Averages holds the two per-field means, rounded to 2 decimal places.
type Averages struct {
	SleepHours     float64 `json:"sleepHours"`
	RestViolations float64 `json:"restViolations"`
}

// Snapshot is the aggregate document published after every accepted upload.
// It is always recomputed from scratch; a new snapshot fully supersedes the
// previous one.
type Snapshot struct {
	TotalSubmissions int            `json:"totalSubmissions"`
	Averages         Averages       `json:"averages"`
	ByShipType       map[string]int `json:"byShipType"`
	ByRegion         map[string]int `json:"byRegion"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// Build computes a snapshot from rows in a single pass.
//
// Numeric fields are parsed tolerantly: an unparsable or missing value
// contributes 0 to the sum but the row still counts toward the total, so
// legacy or hand-edited files never break aggregation. Averages are 0 exactly
// when there are no rows.
func Build(rows []record.Row, now time.Time) Snapshot {
	s := Snapshot{
		ByShipType: make(map[string]int),
		ByRegion:   make(map[string]int),
		UpdatedAt:  now.UTC(),
	}

	var sleepSum, violationSum float64
	for _, row := range rows {
		s.TotalSubmissions++
		sleepSum += tolerantFloat(row.SleepHours)
		violationSum += tolerantFloat(row.RestViolations)
		s.ByShipType[bucket(row.ShipType)]++
		s.ByRegion[bucket(row.Region)]++
	}

	if s.TotalSubmissions > 0 {
		n := float64(s.TotalSubmissions)
		s.Averages.SleepHours = round2(sleepSum / n)
		s.Averages.RestViolations = round2(violationSum / n)
	}
	return s
}

// tolerantFloat parses v, treating anything unparsable as 0.
func tolerantFloat(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// bucket maps an empty dimension value to Unknown. Non-empty values are
// counted as-is, including values outside today's enum sets; history may
// predate validation.
func bucket(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return Unknown
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
