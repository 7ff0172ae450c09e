package model

import (
	"time"
)

const (
	CategoryHealth   = "health"
	CategoryFitness  = "fitness"
	CategoryCareer   = "career"
	CategoryFinance  = "finance"
	CategoryLearning = "learning"
	CategoryPersonal = "personal"

	// DefaultCategory is substituted for missing or unknown categories
	// coming back from the remote store.
	DefaultCategory = CategoryPersonal
)

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Categories is the fixed enumerated set of goal categories.
var Categories = []string{
	CategoryHealth,
	CategoryFitness,
	CategoryCareer,
	CategoryFinance,
	CategoryLearning,
	CategoryPersonal,
}

// Frequencies is the fixed enumerated set of check-in frequencies.
var Frequencies = []string{
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyMonthly,
	FrequencyYearly,
}

// Goal is a tracked resolution with progress toward a numeric target.
//
// Remote-origin goals carry the remote record id in both ID and RemoteID.
// Locally-created goals get a generated id and a NULL RemoteID until the
// first successful remote creation.
type Goal struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Category    string    `db:"category" json:"category"`
	Target      float64   `db:"target" json:"target"`
	Current     float64   `db:"current" json:"current"`
	Unit        string    `db:"unit" json:"unit"`
	Frequency   string    `db:"frequency" json:"frequency"`
	Streak      int       `db:"streak" json:"streak"`
	LastCheckin string    `db:"last_checkin" json:"lastCheckin"` // ISO calendar day, empty if never
	RemoteID    *string   `db:"remote_id" json:"remoteId"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ValidCategory reports whether c is one of the enumerated categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidFrequency reports whether f is one of the enumerated frequencies.
func ValidFrequency(f string) bool {
	for _, v := range Frequencies {
		if v == f {
			return true
		}
	}
	return false
}

// Apply adds delta to the goal's progress. The stored value is clamped to
// be >= 0 and is intentionally not capped at Target; only the display
// percentage caps at 100.
func (g *Goal) Apply(delta float64) {
	g.Current += delta
	if g.Current < 0 {
		g.Current = 0
	}
}

// Percent returns the display progress percentage, capped at 100.
func (g *Goal) Percent() int {
	if g.Target <= 0 {
		return 0
	}
	p := int(g.Current / g.Target * 100)
	if p > 100 {
		return 100
	}
	return p
}

// CheckIn records progress for the given calendar day. The streak is
// bumped only the first time a day sees positive progress; repeat
// check-ins on the same day adjust progress without touching the streak.
func (g *Goal) CheckIn(delta float64, day string) {
	g.Apply(delta)
	if delta > 0 && g.LastCheckin != day {
		g.Streak++
		g.LastCheckin = day
	}
}

// Day formats t as the ISO calendar day used by LastCheckin.
func Day(t time.Time) string {
	return t.Format("2006-01-02")
}
