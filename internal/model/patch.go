package model

// GoalPatch is a partial update destined for a remote record. Nil fields
// are omitted from the remote payload so the patch never clobbers
// properties it does not mention.
type GoalPatch struct {
	Title       *string  `json:"title,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Target      *float64 `json:"target,omitempty"`
	Current     *float64 `json:"current,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	Frequency   *string  `json:"frequency,omitempty"`
	Streak      *int     `json:"streak,omitempty"`
	LastCheckin *string  `json:"lastCheckin,omitempty"`
}

// ProgressPatch builds the patch enqueued for a progress mutation: the
// already-resolved absolute values at enqueue time, never relative deltas.
func ProgressPatch(g *Goal) GoalPatch {
	current := g.Current
	streak := g.Streak
	last := g.LastCheckin
	return GoalPatch{
		Current:     &current,
		Streak:      &streak,
		LastCheckin: &last,
	}
}

func String(s string) *string  { return &s }
func Float(f float64) *float64 { return &f }
func Int(i int) *int           { return &i }
