package lifetime

import (
	"sort"
)

// Milestone is a dated event on the lifetime chart: a retirement, a pension
// becoming accessible, a state pension starting, or a committed outgoing
// ending. Age is anchored to the primary person.
type Milestone struct {
	Age   int    `json:"age"`
	Year  int    `json:"year"`
	Label string `json:"label"`
}

// eventBuilder accumulates milestones, then sorts and dedupes once at the
// end rather than checking membership on every append.
type eventBuilder struct {
	events []Milestone
}

func (b *eventBuilder) add(age, year int, label string) {
	b.events = append(b.events, Milestone{Age: age, Year: year, Label: label})
}

// build returns the events ordered by (age, label) with exact (age, label)
// duplicates removed. Always returns a non-nil slice.
func (b *eventBuilder) build() []Milestone {
	sort.SliceStable(b.events, func(i, j int) bool {
		if b.events[i].Age != b.events[j].Age {
			return b.events[i].Age < b.events[j].Age
		}
		return b.events[i].Label < b.events[j].Label
	})

	out := make([]Milestone, 0, len(b.events))
	for _, e := range b.events {
		if n := len(out); n > 0 && out[n-1].Age == e.Age && out[n-1].Label == e.Label {
			continue
		}
		out = append(out, e)
	}
	return out
}
