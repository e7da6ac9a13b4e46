package trace

import (
	"cmp"
	"slices"
	"time"
)

// Statistic aggregates every closed call of one full name across all
// goroutines.
type Statistic struct {
	Name  string
	Calls int64
	Total time.Duration // sum of inclusive durations
	Self  time.Duration // sum of exclusive durations
	Min   time.Duration // shortest inclusive duration
	Max   time.Duration // longest inclusive duration
}

// Mean returns the average inclusive duration per call.
func (s Statistic) Mean() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// add folds one closed call into the statistic.
func (s *Statistic) add(total, self time.Duration) {
	if s.Calls == 0 || total < s.Min {
		s.Min = total
	}
	if total > s.Max {
		s.Max = total
	}
	s.Calls++
	s.Total += total
	s.Self += self
}

// Rank sorts statistics by descending Total. Ties keep their existing
// relative order.
func Rank(stats []Statistic) {
	slices.SortStableFunc(stats, func(a, b Statistic) int {
		return cmp.Compare(b.Total, a.Total)
	})
}
