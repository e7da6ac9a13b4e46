package trace

import (
	"testing"
	"time"
)

func TestRank_Descending(t *testing.T) {
	stats := []Statistic{
		{Name: "a", Total: 30},
		{Name: "b", Total: 10},
		{Name: "c", Total: 50},
	}

	Rank(stats)

	want := []time.Duration{50, 30, 10}
	for i, s := range stats {
		if s.Total != want[i] {
			t.Errorf("rank %d total = %v, want %v", i, s.Total, want[i])
		}
	}
}

func TestRank_StableTies(t *testing.T) {
	stats := []Statistic{
		{Name: "first", Total: 5},
		{Name: "big", Total: 9},
		{Name: "second", Total: 5},
	}

	Rank(stats)

	if stats[1].Name != "first" || stats[2].Name != "second" {
		t.Errorf("ties reordered: %v, %v", stats[1].Name, stats[2].Name)
	}
}

func TestStatistic_Add(t *testing.T) {
	var s Statistic
	s.add(40, 30)
	s.add(10, 10)
	s.add(25, 5)

	if s.Calls != 3 || s.Total != 75 || s.Self != 45 {
		t.Errorf("after adds = %+v", s)
	}
	if s.Min != 10 || s.Max != 40 {
		t.Errorf("min=%v max=%v, want 10/40", s.Min, s.Max)
	}
	if s.Mean() != 25 {
		t.Errorf("Mean() = %v, want 25", s.Mean())
	}
}

func TestStatistic_MeanZero(t *testing.T) {
	if (Statistic{}).Mean() != 0 {
		t.Error("Mean of empty statistic is not 0")
	}
}
