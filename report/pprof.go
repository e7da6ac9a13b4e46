package report

import (
	"io"

	"github.com/google/pprof/profile"

	"github.com/kolkov/callprof/prof"
)

// Sample value indices of profiles built by Profile.
const (
	CallsIndex = iota
	TotalIndex
	SelfIndex
)

// Profile converts the statistics of res into a pprof profile.
//
// Each statistic becomes one function, one location and one single-frame
// sample valued {calls, total ns, self ns}. The default sample type is
// self, so `go tool pprof -top` ranks by exclusive time.
func Profile(res prof.Result) *profile.Profile {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{
			CallsIndex: {Type: "calls", Unit: "count"},
			TotalIndex: {Type: "total", Unit: "nanoseconds"},
			SelfIndex:  {Type: "self", Unit: "nanoseconds"},
		},
		DefaultSampleType: "self",
		PeriodType:        &profile.ValueType{Type: "self", Unit: "nanoseconds"},
		Period:            1,
		DurationNanos:     res.Extent.Nanoseconds(),
	}

	for i, s := range res.Stats {
		id := uint64(i + 1)

		fn := &profile.Function{
			ID:         id,
			Name:       s.Name,
			SystemName: s.Name,
		}
		loc := &profile.Location{
			ID:   id,
			Line: []profile.Line{{Function: fn}},
		}

		p.Function = append(p.Function, fn)
		p.Location = append(p.Location, loc)
		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{s.Calls, s.Total.Nanoseconds(), s.Self.Nanoseconds()},
		})
	}

	return p
}

// WriteProfile writes the gzipped pprof encoding of res to w.
func WriteProfile(w io.Writer, res prof.Result) error {
	return Profile(res).Write(w)
}
