package report

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/kolkov/callprof/prof"
)

// SpanDocument is the YAML layout written by WriteSpans. Times are
// nanoseconds since the profiler's start instant.
type SpanDocument struct {
	ExtentNS int64            `yaml:"extent_ns"`
	Threads  []ThreadDocument `yaml:"threads"`
}

// ThreadDocument holds one goroutine's spans in Exit order.
type ThreadDocument struct {
	ID    int64          `yaml:"id"`
	Spans []SpanDocEntry `yaml:"spans"`
}

// SpanDocEntry is one closed call.
type SpanDocEntry struct {
	Name    string `yaml:"name"`
	StartNS int64  `yaml:"start_ns"`
	EndNS   int64  `yaml:"end_ns"`
	Depth   int    `yaml:"depth"`
}

// Spans converts res into its YAML document form.
func Spans(res prof.Result) SpanDocument {
	doc := SpanDocument{
		ExtentNS: res.Extent.Nanoseconds(),
		Threads:  make([]ThreadDocument, 0, len(res.Threads)),
	}

	for _, th := range res.Threads {
		td := ThreadDocument{ID: th.ID, Spans: make([]SpanDocEntry, 0, len(th.Spans))}
		for _, s := range th.Spans {
			td.Spans = append(td.Spans, SpanDocEntry{
				Name:    s.Name,
				StartNS: s.Start.Nanoseconds(),
				EndNS:   s.End.Nanoseconds(),
				Depth:   s.Depth,
			})
		}
		doc.Threads = append(doc.Threads, td)
	}

	return doc
}

// WriteSpans writes the spans of res to w as YAML.
func WriteSpans(w io.Writer, res prof.Result) error {
	data, err := yaml.Marshal(Spans(res))
	if err != nil {
		return fmt.Errorf("encode spans: %w", err)
	}

	_, err = w.Write(data)
	return err
}
