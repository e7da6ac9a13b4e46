package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/kolkov/callprof/internal/config"
	"github.com/kolkov/callprof/internal/log"
	"github.com/kolkov/callprof/prof"
	"github.com/kolkov/callprof/report"
)

type runCmd struct {
	Workers    int    `default:"4"    help:"Number of producer goroutines."          short:"w"`
	Iterations int    `default:"1000" help:"Workload repetitions per goroutine."     short:"n"`
	Depth      int    `default:"3"    help:"Nesting depth of the workload."          short:"d"`
	Spin       int    `default:"200"  help:"Busy-loop rounds per workload level."`
	Top        int    `default:"20"   help:"Table rows to print; 0 prints all."`
	Pprof      string `help:"Write a gzipped pprof profile to FILE."  placeholder:"FILE" type:"path"`
	Spans      string `help:"Write spans as YAML to FILE."            placeholder:"FILE" type:"path"`
}

// Validate implements kong.Validatable.
func (r *runCmd) Validate() error {
	switch {
	case r.Workers < 1:
		return fmt.Errorf("--workers must be positive, got %d", r.Workers)
	case r.Iterations < 0:
		return fmt.Errorf("--iterations must not be negative, got %d", r.Iterations)
	case r.Depth < 1:
		return fmt.Errorf("--depth must be positive, got %d", r.Depth)
	case r.Spin < 0:
		return fmt.Errorf("--spin must not be negative, got %d", r.Spin)
	}
	return nil
}

// Run records the workload, reconstructs it and writes the reports.
func (r *runCmd) Run(ctx context.Context, ktx *kong.Context, cfg *config.Config) error {
	p, err := prof.New(prof.WithConfig(*cfg))
	if err != nil {
		return err
	}
	p.Init(cfg.Enabled)
	defer p.Teardown()

	started := time.Now()

	if err := r.record(ctx, p); err != nil {
		return err
	}

	st := p.Stats()
	log.InfoContext(ctx, "workload finished",
		slog.Int("workers", r.Workers),
		slog.Int("logs", st.Logs),
		slog.Int("pages", st.Pages),
		slog.Int("events", st.Events),
		slog.Duration("elapsed", time.Since(started)),
	)

	res := p.Reconstruct()

	if err := report.WriteTable(ktx.Stdout, res, report.TableOptions{Limit: r.Top}); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	if r.Pprof != "" {
		err := writeFile(r.Pprof, func(w io.Writer) error {
			return report.WriteProfile(w, res)
		})
		if err != nil {
			return fmt.Errorf("write pprof: %w", err)
		}
		log.InfoContext(ctx, "pprof profile written", slog.String("file", r.Pprof))
	}

	if r.Spans != "" {
		filtered := report.Filter(res, time.Duration(cfg.MinSpan))
		err := writeFile(r.Spans, func(w io.Writer) error {
			return report.WriteSpans(w, filtered)
		})
		if err != nil {
			return fmt.Errorf("write spans: %w", err)
		}
		log.InfoContext(ctx, "spans written",
			slog.String("file", r.Spans),
			slog.Int("spans", filtered.SpanCount()),
			slog.Int("filtered", res.SpanCount()-filtered.SpanCount()),
		)
	}

	return nil
}

// record runs the workload on r.Workers goroutines and joins them.
// Reconstruction must not start before record returns.
func (r *runCmd) record(ctx context.Context, p *prof.Profiler) error {
	w := newWorkload(r.Depth, r.Spin)

	g, ctx := errgroup.WithContext(ctx)
	for range r.Workers {
		g.Go(func() error {
			rec := p.Recorder()
			for range r.Iterations {
				if err := ctx.Err(); err != nil {
					return err
				}
				w.run(rec)
			}
			return nil
		})
	}

	return g.Wait()
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return write(f)
}
