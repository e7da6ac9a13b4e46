package prof

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/kolkov/callprof/internal/config"
	"github.com/kolkov/callprof/internal/prof/callsite"
	"github.com/kolkov/callprof/internal/prof/clock"
)

// TestBegin_CallSite verifies the package-level Begin attributes regions
// to its caller.
func TestBegin_CallSite(t *testing.T) {
	Init(true)
	defer Teardown()

	End(Begin("site"))

	res := Reconstruct()
	if len(res.Stats) != 1 {
		t.Fatalf("stats = %d, want 1", len(res.Stats))
	}
	name := res.Stats[0].Name
	if !strings.HasPrefix(name, "site (") || !strings.Contains(name, "TestBegin_CallSite") {
		t.Errorf("name = %q, want tag and calling function", name)
	}
	if !strings.Contains(name, "prof_test.go") {
		t.Errorf("name = %q, want calling file", name)
	}
}

// TestRecorder_CallSite verifies the recorder attributes regions to its
// caller.
func TestRecorder_CallSite(t *testing.T) {
	Init(true)
	defer Teardown()

	r := Recorder()
	r.End(r.Begin("rec"))

	res := Reconstruct()
	if len(res.Stats) != 1 || !strings.Contains(res.Stats[0].Name, "TestRecorder_CallSite") {
		t.Errorf("stats = %+v, want one statistic naming the caller", res.Stats)
	}
}

// TestSetEnabled verifies the package-level gate.
func TestSetEnabled(t *testing.T) {
	Init(true)
	defer Teardown()

	if !Enabled() {
		t.Fatal("Enabled() = false after Init(true)")
	}
	SetEnabled(false)
	if Enabled() {
		t.Fatal("Enabled() = true after SetEnabled(false)")
	}
	End(Begin("off"))
	if st := Stats(); st.Events != 0 {
		t.Errorf("Events = %d, want 0", st.Events)
	}
}

// TestNew_Options verifies options reach the profiler.
func TestNew_Options(t *testing.T) {
	const site callsite.PC = 1

	var buf bytes.Buffer
	clk := &clock.Manual{}

	cfg := DefaultConfig()
	cfg.Log.Level = "debug"

	p, err := New(
		WithConfig(cfg),
		WithClock(clk),
		WithResolver(callsite.Static{site: {File: "x.go", Line: 1, Func: "x.F"}}),
		WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.Init(true)
	defer p.Teardown()

	tok := p.BeginAt("x", site)
	clk.Advance(25)
	p.End(tok)

	s, ok := p.Reconstruct().Stat("x (x.F x.go:1)")
	if !ok || s.Total != 25 {
		t.Errorf("stat = %+v (found %v), want total 25", s, ok)
	}
	if !strings.Contains(buf.String(), "trace reconstructed") {
		t.Errorf("custom logger not used:\n%s", buf.String())
	}
}

// TestNew_InvalidConfig verifies New rejects invalid configuration.
func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSpan = -1

	if _, err := New(WithConfig(cfg)); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("New error = %v, want ErrInvalid", err)
	}
}

// TestSetDefault verifies package-level functions follow the installed
// profiler.
func TestSetDefault(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	prev := SetDefault(p)
	defer SetDefault(prev)

	Init(true)
	End(Begin("installed"))
	if st := p.Stats(); st.Events != 2 {
		t.Errorf("installed profiler Events = %d, want 2", st.Events)
	}
	Teardown()

	if st := prev.Stats(); st.Events != 0 {
		t.Errorf("previous profiler Events = %d, want 0", st.Events)
	}
}
