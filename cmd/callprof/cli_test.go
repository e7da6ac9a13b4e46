package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/pprof/profile"

	"github.com/kolkov/callprof/internal/config"
	"github.com/kolkov/callprof/prof"
	"github.com/kolkov/callprof/report"
)

// invoke runs the CLI and captures its output. Exit requests from kong
// are recorded instead of terminating the test binary.
func invoke(t *testing.T, args ...string) (stdout, stderr string, code int, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	code = -1
	err = run(context.Background(), &out, &errOut, func(c int) { code = c }, args...)

	return out.String(), errOut.String(), code, err
}

func TestVersion(t *testing.T) {
	out, _, _, err := invoke(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "callprof "+prof.Version) {
		t.Errorf("output = %q, want version %s", out, prof.Version)
	}
}

func TestRun_Table(t *testing.T) {
	out, _, _, err := invoke(t, "run", "--workers", "2", "--iterations", "10", "--depth", "3", "--spin", "10")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, want := range []string{"NAME", "level0 (", "level1 (", "level2 (", "3 functions", "on 2 goroutines"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	pprofPath := filepath.Join(dir, "out.pb.gz")
	spansPath := filepath.Join(dir, "spans.yaml")

	_, _, _, err := invoke(t, "run",
		"--workers", "3", "--iterations", "5", "--depth", "2", "--spin", "0",
		"--pprof", pprofPath, "--spans", spansPath)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	f, err := os.Open(pprofPath)
	if err != nil {
		t.Fatalf("pprof file: %v", err)
	}
	defer f.Close()

	p, err := profile.Parse(f)
	if err != nil {
		t.Fatalf("pprof does not parse: %v", err)
	}
	var calls int64
	for _, s := range p.Sample {
		calls += s.Value[report.CallsIndex]
	}
	if want := int64(3 * 5 * newWorkload(2, 0).calls()); calls != want {
		t.Errorf("pprof calls = %d, want %d", calls, want)
	}

	data, err := os.ReadFile(spansPath)
	if err != nil {
		t.Fatalf("spans file: %v", err)
	}
	var doc report.SpanDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("spans do not parse: %v", err)
	}
	// Spans shorter than min_span may be filtered, but every span kept
	// still belongs to one of the three producers.
	if len(doc.Threads) > 3 {
		t.Errorf("threads = %d, want at most 3", len(doc.Threads))
	}
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "callprof.yaml")
	data := "enabled: false\npage_capacity: 8\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, _, err := invoke(t, "--config", path, "run", "--workers", "1", "--iterations", "3")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "0 functions") {
		t.Errorf("disabled profiler recorded data:\n%s", out)
	}
}

func TestRun_InvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "callprof.yaml")
	if err := os.WriteFile(path, []byte("page_capacity: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, _, err := invoke(t, "--config", path, "run")
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}
}

func TestRun_LogFlags(t *testing.T) {
	_, stderr, _, err := invoke(t, "--log-level", "debug", "--log-format", "json",
		"run", "--workers", "1", "--iterations", "1", "--depth", "1")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, want := range []string{`"msg":"configuration loaded"`, `"msg":"workload finished"`, `"msg":"trace reconstructed"`} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr lacks %s:\n%s", want, stderr)
		}
	}
}

func TestRun_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no workers", []string{"run", "--workers", "0"}},
		{"zero depth", []string{"run", "--depth", "0"}},
		{"unknown log level", []string{"--log-level", "loud", "run"}},
		{"unknown self-profile mode", []string{"--self-profile", "disk", "run"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := invoke(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRun_SelfProfile(t *testing.T) {
	dir := t.TempDir()

	_, _, _, err := invoke(t, "--self-profile", "mem", "--self-profile-dir", dir,
		"run", "--workers", "1", "--iterations", "1")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "mem.pprof")); err != nil {
		t.Errorf("self-profile not written: %v", err)
	}
}

func TestWorkload_Calls(t *testing.T) {
	tests := []struct {
		depth int
		want  int
	}{
		{1, 1},
		{2, 3},
		{3, 7},
		{5, 31},
	}

	for _, tt := range tests {
		p, err := prof.New()
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		p.Init(true)

		w := newWorkload(tt.depth, 1)
		w.run(p.Recorder())

		res := p.Reconstruct()
		var calls int64
		for _, s := range res.Stats {
			calls += s.Calls
		}
		if w.calls() != tt.want || calls != int64(tt.want) {
			t.Errorf("depth %d: calls() = %d, recorded %d, want %d", tt.depth, w.calls(), calls, tt.want)
		}
		if len(res.Stats) != tt.depth {
			t.Errorf("depth %d: %d distinct regions, want %d", tt.depth, len(res.Stats), tt.depth)
		}
		p.Teardown()
	}
}

func TestInstrument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work.go")
	src := "package work\n\nfunc Step() int {\n\treturn 1\n}\n"
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, _, err := invoke(t, "instrument", path)
	if err != nil {
		t.Fatalf("instrument failed: %v", err)
	}
	if !strings.Contains(out, `defer prof.End(prof.Begin("Step"))`) {
		t.Errorf("stdout lacks marker:\n%s", out)
	}

	// Without --write the file is untouched.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != src {
		t.Errorf("file modified without --write:\n%s", data)
	}

	if _, _, _, err := invoke(t, "instrument", "--write", path); err != nil {
		t.Fatalf("instrument --write failed: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `prof.Begin("Step")`) {
		t.Errorf("file not rewritten:\n%s", data)
	}
}
