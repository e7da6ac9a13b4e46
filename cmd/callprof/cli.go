package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/kolkov/callprof/internal/config"
	"github.com/kolkov/callprof/internal/log"
	"github.com/kolkov/callprof/prof"
)

// CLI is the top-level command-line interface.
type CLI struct {
	Config string `help:"YAML configuration file." placeholder:"FILE" short:"c" type:"existingfile"`

	Log logConfig `embed:"" group:"log" prefix:"log-"`

	SelfProfile    string `default:""  enum:",${selfProfileModes}" help:"Profile callprof itself (${enum})." placeholder:"MODE"`
	SelfProfileDir string `default:"." help:"Self-profile output directory."                        type:"path"`

	Run        runCmd        `cmd:"" help:"Run the synthetic workload and report."`
	Instrument instrumentCmd `cmd:"" help:"Insert region markers into Go source files."`
	Version    versionCmd    `cmd:"" help:"Print version information."`
}

type logConfig struct {
	Level  string `default:"" enum:",${logLevels}"  help:"Log level (${enum}); overrides the configuration file."`
	Format string `default:"" enum:",${logFormats}" help:"Log format (${enum}); overrides the configuration file."`
	Caller bool   `default:"false" help:"Include caller information." negatable:""`
}

func (logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevels":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormats": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// apply lets explicit flags override the configuration file, then
// configures the process-wide logger.
func (f logConfig) apply(w io.Writer, cfg *config.Config) {
	if f.Level != "" {
		cfg.Log.Level = f.Level
	}
	if f.Format != "" {
		cfg.Log.Format = f.Format
	}

	log.Config(append(cfg.Log.Options(),
		log.WithOutput(w),
		log.WithCaller(f.Caller),
	)...)
}

// run parses args and executes the selected command.
// exit is called by kong for --help and usage errors.
func run(ctx context.Context, stdout, stderr io.Writer, exit func(int), args ...string) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	parser, err := kong.New(&cli,
		kong.Name("callprof"),
		kong.Description("Instrumentation profiler demo: record, reconstruct, report."),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, stderr),
		kong.ExplicitGroups([]kong.Group{cli.Log.group()}),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"selfProfileModes": strings.Join(slices.Sorted(maps.Keys(selfProfileModes)), ","),
		}.CloneWith(cli.Log.vars()),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if cli.Config != "" {
		cfg, err = config.Load(cli.Config)
		if err != nil {
			return err
		}
	}

	cli.Log.apply(stderr, &cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	log.DebugContext(ctx, "configuration loaded",
		slog.String("file", cli.Config),
		slog.Bool("enabled", cfg.Enabled),
		slog.Int("page_capacity", cfg.PageCapacity),
		slog.Duration("min_span", time.Duration(cfg.MinSpan)),
	)

	defer startSelfProfile(ctx, cli.SelfProfile, cli.SelfProfileDir)()

	return ktx.Run(&cfg)
}

type versionCmd struct{}

// Run prints version information.
func (versionCmd) Run(ktx *kong.Context) error {
	info := prof.GetInfo()
	_, err := fmt.Fprintf(ktx.Stdout, "callprof %s (page capacity %d)\n", info.Version, info.PageCapacity)
	return err
}
