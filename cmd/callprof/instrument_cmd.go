package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/kolkov/callprof/cmd/callprof/instrument"
	"github.com/kolkov/callprof/internal/log"
)

type instrumentCmd struct {
	Files        []string `arg:"" help:"Go source files to instrument." type:"existingfile"`
	Write        bool     `help:"Rewrite files in place instead of printing to stdout." short:"w"`
	ExportedOnly bool     `help:"Only instrument exported functions and methods."`
}

// Run instruments each file and prints or rewrites it.
func (c *instrumentCmd) Run(ctx context.Context, ktx *kong.Context) error {
	opts := instrument.Options{ExportedOnly: c.ExportedOnly}

	for _, path := range c.Files {
		res, err := instrument.File(path, nil, opts)
		if err != nil {
			return err
		}

		for _, s := range res.Stats.Skipped {
			log.DebugContext(ctx, "function skipped",
				slog.String("file", path),
				slog.String("func", s.Func),
				slog.String("reason", s.Reason),
			)
		}

		log.InfoContext(ctx, "file instrumented",
			slog.String("file", path),
			slog.Int("instrumented", res.Stats.Instrumented),
			slog.Int("skipped", len(res.Stats.Skipped)),
		)

		if !c.Write {
			if _, err := ktx.Stdout.Write(res.Code); err != nil {
				return err
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, res.Code, info.Mode().Perm()); err != nil {
			return fmt.Errorf("rewrite %s: %w", path, err)
		}
	}

	return nil
}
