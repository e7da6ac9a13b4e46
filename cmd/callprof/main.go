// Package main implements the callprof demo CLI.
//
// callprof drives the profiler end to end: it spawns producer goroutines
// that run a nested synthetic workload, joins them, reconstructs the
// trace and reports the result.
//
// Usage:
//
//	callprof run                               # 4 workers, table on stdout
//	callprof run --workers 8 --depth 5         # wider and deeper workload
//	callprof run --pprof out.pb.gz --spans spans.yaml
//	callprof --config callprof.yaml run        # tunables from YAML
//	callprof --self-profile cpu run            # profile callprof itself
//	callprof instrument -w store.go            # insert region markers
//	callprof version
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/kolkov/callprof/internal/log"
)

func main() {
	err := run(context.Background(), os.Stdout, os.Stderr, os.Exit, os.Args[1:]...)
	if err != nil {
		log.Error("callprof failed", slog.Any("error", err))
		os.Exit(1)
	}
}
