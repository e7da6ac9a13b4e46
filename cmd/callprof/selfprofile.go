package main

import (
	"context"
	"log/slog"

	"github.com/pkg/profile"

	"github.com/kolkov/callprof/internal/log"
)

// selfProfileModes maps --self-profile values to pkg/profile modes.
var selfProfileModes = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"trace":     profile.TraceProfile,
}

// startSelfProfile starts profiling callprof itself when mode is set.
// The returned stop function is always safe to call.
func startSelfProfile(ctx context.Context, mode, dir string) (stop func()) {
	fn, ok := selfProfileModes[mode]
	if !ok {
		return func() {}
	}

	log.DebugContext(ctx, "self-profile start",
		slog.String("mode", mode),
		slog.String("dir", dir),
	)

	p := profile.Start(fn, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook)

	return func() {
		p.Stop()
		log.InfoContext(ctx, "self-profile written",
			slog.String("mode", mode),
			slog.String("dir", dir),
		)
	}
}
