// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are immutable values configured with functional options at
// creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText))
//	logger.Info("profiler initialized", slog.Int("page_capacity", 16384))
//
// Package-level functions ([Info], [Debug], ...) write to a default logger
// that [Config] reconfigures. The profiler's own diagnostics use the
// [LevelTrace] and [LevelDebug] levels so that they are silent under the
// default [LevelInfo].
package log
