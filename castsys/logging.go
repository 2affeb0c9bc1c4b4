package castsys

import "log/slog"

// lifecycle-only logging: system create and join, handler panics, spawn
// requests without a role, fatal aborts. Teardown, individual actor
// births and deaths, and spawns dropped during shutdown are not logged.
// Never per-message — spec.md puts message tracing out of scope, grounded
// on babyman-slug-lang/internal/kernel logging actor registration the same
// way.

func (s *System) logger() *slog.Logger {
	if s.opts.logger != nil {
		return s.opts.logger
	}
	return slog.Default()
}

func (s *System) logInfo(msg string, args ...any) {
	args = append([]any{slog.String("system", s.instanceID)}, args...)
	s.logger().Info(msg, args...)
}

func (s *System) logWarn(msg string, args ...any) {
	args = append([]any{slog.String("system", s.instanceID)}, args...)
	s.logger().Warn(msg, args...)
}

func (s *System) logError(msg string, args ...any) {
	args = append([]any{slog.String("system", s.instanceID)}, args...)
	s.logger().Error(msg, args...)
}
