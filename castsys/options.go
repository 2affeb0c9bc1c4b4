package castsys

import "log/slog"

// defaultPoolSize is spec.md's POOL_SIZE tunable default.
const defaultPoolSize = 4

// defaultMailboxCapacity seeds every actor mailbox's backing array.
const defaultMailboxCapacity = defaultQueueCapacity

type options struct {
	poolSize          int
	castLimit         int
	mailboxCapacity   int
	logger            *slog.Logger
	installSigHandler bool
}

func defaultOptions() options {
	return options{
		poolSize:          defaultPoolSize,
		castLimit:         defaultCastLimit,
		mailboxCapacity:   defaultMailboxCapacity,
		installSigHandler: true,
	}
}

// Option configures a System at CreateSystem time.
type Option func(*options)

// WithPoolSize overrides POOL_SIZE, the number of worker goroutines
// multiplexing actors.
func WithPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.poolSize = n
		}
	}
}

// WithCastLimit overrides CAST_LIMIT, the hard ceiling on actors ever
// created in this system.
func WithCastLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.castLimit = n
		}
	}
}

// WithMailboxCapacity overrides the initial backing-array size for every
// actor's mailbox queue.
func WithMailboxCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.mailboxCapacity = n
		}
	}
}

// WithLogger attaches a structured logger for lifecycle events. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithoutSignalHandler disables installing the SIGINT handler, useful for
// tests that want deterministic shutdown without touching process signals.
func WithoutSignalHandler() Option {
	return func(o *options) { o.installSigHandler = false }
}
