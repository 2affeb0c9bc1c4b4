package commands

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/lguibr/castsys"
	"github.com/spf13/cobra"
)

var (
	// configPath points at a TOML file of runtime tunables; explicit flags
	// override whatever it sets.
	configPath string

	// poolSize is the worker pool's goroutine count (castsys.WithPoolSize).
	poolSize int

	// castLimit caps how many actors a single run may ever create
	// (castsys.WithCastLimit).
	castLimit int

	// mailboxCapacity is each actor mailbox's initial ring-buffer capacity
	// (castsys.WithMailboxCapacity).
	mailboxCapacity int

	// noSignalHandler disables castsys's own SIGINT handling, useful when
	// castctl itself is embedded in something that already owns SIGINT.
	noSignalHandler bool
)

// runtimeConfig mirrors the flags above for TOML decoding; a config file
// entry is applied only when the matching flag was never set on the
// command line.
type runtimeConfig struct {
	PoolSize        int  `toml:"pool_size"`
	CastLimit       int  `toml:"cast_limit"`
	MailboxCapacity int  `toml:"mailbox_capacity"`
	NoSignalHandler bool `toml:"no_signal_handler"`
}

var rootCmd = &cobra.Command{
	Use:   "castctl",
	Short: "Run actor-runtime example workloads on castsys",
	Long: `castctl drives the example workloads built on top of castsys, an
in-process actor runtime: cooperative, message-driven concurrency over a
bounded worker pool.`,
	PersistentPreRunE: loadConfig,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file of runtime tunables")
	rootCmd.PersistentFlags().IntVar(&poolSize, "pool-size", 4, "worker pool goroutine count")
	rootCmd.PersistentFlags().IntVar(&castLimit, "cast-limit", 1<<20, "maximum number of actors this run may create")
	rootCmd.PersistentFlags().IntVar(&mailboxCapacity, "mailbox-capacity", 16, "initial per-actor mailbox capacity")
	rootCmd.PersistentFlags().BoolVar(&noSignalHandler, "no-signal-handler", false, "disable castsys's built-in SIGINT handling")

	rootCmd.AddCommand(factorialCmd)
	rootCmd.AddCommand(matrixsumCmd)
}

// loadConfig applies configPath's settings for any flag the user did not
// explicitly set on the command line; explicit flags always win.
func loadConfig(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		return nil
	}

	var cfg runtimeConfig
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", configPath, err)
	}

	flags := cmd.Flags()
	if !flags.Changed("pool-size") && cfg.PoolSize > 0 {
		poolSize = cfg.PoolSize
	}
	if !flags.Changed("cast-limit") && cfg.CastLimit > 0 {
		castLimit = cfg.CastLimit
	}
	if !flags.Changed("mailbox-capacity") && cfg.MailboxCapacity > 0 {
		mailboxCapacity = cfg.MailboxCapacity
	}
	if !flags.Changed("no-signal-handler") && cfg.NoSignalHandler {
		noSignalHandler = cfg.NoSignalHandler
	}
	return nil
}

// runtimeOptions builds the castsys.Option set from the resolved flags.
func runtimeOptions() []castsys.Option {
	opts := []castsys.Option{
		castsys.WithPoolSize(poolSize),
		castsys.WithCastLimit(castLimit),
		castsys.WithMailboxCapacity(mailboxCapacity),
	}
	if noSignalHandler {
		opts = append(opts, castsys.WithoutSignalHandler())
	}
	return opts
}
