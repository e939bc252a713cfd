package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Torito9609/stirling-partitions-simulation/internal/server"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/config"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/session"
)

// newServeCmd creates the serve command for running the HTTP API.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for enumeration sessions and recursion trees.

Sessions keep a resumable cursor server-side so clients can step through
partitions with POST /next and /previous. The session store backend is
selected by the config file: memory (default), file, or redis.

Examples:

  stirling serve
  stirling serve --addr :9090
  stirling serve --config stirling.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger := loggerFromContext(cmd.Context())

			var store session.Store
			switch cfg.Session.Backend {
			case config.BackendMemory:
				store = session.NewMemoryStore()
			case config.BackendFile:
				store, err = session.NewFileStore(cfg.Session.Dir)
				if err != nil {
					return fmt.Errorf("opening session directory: %w", err)
				}
			case config.BackendRedis:
				rs, err := session.NewRedisStore(cmd.Context(), session.RedisConfig{
					Addr:     cfg.Session.RedisAddr,
					Password: cfg.Session.RedisPassword,
					DB:       cfg.Session.RedisDB,
				})
				if err != nil {
					return fmt.Errorf("connecting to redis: %w", err)
				}
				defer rs.Close()
				store = rs
			default:
				return fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
			}

			logger.Info("starting server",
				"addr", cfg.Server.Addr,
				"backend", cfg.Session.Backend,
				"ttl", cfg.Session.TTL.Std())
			return server.New(cfg, store, logger).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
