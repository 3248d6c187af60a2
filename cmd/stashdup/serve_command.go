package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"stashdup/internal/dashboard"
	"stashdup/internal/logging"
	"stashdup/internal/scanstore"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindOverride string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		Long: `Serve the dashboard until interrupted. A file lock under the data
directory keeps a second instance from racing the first over the pass
history database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lockPath := filepath.Join(cfg.Paths.DataDir, "stashdup.lock")
			lock := flock.New(lockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return errors.New("another stashdup serve instance is already running")
			}
			defer lock.Unlock()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := scanstore.Open(cfg)
			if err != nil {
				return fmt.Errorf("open pass store: %w", err)
			}
			defer store.Close()

			client, err := ctx.stashClient()
			if err != nil {
				return err
			}
			opts, err := ctx.matchOptions()
			if err != nil {
				return err
			}

			bind := cfg.Dashboard.Bind
			if bindOverride != "" {
				bind = bindOverride
			}
			server, err := dashboard.NewServer(bind, client, store, opts, logger)
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := server.Start(signalCtx); err != nil {
				return err
			}
			defer server.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Dashboard listening on http://%s\n", server.Addr())
			<-signalCtx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&bindOverride, "bind", "", "Listen address override (host:port)")
	return cmd
}
