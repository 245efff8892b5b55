package main

import (
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ragd/internal/instance"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Example: "  ragd serve\n" +
			"  ragd serve --config-name local_llm --seed-dir ~/notes\n" +
			"  ragd serve --config ./ragd.yaml --addr :9090",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, name, err := opts.resolveConfig()
			if err != nil {
				return err
			}
			opts.applyConfigLogLevel(cmd, cfg, name)
			logger := log.Logger
			inst, err := instance.New(instance.Options{Config: cfg, ConfigName: name, Logger: &logger})
			if err != nil {
				return err
			}
			if c, ok := inst.Engine().(io.Closer); ok {
				defer c.Close()
			}
			// Graceful shutdown (Ctrl+C / SIGTERM)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return inst.Serve(ctx)
		},
	}
}
