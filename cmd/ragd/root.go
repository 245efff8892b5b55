package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ragd/internal/config"
	"ragd/internal/version"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	logLevel    string
	configPath  string
	configName  string
	addr        string
	seedDir     string
	corsOrigins string
	metadata    string
	stderr      io.Writer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{stderr: os.Stderr}
	root := &cobra.Command{
		Use:           "ragd",
		Short:         "Retrieval-augmented generation daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", envStr("RAGD_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&opts.configName, "config-name", "", "Named configuration (see `ragd configs`), defaults to \"default\"")
	root.PersistentFlags().StringVar(&opts.addr, "addr", "", "HTTP listen address, overrides the configuration")
	root.PersistentFlags().StringVar(&opts.seedDir, "seed-dir", "", "Directory of text files ingested at startup")
	root.PersistentFlags().StringVar(&opts.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins; enables CORS")
	root.PersistentFlags().StringVar(&opts.metadata, "metadata", envStr("RAGD_PACKAGE_TOML", ""), "Path to package.toml, defaults to <prefix>/package.toml next to the binary")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogging(opts.stderr, opts.logLevel)
		if opts.metadata != "" {
			version.Init(version.FileSource{Path: opts.metadata})
		}
	}

	root.AddCommand(
		newServeCmd(opts),
		newVersionCmd(),
		newConfigsCmd(),
		newIngestCmd(),
		newSearchCmd(),
		newAskCmd(),
	)
	return root
}

// setupLogging installs a console logger at level as the global logger.
func setupLogging(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

// resolveConfig turns the flags into the construction inputs of an
// instance. Without file or override flags only the name is returned and
// resolution is left to the builder.
func (o *rootOptions) resolveConfig() (*config.Config, string, error) {
	overrides := o.addr != "" || o.seedDir != "" || o.corsOrigins != ""
	if o.configPath == "" && !overrides {
		return nil, o.configName, nil
	}

	var cfg config.Config
	var err error
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return nil, "", fmt.Errorf("load config: %w", err)
		}
		config.ApplyEnv(&cfg)
		if cfg.Name == "" {
			base := filepath.Base(o.configPath)
			cfg.Name = strings.TrimSuffix(base, filepath.Ext(base))
		}
	} else {
		cfg, err = config.LoadNamed(o.configName)
		if err != nil {
			return nil, "", err
		}
	}
	if o.addr != "" {
		cfg.Server.Addr = o.addr
	}
	if o.seedDir != "" {
		cfg.Engine.SeedDir = o.seedDir
	}
	if origins := splitCSV(o.corsOrigins); len(origins) > 0 {
		cfg.Server.CORS.Enabled = true
		cfg.Server.CORS.AllowedOrigins = origins
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, "", nil
}

// applyConfigLogLevel switches the global logger to the configured
// log.level unless --log-level was given on the command line.
func (o *rootOptions) applyConfigLogLevel(cmd *cobra.Command, cfg *config.Config, name string) {
	if cmd.Flags().Changed("log-level") {
		return
	}
	if cfg == nil {
		loaded, err := config.LoadNamed(name)
		if err != nil {
			return
		}
		cfg = &loaded
	}
	if cfg.Log.Level != "" {
		setupLogging(o.stderr, cfg.Log.Level)
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
