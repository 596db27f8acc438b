// Package commands implements the edgesql CLI commands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Konsultn-Engineering/edgesql/cmd/edgesql/internal/config"
	"github.com/Konsultn-Engineering/edgesql/logging"
)

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "edgesql",
		Short:         "Compile and run SQL statements",
		Long:          "edgesql compiles a SQL statement into a query function and runs it against SQL Server, PostgreSQL, MySQL or SQLite.",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String(config.KeyConfigFile, "", "config file (default .edgesql.yaml in . or $HOME)")
	flags.String(config.KeyConnectionString, "", "connection string (default $EDGE_SQL_CONNECTION_STRING)")
	flags.String(config.KeyLogLevel, "", "log level: debug, info, warn or error")
	flags.String(config.KeyLogFormat, "", "log format: text or json")

	root.AddCommand(NewRunCommand())
	root.AddCommand(NewClassifyCommand())
	root.AddCommand(NewPingCommand())
	root.AddCommand(NewVersionCommand())
	return root
}

// loadConfig binds the command's flags and resolves the configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	for _, key := range []string{
		config.KeyConfigFile,
		config.KeyConnectionString,
		config.KeyTimeout,
		config.KeyMode,
		config.KeyLogLevel,
		config.KeyLogFormat,
	} {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	return config.Load(v, config.AppFs)
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
}
