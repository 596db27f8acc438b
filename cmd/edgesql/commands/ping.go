package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/edgesql"
	"github.com/Konsultn-Engineering/edgesql/connector"
)

// NewPingCommand creates the ping command.
func NewPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the database is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			connStr := cfg.ConnectionString
			if connStr == "" {
				connStr = os.Getenv(edgesql.EnvConnectionString)
			}

			name, provider, err := connector.Resolve(connStr)
			if err != nil {
				return err
			}
			defer edgesql.Close()

			ctx := cmd.Context()
			conn, err := provider.Connect(ctx, connector.Config{DSN: connStr})
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer conn.Close()

			if err := conn.Ping(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok (%s, %s)\n", name, provider.Dialect().Name())
			return nil
		},
	}
}
