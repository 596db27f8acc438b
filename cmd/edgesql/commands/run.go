package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/edgesql"
	"github.com/Konsultn-Engineering/edgesql/cmd/edgesql/internal/config"
	"github.com/Konsultn-Engineering/edgesql/query"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var (
		source     string
		file       string
		pairs      []string
		nulls      []string
		jsonParams string
		compact    bool
	)

	cmd := &cobra.Command{
		Use:   "run [SQL]",
		Short: "Compile a statement, run it once and print the result as JSON",
		Long: `Compile a statement, run it once and print the result as JSON.

The statement comes from the argument, --source or --file. Parameters are
given as --param name=value (repeatable), --null-param name, or a JSON
object with --params.`,
		Example: `  edgesql run "select * from Orders where Id = @id" --param id=42
  edgesql run --file report.sql --timeout 30s --mode classic`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				source = args[0]
			}
			if file != "" {
				data, err := afero.ReadFile(config.AppFs, file)
				if err != nil {
					return err
				}
				source = string(data)
			}
			if strings.TrimSpace(source) == "" {
				return errors.New("no SQL given: pass it as an argument, --source or --file")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			policy, err := query.PolicyByName(cfg.Mode)
			if err != nil {
				return err
			}
			params, err := ParseParams(pairs, nulls, jsonParams)
			if err != nil {
				return err
			}

			fn, err := edgesql.Compile(edgesql.Config{
				Source:           source,
				ConnectionString: cfg.ConnectionString,
				CommandTimeout:   cfg.Timeout,
				Policy:           policy,
			}, edgesql.WithLogger(log))
			if err != nil {
				return err
			}
			defer edgesql.Close()

			out, err := fn(cmd.Context(), params)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&source, "source", "s", "", "SQL statement")
	f.StringVarP(&file, "file", "f", "", "read the SQL statement from a file")
	f.StringArrayVarP(&pairs, "param", "p", nil, "parameter as name=value; numbers and booleans are typed, use --params for exact strings")
	f.StringArrayVar(&nulls, "null-param", nil, "parameter bound to NULL")
	f.StringVar(&jsonParams, "params", "", "parameters as a JSON object")
	f.Duration(config.KeyTimeout, 0, "command timeout, e.g. 30s (0 uses the driver default)")
	f.String(config.KeyMode, "", "classic or extended (default extended)")
	f.BoolVar(&compact, "compact", false, "print JSON on one line")
	return cmd
}
