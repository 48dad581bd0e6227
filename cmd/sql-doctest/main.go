package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sql-doctest/internal/config"
	"sql-doctest/internal/dialect"
	"sql-doctest/internal/engine"
	"sql-doctest/internal/lint"
	"sql-doctest/internal/reporter"
	"sql-doctest/internal/runner"
	"sql-doctest/internal/sqlparse"
)

var (
	driver     string
	dsn        string
	jobs       int
	timeout    time.Duration
	marker     string
	excludes   []string
	configPath string
	noColor    bool
	schemaPath string
)

// Sentinel errors carrying the exit status without re-printing anything the
// report already said.
var (
	errTestsFailed = errors.New("tests failed")
	errLintIssues  = errors.New("lint found warnings")
)

var rootCmd = &cobra.Command{
	Use:   "sql-doctest [paths...]",
	Short: "Run SQL test cases embedded in source comments and Markdown",
	Long: `sql-doctest scans C, Rust and Markdown files for SQL test blocks:
fenced ` + "```sql" + ` queries with optional ` + "```output" + ` expectations, written
either in Markdown directly or inside /* ` + dialect.DefaultMarker + ` ... */ comments.
Each query runs against a SQL engine (embedded SQLite by default) and its
rendered output is compared textually against the expectation.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyConfig(cmd); err != nil {
			return err
		}
		setupColor()

		eng, err := engine.Open(driver, dsn, timeout)
		if err != nil {
			return err
		}
		defer eng.Close()

		r := &runner.Runner{
			Engine:   eng,
			Marker:   marker,
			Jobs:     jobs,
			Excludes: excludes,
		}
		report, err := r.Run(cmd.Context(), args)
		if err != nil {
			return err
		}

		if err := reporter.NewConsoleReporter().Report(report); err != nil {
			return err
		}
		if !report.Success() {
			return errTestsFailed
		}
		return nil
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Statically check extracted test queries without executing them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyConfig(cmd); err != nil {
			return err
		}
		setupColor()

		var schema *sqlparse.Schema
		if schemaPath != "" {
			var err error
			schema, err = sqlparse.NewSQLParser().LoadSchema(schemaPath)
			if err != nil {
				return fmt.Errorf("failed to load schema: %w", err)
			}
		}

		issues, err := lint.New(schema, marker).Run(cmd.Context(), args, excludes)
		if err != nil {
			return err
		}
		if err := reporter.NewLintReporter().Report(issues); err != nil {
			return err
		}
		for _, issue := range issues {
			if issue.Level == lint.LevelWarning {
				return errLintIssues
			}
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&marker, "marker", "m", dialect.DefaultMarker, "Tag opening a SQL test comment block")
	pf.StringSliceVarP(&excludes, "exclude", "e", nil, "Patterns to exclude from the scan")
	pf.StringVarP(&configPath, "config", "c", "", "Config file (default: "+config.DefaultFile+" if present)")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.Flags().StringVar(&driver, "driver", engine.DefaultDriver, "database/sql driver (sqlite3, pgx, mysql)")
	rootCmd.Flags().StringVar(&dsn, "dsn", engine.DefaultDSN, "Engine connection string")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Number of files processed concurrently")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-query deadline, 0 disables")

	lintCmd.Flags().StringVarP(&schemaPath, "schema", "S", "", "DDL file with tables assumed to exist")

	rootCmd.AddCommand(lintCmd)
}

// applyConfig merges the optional YAML config under the flags: a flag set on
// the command line always wins.
func applyConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("driver") && cfg.Driver != "" {
		driver = cfg.Driver
	}
	if !flags.Changed("dsn") && cfg.DSN != "" {
		dsn = cfg.DSN
	}
	if !flags.Changed("jobs") && cfg.Jobs > 0 {
		jobs = cfg.Jobs
	}
	if !flags.Changed("timeout") && cfg.Timeout != "" {
		timeout, _ = cfg.TimeoutDuration()
	}
	if !flags.Changed("marker") && cfg.Marker != "" {
		marker = cfg.Marker
	}
	if !flags.Changed("exclude") && len(cfg.Excludes) > 0 {
		excludes = cfg.Excludes
	}
	return nil
}

func setupColor() {
	if noColor {
		color.NoColor = true
		return
	}
	reporter.AutoColor()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) && !errors.Is(err, errLintIssues) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
