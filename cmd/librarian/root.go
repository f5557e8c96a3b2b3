package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AntonStoeckl/library-records/config"
	"github.com/AntonStoeckl/library-records/library"
)

// rootOptions is shared by all subcommands. cfg is set in PersistentPreRunE.
type rootOptions struct {
	configFile string
	seedFile   string
	v          *viper.Viper
	cfg        *config.Config
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "librarian",
		Short: "Manage the records of a small library",
		Long: `librarian keeps students, books and loans in fixed-capacity registries.

Every command starts from an empty library, loads the seed file into it and then
prints what was asked for. Changes are recorded in the configured journal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.v, opts.configFile)
			if err != nil {
				return err
			}

			opts.cfg = cfg

			return nil
		},
	}

	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (YAML)")
	flags.StringVarP(&opts.seedFile, "seed", "s", "", "seed file with students, books and loans (YAML)")
	flags.Int("capacity", library.DefaultCapacity, "maximum number of entries per registry")
	flags.String("journal", config.JournalMemory, "journal driver: none, memory or postgres")
	flags.String("adapter", config.AdapterPGX, "postgres client: pgx, sql or sqlx")
	flags.String("dsn", "", "PostgreSQL connection string")
	flags.String("trace", config.TraceNone, "trace exporter: none or stdout (written to stderr)")
	flags.String("metrics", config.MetricsNone, "metric exporter: none or stdout (written to stderr on exit)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")

	_ = opts.v.BindPFlag("library.capacity", flags.Lookup("capacity"))
	_ = opts.v.BindPFlag("journal.driver", flags.Lookup("journal"))
	_ = opts.v.BindPFlag("journal.adapter", flags.Lookup("adapter"))
	_ = opts.v.BindPFlag("postgres.dsn", flags.Lookup("dsn"))
	_ = opts.v.BindPFlag("tracing.exporter", flags.Lookup("trace"))
	_ = opts.v.BindPFlag("metrics.exporter", flags.Lookup("metrics"))
	_ = opts.v.BindPFlag("logging.level", flags.Lookup("log-level"))

	cmd.AddCommand(
		newLoadCmd(opts),
		newReportCmd(opts),
		newHistoryCmd(opts),
	)

	return cmd
}
