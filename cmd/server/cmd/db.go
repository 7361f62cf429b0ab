package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/tracker/internal/db"
)

func InitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer db.Close(database)

			err = db.RunMigrations(cmd.Context(), database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}

			slog.Info("database initialized", "driver", cfg.DBDriver)
			return nil
		},
	}
}

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Schema migration commands",
	}

	cmd.AddCommand(migrateDownCmd())
	cmd.AddCommand(migrateStatusCmd())

	return cmd
}

func migrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *db.Migrator) error {
				return m.Down(cmd.Context())
			})
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *db.Migrator) error {
				status, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
				for _, s := range status {
					appliedAt := "-"
					if !s.AppliedAt.IsZero() {
						appliedAt = s.AppliedAt.UTC().Format(time.RFC3339)
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, appliedAt, s.Source.Path)
				}
				return tw.Flush()
			})
		},
	}
}

func withMigrator(cmd *cobra.Command, fn func(m *db.Migrator) error) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	m, err := db.NewMigrator(database.DB, cfg.DBDriver)
	if err != nil {
		return err
	}
	return fn(m)
}
