package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/tracker/cmd/server/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "server",
		Short:        "Project progress tracker",
		SilenceUsage: true,
		// Bare invocation serves, same as "server serve"
		RunE: cmd.Serve,
	}

	rootCmd.AddCommand(cmd.ServeCmd())
	rootCmd.AddCommand(cmd.InitDBCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
