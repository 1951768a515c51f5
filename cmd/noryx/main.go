package main

import (
	"os"

	"github.com/spf13/cobra"

	"noryx/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "noryx",
		Short: "Noryx - VPN access platform core",
		Long:  `Noryx provisions VPN clients against the provider panel, delivers connection material per device, and runs the expiry and mailing schedulers.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
