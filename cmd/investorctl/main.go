package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalos/website/cmd/investorctl/command"
)

func main() {
	cmd := &cobra.Command{
		Use:   "investorctl",
		Short: "Vitalos investor access CLI",
		Long:  `investorctl requests an investor access code, verifies it, and keeps the resulting access grant on this machine.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	command.AddCommands(cmd)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
