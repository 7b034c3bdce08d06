package main

import (
	"fmt"
	"os"

	"github.com/benvon/homework-helper/cmd/helperctl/commands"
	"github.com/spf13/cobra"
)

func main() {
	opts := &commands.Options{}
	rootCmd := &cobra.Command{
		Use:          "helperctl",
		Short:        "Command-line client for the homework helper",
		Long:         "Manage homework and chat with the study assistant through a running homework helper server",
		SilenceUsage: true,
	}
	opts.BindFlags(rootCmd)

	rootCmd.AddCommand(commands.NewHomeworkCmd(opts))
	rootCmd.AddCommand(commands.NewChatCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
