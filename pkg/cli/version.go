package cli

import (
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show taskify version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("taskify version %s\n", Version)
		},
	}
}
