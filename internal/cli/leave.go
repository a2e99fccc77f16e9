package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Forget the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Storage.ClearSession(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Session cleared.")
			return nil
		},
	}
}
