package main

import (
	"fmt"

	"github.com/onereel/onereel/internal/storage"
	"github.com/onereel/onereel/internal/upload"
	"github.com/spf13/cobra"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the currently hosted video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			o := upload.New(client, storage.New(storage.Config{}))
			if err := o.DeleteExisting(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted current video")
			return nil
		},
	}
}
