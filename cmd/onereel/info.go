package main

import (
	"fmt"

	"github.com/onereel/onereel/internal/validate"
	"github.com/spf13/cobra"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the currently hosted video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			info, err := client.GetVideo(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if info.Video == nil {
				fmt.Fprintln(out, "No video uploaded yet")
				return nil
			}

			subtitle := "no"
			if info.Subtitle != nil {
				subtitle = "yes"
			}
			rows := [][]string{
				{"Key", info.Video.Key},
				{"Size", validate.FormatSize(info.Video.Size)},
				{"Subtitle", subtitle},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}
}
