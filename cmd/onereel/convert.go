package main

import (
	"fmt"
	"os"

	"github.com/onereel/onereel/internal/subtitle"
	"github.com/spf13/cobra"
)

func newConvertCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:         "convert INPUT.srt",
		Short:       "Convert an SRT subtitle to WebVTT",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read subtitle: %w", err)
			}
			text, err := subtitle.DecodeText(raw)
			if err != nil {
				return fmt.Errorf("decode subtitle: %w", err)
			}
			vtt := subtitle.ToVTT(text)

			if outputPath == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), vtt)
				return err
			}
			if err := os.WriteFile(outputPath, []byte(vtt), 0o644); err != nil {
				return fmt.Errorf("write subtitle: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write WebVTT to this file instead of stdout")
	return cmd
}
