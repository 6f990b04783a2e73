package main

import (
	"fmt"

	"github.com/onereel/onereel/internal/storage"
	"github.com/onereel/onereel/internal/upload"
	"github.com/onereel/onereel/internal/validate"
	"github.com/spf13/cobra"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var subtitlePath string

	cmd := &cobra.Command{
		Use:   "upload VIDEO",
		Short: "Replace the hosted video, optionally with a subtitle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			o := upload.New(client, storage.New(storage.Config{}))
			if err := selectPath(o, upload.KindVideo, args[0]); err != nil {
				return err
			}
			if subtitlePath != "" {
				if err := selectPath(o, upload.KindSubtitle, subtitlePath); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if err := o.Check(cmd.Context()); err != nil {
				return err
			}
			if existing := o.State().Existing; existing != nil {
				fmt.Fprintf(out, "Replacing current video %s (%s)\n", existing.Key, validate.FormatSize(existing.Size))
			}

			progress := newProgressReporter(cmd.ErrOrStderr())
			o.OnChange(progress.update)
			o.OnComplete(func() {
				fmt.Fprintln(out, "Upload complete!")
			})

			err = o.Upload(cmd.Context())
			progress.finish()
			return err
		},
	}

	cmd.Flags().StringVarP(&subtitlePath, "subtitle", "s", "", "SRT subtitle to upload with the video")
	return cmd
}

// selectPath validates the name before touching the disk so a wrong
// extension is reported as such even when the file is missing.
func selectPath(o *upload.Orchestrator, kind upload.Kind, path string) error {
	msg := validate.VideoFile(path)
	if kind == upload.KindSubtitle {
		msg = validate.SubtitleFile(path)
	}
	if msg != "" {
		return &upload.ValidationError{Message: msg}
	}

	f, err := storage.OpenLocal(path)
	if err != nil {
		return err
	}
	return o.SelectFile(kind, f)
}
