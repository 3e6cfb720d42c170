package main

import (
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/podcast-digest/internal/pipeline"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <video-url>",
		Short: "Process one video URL",
		Long: `Downloads the audio of one video, transcribes it, summarizes the transcript
and writes <title>_summary.txt locally and to the configured blob container.

A failed summary or upload is logged and does not fail the command; a failed
download or transcription does.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = a.pipeline.Run(ctx, pipeline.Request{SourceURL: args[0]})
			return err
		},
	}
}
