package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/altoai/alto-go/api"
	"github.com/altoai/alto-go/generation"
	"github.com/altoai/alto-go/observability"
	"github.com/altoai/alto-go/observability/slogobs"
)

var flagNoStream bool

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate text from a prompt, streaming by default",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := defaultModel()
		if model == "" {
			return fmt.Errorf("no model given: use --model or set default_model in the config file")
		}
		prompt := strings.Join(args, " ")

		generationClient := generation.NewClient().
			WithAPIKey(apiKey()).
			WithBaseURL(baseURL()).
			WithWorkspace(workspaceID())

		ctx := observability.ContextWithObserver(cmd.Context(), slogobs.New(slog.Default()))
		request := generation.Request{
			Model: model,
			Input: generation.Input{Messages: []api.Message{
				{Role: "user", Content: api.TextContent(prompt)},
			}},
			Parameters: &generation.Parameters{ResultFormat: generation.ResultFormatMessage},
		}

		if flagNoStream {
			response, err := generationClient.Call(ctx, request)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), responseText(response))
			return nil
		}

		stream, err := generationClient.Stream(ctx, request)
		if err != nil {
			return err
		}

		// Snapshots are cumulative; print only the unseen suffix.
		printed := 0
		for snapshot, streamErr := range stream.Iter() {
			if streamErr != nil {
				return streamErr
			}
			text := responseText(snapshot)
			if len(text) > printed {
				fmt.Fprint(cmd.OutOrStdout(), text[printed:])
				printed = len(text)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

// responseText extracts the displayable text from either response mode.
func responseText(response *api.Response) string {
	if response == nil || response.Output == nil {
		return ""
	}
	if response.Output.Text != "" {
		return response.Output.Text
	}
	if len(response.Output.Choices) > 0 && response.Output.Choices[0].Message != nil {
		return response.Output.Choices[0].Message.Content.PlainText()
	}
	return ""
}

func init() {
	generateCmd.Flags().BoolVar(&flagNoStream, "no-stream", false, "wait for the full response instead of streaming")
	rootCmd.AddCommand(generateCmd)
}
