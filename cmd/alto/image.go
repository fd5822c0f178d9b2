package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/altoai/alto-go/imagesynthesis"
)

var (
	flagImageSize  string
	flagImageCount int
	flagImageAsync bool
)

var imageCmd = &cobra.Command{
	Use:   "image [prompt]",
	Short: "Generate images from a text prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := defaultModel()
		if model == "" {
			return fmt.Errorf("no model given: use --model or set default_model in the config file")
		}

		imageClient := imagesynthesis.NewClient().
			WithAPIKey(apiKey()).
			WithBaseURL(baseURL()).
			WithWorkspace(workspaceID())

		request := imagesynthesis.Request{
			Model:      model,
			Input:      imagesynthesis.Input{Prompt: strings.Join(args, " ")},
			Parameters: &imagesynthesis.Parameters{Size: flagImageSize, N: flagImageCount},
		}

		if flagImageAsync {
			task, err := imageClient.AsyncCall(cmd.Context(), request)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "submitted task %s\n", task.Output.TaskID)
			return nil
		}

		task, err := imageClient.Call(cmd.Context(), request)
		if err != nil {
			return err
		}
		result, err := imagesynthesis.ResultOf(task)
		if err != nil {
			return err
		}
		for _, entry := range result.Results {
			if entry.Code != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "failed: %s: %s\n", entry.Code, entry.Message)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), entry.URL)
		}
		return nil
	},
}

func init() {
	imageCmd.Flags().StringVar(&flagImageSize, "size", "1024*1024", "output resolution")
	imageCmd.Flags().IntVarP(&flagImageCount, "count", "n", 1, "number of images")
	imageCmd.Flags().BoolVar(&flagImageAsync, "async", false, "submit and exit without waiting")
	rootCmd.AddCommand(imageCmd)
}
