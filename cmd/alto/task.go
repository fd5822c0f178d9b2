package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/altoai/alto-go/tasks"
)

var (
	flagTaskStatus   string
	flagTaskPageNo   int
	flagTaskPageSize int
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Inspect and manage asynchronous tasks",
}

func taskClient() *tasks.Client {
	taskClient := tasks.NewClient().
		WithAPIKey(apiKey()).
		WithBaseURL(baseURL()).
		WithWorkspace(workspaceID())
	if loadedConfig.PollIntervalSeconds > 0 {
		taskClient.WithPollInterval(time.Duration(loadedConfig.PollIntervalSeconds) * time.Second)
	}
	return taskClient
}

func printTask(cmd *cobra.Command, task *tasks.Task) {
	fmt.Fprintf(cmd.OutOrStdout(), "task %s: %s\n", task.Output.TaskID, task.Output.TaskStatus)
	if task.Output.Code != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  error: %s: %s\n", task.Output.Code, task.Output.Message)
	}
}

var taskFetchCmd = &cobra.Command{
	Use:   "fetch <task-id>",
	Short: "Show the current state of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := taskClient().Fetch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printTask(cmd, task)
		fmt.Fprintln(cmd.OutOrStdout(), string(task.Output.Raw))
		return nil
	},
}

var taskWaitCmd = &cobra.Command{
	Use:   "wait <task-id>",
	Short: "Block until a task finishes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := taskClient().Wait(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printTask(cmd, task)
		fmt.Fprintln(cmd.OutOrStdout(), string(task.Output.Raw))
		return nil
	},
}

var taskCancelCmd = &cobra.Command{
	Use:   "cancel <task-id>",
	Short: "Cancel a pending task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := taskClient().Cancel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printTask(cmd, task)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := taskClient().ListTasks(cmd.Context(), tasks.ListParams{
			Status:   tasks.Status(flagTaskStatus),
			PageNo:   flagTaskPageNo,
			PageSize: flagTaskPageSize,
		})
		if err != nil {
			return err
		}
		for _, entry := range page.Data {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
				entry.TaskID, entry.TaskStatus, entry.Model, entry.GmtCreate)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d entries, %d total\n",
			page.PageNo, len(page.Data), page.Total)
		return nil
	},
}

func init() {
	taskListCmd.Flags().StringVar(&flagTaskStatus, "status", "", "filter by task status (PENDING, RUNNING, SUCCEEDED, FAILED, CANCELED)")
	taskListCmd.Flags().IntVar(&flagTaskPageNo, "page", 1, "page number")
	taskListCmd.Flags().IntVar(&flagTaskPageSize, "page-size", 10, "entries per page")

	taskCmd.AddCommand(taskFetchCmd, taskWaitCmd, taskCancelCmd, taskListCmd)
	rootCmd.AddCommand(taskCmd)
}
