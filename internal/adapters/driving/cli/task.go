package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driving"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage follow-up tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [app-id] [title]",
	Short: "Add a task to an application",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list [app-id]",
	Short: "List tasks, optionally for one application",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTaskList,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task done, or reopen a done task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

var taskDue string

func init() {
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date, e.g. 2024-03-01")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	rootCmd.AddCommand(taskCmd)
}

func requireTasks() error {
	if tracker == nil || tasks == nil {
		return errors.New("task service not configured")
	}
	return nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	if err := requireTasks(); err != nil {
		return err
	}
	due, err := optionalDate(taskDue)
	if err != nil {
		return err
	}

	task, err := tracker.AddTask(cmd.Context(), driving.TaskInput{
		ApplicationID:  args[0],
		Title:          args[1],
		DueDateEpochMs: due,
	})
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	cmd.Printf("Added task %s\n", task.ID)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	if err := requireTasks(); err != nil {
		return err
	}

	observe := tasks.ObserveAll
	if len(args) == 1 {
		observe = func(ctx context.Context) (<-chan []domain.Task, error) {
			return tasks.ObserveByApplication(ctx, args[0])
		}
	}
	list, err := firstValue(cmd.Context(), observe)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(list) == 0 {
		cmd.Println("No tasks found.")
		return nil
	}
	printTasks(cmd, list, "")
	return nil
}

func printTasks(cmd *cobra.Command, list []domain.Task, indent string) {
	for i := range list {
		t := &list[i]
		box := "[ ]"
		if t.IsDone {
			box = styleSuccess.Render("[x]")
		}
		due := ""
		if t.DueDateEpochMs != nil {
			due = "  due " + formatDate(*t.DueDateEpochMs)
		}
		cmd.Printf("%s%s %s%s  %s\n", indent, box, t.Title, due, styleMuted.Render(t.ID))
	}
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	if err := requireTasks(); err != nil {
		return err
	}
	task, err := tracker.ToggleTaskDone(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if task.IsDone {
		cmd.Printf("Completed: %s\n", task.Title)
	} else {
		cmd.Printf("Reopened: %s\n", task.Title)
	}
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	if err := requireTasks(); err != nil {
		return err
	}
	if err := tracker.DeleteTask(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	cmd.Printf("Deleted task %s\n", args[0])
	return nil
}
