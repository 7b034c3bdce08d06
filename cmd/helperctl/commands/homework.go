package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/benvon/homework-helper/internal/client"
	"github.com/benvon/homework-helper/internal/models"
	"github.com/spf13/cobra"
)

// NewHomeworkCmd creates the homework command with list, add, toggle, delete and stats subcommands
func NewHomeworkCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "homework",
		Short: "Manage the homework list",
	}
	cmd.AddCommand(newHomeworkListCmd(opts))
	cmd.AddCommand(newHomeworkAddCmd(opts))
	cmd.AddCommand(newHomeworkToggleCmd(opts))
	cmd.AddCommand(newHomeworkDeleteCmd(opts))
	cmd.AddCommand(newHomeworkStatsCmd(opts))
	return cmd
}

func newHomeworkListCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List homework items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.Client().ListHomework(cmd.Context())
			if err != nil {
				return fmt.Errorf("list homework: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No homework yet")
				return nil
			}
			for _, item := range items {
				printItem(out, item)
			}
			return nil
		},
	}
}

func newHomeworkAddCmd(opts *Options) *cobra.Command {
	var due, category string
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a homework item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("text is required")
			}
			item, err := opts.Client().AddHomework(cmd.Context(), client.AddHomeworkRequest{
				Text:     text,
				DueDate:  due,
				Category: category,
			})
			if err != nil {
				return fmt.Errorf("add homework: %w", err)
			}
			printItem(cmd.OutOrStdout(), item)
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "Category label")
	return cmd
}

func newHomeworkToggleCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a homework item done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			item, err := opts.Client().ToggleHomework(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("toggle homework: %w", err)
			}
			printItem(cmd.OutOrStdout(), item)
			return nil
		},
	}
}

func newHomeworkDeleteCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a homework item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := opts.Client().DeleteHomework(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete homework: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d\n", id)
			return nil
		},
	}
}

func newHomeworkStatsCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show pending and completed counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := opts.Client().Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("homework stats: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pending: %d\nCompleted: %d\n", stats.Pending, stats.Completed)
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func printItem(w io.Writer, item models.HomeworkItem) {
	mark := "[ ]"
	if item.Completed {
		mark = "[x]"
	}
	line := fmt.Sprintf("%d %s %s", item.ID, mark, item.Text)
	if item.Category != "" {
		line += " #" + item.Category
	}
	if item.DueDate != "" {
		line += " (due " + item.DueDate + ")"
	}
	fmt.Fprintln(w, line)
}
