package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ourclass/readlog/internal/classroom"
	"github.com/ourclass/readlog/internal/readinglog"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Leave teacher feedback on a log",
}

var feedbackSetCmd = &cobra.Command{
	Use:   "set <timestamp> <text>",
	Short: "Set the feedback on the log with the given timestamp",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := parseTimestamp(args[0])
		if err != nil {
			return err
		}
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		entry, err := e.svc.UpdateFeedback(cmd.Context(), ts, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("Feedback saved on %s's log of %q.\n", entry.StudentName, entry.BookTitle)
		return nil
	},
}

var feedbackSuggestCmd = &cobra.Command{
	Use:   "suggest <timestamp>",
	Short: "Draft feedback for a log with the AI coach",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := parseTimestamp(args[0])
		if err != nil {
			return err
		}
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		entry, err := findEntry(ctx, e.svc, ts)
		if err != nil {
			return err
		}
		text, err := e.coach(ctx).SuggestFeedback(ctx, entry)
		fmt.Println(text)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning:", err)
			return nil
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			if _, err := e.svc.UpdateFeedback(ctx, ts, text); err != nil {
				return err
			}
			fmt.Println("Saved.")
		}
		return nil
	},
}

// parseTimestamp accepts the RFC 3339 timestamps printed by `log list`.
func parseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q (copy it from `readlog log list`): %w", s, err)
	}
	return ts, nil
}

func findEntry(ctx context.Context, svc *classroom.Service, ts time.Time) (readinglog.LogEntry, error) {
	logs, err := svc.Logs(ctx)
	if err != nil {
		return readinglog.LogEntry{}, err
	}
	entry, ok := readinglog.Find(logs, ts)
	if !ok {
		return readinglog.LogEntry{}, fmt.Errorf("%w: %s", readinglog.ErrEntryNotFound, ts.Format(time.RFC3339Nano))
	}
	return entry, nil
}

func init() {
	feedbackSuggestCmd.Flags().Bool("save", false, "Store the suggestion as the log's feedback")

	feedbackCmd.AddCommand(feedbackSetCmd)
	feedbackCmd.AddCommand(feedbackSuggestCmd)
}
