package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ourclass/readlog/internal/readinglog"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Add and list reading logs",
}

var logAddCmd = &cobra.Command{
	Use:   "add <student>",
	Short: "Add a reading log for a student (id or name)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		student, err := findStudent(ctx, e.svc, args[0])
		if err != nil {
			return err
		}

		f := cmd.Flags()
		title, _ := f.GetString("title")
		author, _ := f.GetString("author")
		rating, _ := f.GetInt("rating")
		format, _ := f.GetString("format")
		genre, _ := f.GetString("genre")
		finished, _ := f.GetBool("finished")
		thought, _ := f.GetString("thought")
		minutes, _ := f.GetInt("minutes")
		focus, _ := f.GetString("focus")
		analysis, _ := f.GetString("analysis")

		res, err := e.svc.AddLog(ctx, student.ID, readinglog.Draft{
			BookTitle:        title,
			Author:           author,
			Rating:           rating,
			Format:           readinglog.Format(format),
			Genre:            genre,
			FinishedBook:     finished,
			QuickThought:     thought,
			MinutesRead:      minutes,
			DeepDiveFocus:    readinglog.DeepDiveFocus(focus),
			DeepDiveAnalysis: analysis,
		})
		var verr *readinglog.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
			}
			return errors.New("log not saved")
		}
		if err != nil {
			return err
		}

		fmt.Printf("Logged %q for %s (%s)\n", res.Entry.BookTitle, student.Name, res.Entry.ReflectionType())
		fmt.Printf("Timestamp: %s\n", res.Entry.Timestamp.Format(time.RFC3339Nano))
		if res.GoalCredited {
			fmt.Println("Weekly goal complete! Bonus points earned.")
		}
		return nil
	},
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reading logs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		logs, err := e.svc.Logs(ctx)
		if err != nil {
			return err
		}
		if ref, _ := cmd.Flags().GetString("student"); ref != "" {
			student, err := findStudent(ctx, e.svc, ref)
			if err != nil {
				return err
			}
			logs = readinglog.ForStudent(logs, student.ID)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(logs) > limit {
			logs = logs[:limit]
		}

		if len(logs) == 0 {
			fmt.Println("No reading logs found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tSTUDENT\tBOOK\tRATING\tREFLECTION\tFEEDBACK")
		for _, l := range logs {
			feedback := "-"
			if l.TeacherFeedback != "" {
				feedback = truncate(l.TeacherFeedback, 30)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				l.Timestamp.Format(time.RFC3339Nano),
				l.StudentName,
				truncate(l.BookTitle, 30),
				strings.Repeat("★", l.Rating),
				l.ReflectionType(),
				feedback,
			)
		}
		return w.Flush()
	},
}

func init() {
	f := logAddCmd.Flags()
	f.StringP("title", "t", "", "Book title")
	f.StringP("author", "a", "", "Author")
	f.IntP("rating", "r", 0, "Rating from 1 to 5")
	f.String("format", string(readinglog.FormatPrint), "Format: Print, eBook, Audiobook or Comic")
	f.StringP("genre", "g", "", "Genre, one of: "+strings.Join(readinglog.Genres, ", "))
	f.Bool("finished", false, "The book was finished (requires --focus and --analysis)")
	f.String("thought", "", fmt.Sprintf("Quick thought, at least %d characters", readinglog.MinQuickThoughtLen))
	f.IntP("minutes", "m", 0, "Minutes read")
	f.String("focus", "", "Deep Dive focus, e.g. \"Theme\" or \"Character change\"")
	f.String("analysis", "", fmt.Sprintf("Deep Dive analysis, at least %d characters", readinglog.MinDeepDiveLen))

	logListCmd.Flags().StringP("student", "s", "", "Only this student's logs (id or name)")
	logListCmd.Flags().IntP("limit", "n", 0, "Show at most n logs")

	logCmd.AddCommand(logAddCmd)
	logCmd.AddCommand(logListCmd)
}
