package cmd

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ourclass/readlog/internal/readinglog"
)

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "AI reading coach",
}

var coachStudentCmd = &cobra.Command{
	Use:   "student <student>",
	Short: "Summarize a student's reading and suggest new books",
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
		logs, err := e.svc.Logs(ctx)
		if err != nil {
			return err
		}
		text, err := e.coach(ctx).AnalyzeStudent(ctx, readinglog.ForStudent(logs, student.ID))
		fmt.Println(text)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}
		return nil
	},
}

var coachClassCmd = &cobra.Command{
	Use:   "class",
	Short: "Find patterns in the whole class's reading",
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
		text, err := e.coach(ctx).AnalyzeClass(ctx, logs)
		fmt.Println(text)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}
		return nil
	},
}

var coachRecommendCmd = &cobra.Command{
	Use:   "recommend <student>",
	Short: "Recommend books the student has not read yet",
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
		logs, err := e.svc.Logs(ctx)
		if err != nil {
			return err
		}
		n, _ := cmd.Flags().GetInt("count")
		recs, err := e.coach(ctx).RecommendBooks(ctx, readinglog.ForStudent(logs, student.ID), n)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("No new recommendations this time.")
			return nil
		}
		for i, r := range recs {
			stretch := ""
			if r.Stretch {
				stretch = "  (stretch)"
			}
			fmt.Printf("%d. %s by %s [%s]%s\n   %s\n", i+1, r.Title, r.Author, r.Genre, stretch, r.Reason)
		}
		return nil
	},
}

var coachCoverCmd = &cobra.Command{
	Use:   "cover <title> <author>",
	Short: "Draw a book cover and save it as an image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		img, err := e.coach(ctx).CoverImage(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = coverFileName(args[0], img.MIMEType)
		}
		if err := os.WriteFile(out, img.Data, 0o644); err != nil {
			return fmt.Errorf("write cover: %w", err)
		}
		fmt.Printf("Saved cover to %s (%d bytes, %s)\n", out, len(img.Data), img.Model)
		return nil
	},
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

// coverFileName turns a title into a file name like "the-wild-robot.jpg".
func coverFileName(title, mimeType string) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if base == "" {
		base = "cover"
	}
	ext := ".jpg"
	if mimeType == "image/png" {
		ext = ".png"
	}
	return base + ext
}

func init() {
	coachRecommendCmd.Flags().IntP("count", "n", 3, "Number of recommendations")
	coachCoverCmd.Flags().StringP("output", "o", "", "Output file (default derived from the title)")

	coachCmd.AddCommand(coachStudentCmd)
	coachCmd.AddCommand(coachClassCmd)
	coachCmd.AddCommand(coachRecommendCmd)
	coachCmd.AddCommand(coachCoverCmd)
}
