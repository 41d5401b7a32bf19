package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ourclass/readlog/internal/classroom"
	"github.com/ourclass/readlog/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading statistics",
}

var statsStudentCmd = &cobra.Command{
	Use:   "student <student>",
	Short: "Show a student's points, level, streak, badges and goal",
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
		d, err := e.svc.StudentDashboard(ctx, student.ID)
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", d.Student.Avatar, d.Student.Name)
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("Points:        %d\n", d.Points)
		fmt.Printf("Level:         %d (%d/%d, %.0f%%)\n", d.Level, d.LevelPoints, progress.PointsPerLevel, d.LevelPercent)
		fmt.Printf("Streak:        %d days (best %d)\n", d.Streak, d.LongestStreak)
		fmt.Printf("Books logged:  %d\n", d.BooksLogged)
		fmt.Printf("Finished:      %d\n", d.BooksFinished)
		if rank, err := e.svc.Rank(ctx, student.ID); err == nil {
			fmt.Printf("Class rank:    #%d\n", rank.Rank)
		}

		if g := d.Goal; g != nil {
			fmt.Printf("Weekly goal:   %d/%d %s", g.Current, g.Target, g.Goal.Type)
			if g.Credited {
				fmt.Print("  ✓")
			}
			fmt.Println()
		} else {
			fmt.Println("Weekly goal:   none this week")
		}

		fmt.Println()
		fmt.Println("Badges")
		if len(d.Achievements) == 0 {
			fmt.Println("  (none yet)")
		}
		for _, a := range d.Achievements {
			fmt.Printf("  %s %-22s %s\n", a.Icon, a.Name, a.Description)
		}

		if len(d.Bookshelf) > 0 {
			fmt.Println()
			fmt.Println("Bookshelf")
			for _, b := range d.Bookshelf {
				fmt.Printf("  %s by %s (%s) %s\n", b.Title, b.Author, b.Genre, strings.Repeat("★", b.Rating))
			}
		}
		return nil
	},
}

var statsClassCmd = &cobra.Command{
	Use:   "class",
	Short: "Show class totals and the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		o, err := e.svc.ClassOverview(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Logs: %d   Books: %d   Avg rating: %.1f   Top streak: %d days\n",
			o.TotalLogs, o.DistinctBooks, o.AverageRating, o.TopStreak)
		fmt.Println()

		top, _ := cmd.Flags().GetInt("top")
		entries, err := e.svc.Leaderboard(ctx, top)
		if errors.Is(err, classroom.ErrNoLeaderboard) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No students yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tSTUDENT\tPOINTS\tLEVEL\tSTREAK")
		for _, en := range entries {
			fmt.Fprintf(w, "#%d\t%s\t%d\t%d\t%d\n", en.Rank, en.Name, en.Points, en.Level, en.Streak)
		}
		return w.Flush()
	},
}

func init() {
	statsClassCmd.Flags().IntP("top", "n", 10, "Leaderboard rows to show (0 for all)")

	statsCmd.AddCommand(statsStudentCmd)
	statsCmd.AddCommand(statsClassCmd)
}
