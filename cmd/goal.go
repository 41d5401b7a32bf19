package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ourclass/readlog/internal/readinglog"
	"github.com/ourclass/readlog/internal/week"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Set and check weekly reading goals",
}

var goalSetCmd = &cobra.Command{
	Use:   "set <student> <books|minutes> <value>",
	Short: "Set a student's goal for the current week",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid goal value %q: %w", args[2], err)
		}
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
		u, err := e.svc.SetGoal(ctx, student.ID, readinglog.GoalType(args[1]), value)
		if err != nil {
			return err
		}
		fmt.Printf("%s's goal for week %s: %d %s\n", u.Name, u.Goal.WeekID, u.Goal.Value, u.Goal.Type)
		return nil
	},
}

var goalStatusCmd = &cobra.Command{
	Use:   "status [student]",
	Short: "Show this week's goal progress for one student or the whole class",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		overview, err := e.svc.ClassOverview(ctx)
		if err != nil {
			return err
		}
		only := ""
		if len(args) == 1 {
			student, err := findStudent(ctx, e.svc, args[0])
			if err != nil {
				return err
			}
			only = student.ID
		}

		fmt.Printf("Week %s\n", week.ID(e.svc.Now()))
		for _, s := range overview.Students {
			if only != "" && s.Student.ID != only {
				continue
			}
			g := s.Goal
			if g == nil {
				fmt.Printf("  %-16s no goal this week\n", s.Student.Name)
				continue
			}
			state := ""
			switch {
			case g.Credited:
				state = "  ✓ credited"
			case g.Met:
				state = "  met"
			}
			fmt.Printf("  %-16s %d/%d %s (%.0f%%)%s\n",
				s.Student.Name, g.Current, g.Target, g.Goal.Type, g.Percent(), state)
		}
		return nil
	},
}

func init() {
	goalCmd.AddCommand(goalSetCmd)
	goalCmd.AddCommand(goalStatusCmd)
}
