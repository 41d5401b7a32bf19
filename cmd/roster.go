package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ourclass/readlog/internal/auth"
)

const generatedPasswordLen = 8

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage the class roster",
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List students",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		students, err := e.svc.Students(cmd.Context())
		if err != nil {
			return err
		}
		if len(students) == 0 {
			fmt.Println("No students yet. Add one with `readlog roster add <name>`.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tAVATAR\tGOAL\tWEEKS MET")
		for _, s := range students {
			goal := "-"
			if s.Goal != nil {
				goal = fmt.Sprintf("%d %s (%s)", s.Goal.Value, s.Goal.Type, s.Goal.WeekID)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", s.ID, s.Name, s.Avatar, goal, len(s.GoalAchievedWeeks))
		}
		return w.Flush()
	},
}

var rosterAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a student; prints the password to hand out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		avatar, _ := cmd.Flags().GetString("avatar")
		password, _ := cmd.Flags().GetString("password")
		u, plain, err := e.svc.AddStudent(cmd.Context(), args[0], avatar, password)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s %s (id %s)\n", u.Avatar, u.Name, u.ID)
		if password == "" {
			fmt.Printf("Password: %s\n", plain)
		}
		return nil
	},
}

var rosterRemoveCmd = &cobra.Command{
	Use:   "remove <student>",
	Short: "Remove a student; their logs are kept",
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
		if err := e.svc.RemoveStudent(ctx, student.ID); err != nil {
			return err
		}
		fmt.Printf("Removed %s.\n", student.Name)
		return nil
	},
}

var rosterPasswdCmd = &cobra.Command{
	Use:   "passwd <student> [password]",
	Short: "Change a student's password; generates one when omitted",
	Args:  cobra.RangeArgs(1, 2),
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
		if len(args) == 2 {
			if err := e.svc.UpdateStudentPassword(ctx, student.ID, args[1]); err != nil {
				return err
			}
			fmt.Printf("Password updated for %s.\n", student.Name)
			return nil
		}
		plain, err := auth.GeneratePassword(generatedPasswordLen)
		if err != nil {
			return err
		}
		if err := e.svc.UpdateStudentPassword(ctx, student.ID, plain); err != nil {
			return err
		}
		fmt.Printf("New password for %s: %s\n", student.Name, plain)
		return nil
	},
}

func init() {
	rosterAddCmd.Flags().String("avatar", "", "Avatar emoji (default is the first in the set)")
	rosterAddCmd.Flags().StringP("password", "p", "", "Password (generated when empty)")

	rosterCmd.AddCommand(rosterListCmd)
	rosterCmd.AddCommand(rosterAddCmd)
	rosterCmd.AddCommand(rosterRemoveCmd)
	rosterCmd.AddCommand(rosterPasswdCmd)
}
