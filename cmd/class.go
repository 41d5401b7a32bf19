package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var classCmd = &cobra.Command{
	Use:   "class",
	Short: "Class settings",
}

var classCodeCmd = &cobra.Command{
	Use:   "code [new-code]",
	Short: "Show or change the code students enter to sign in",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if len(args) == 0 {
			cs, err := e.svc.ClassSettings(ctx)
			if err != nil {
				return err
			}
			fmt.Println(cs.ClassCode)
			return nil
		}
		cs, err := e.svc.UpdateClassCode(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Class code is now %s\n", cs.ClassCode)
		return nil
	},
}

func init() {
	classCmd.AddCommand(classCodeCmd)
}
