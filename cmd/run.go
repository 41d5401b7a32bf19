package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ourclass/readlog/internal/app"
	"github.com/ourclass/readlog/internal/auth"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	teacher, err := auth.NewCredential(e.cfg.TeacherPassword)
	if err != nil {
		return fmt.Errorf("teacher credential: %w", err)
	}
	skip, _ := cmd.Flags().GetBool("no-splash")

	return app.Run(app.Options{
		Service:    e.svc,
		Teacher:    teacher,
		Coach:      e.coach(cmd.Context()),
		Logger:     e.log,
		SkipSplash: skip,
	})
}
