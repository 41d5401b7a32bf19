package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "readlog",
	Short: "Classroom reading log",
	Long: "readlog — a terminal reading journal for a class: students log books and reflections, " +
		"earn points and badges, and the teacher sets weekly goals and leaves feedback.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides READLOG_DB env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(classCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(coachCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
