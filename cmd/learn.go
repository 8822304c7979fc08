package cmd

import (
	"github.com/spf13/cobra"

	"github.com/brightsum/brightsum/internal/app"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Start an interactive learning session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd)
	},
}

func runLearn(cmd *cobra.Command) error {
	deps, st, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	return app.Run(deps)
}
