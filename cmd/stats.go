package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brightsum/brightsum/internal/api"
	"github.com/brightsum/brightsum/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show locally recorded session history",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		log := st.Attempts()
		totals, err := log.Totals(cmd.Context())
		if err != nil {
			return err
		}

		if totals.Attempts == 0 {
			fmt.Println("No sessions recorded yet. Run: brightsum learn")
			return nil
		}

		fmt.Printf("Sessions: %d   Quizzes: %d (passed %d)   Questions: %d (correct %d)\n",
			totals.Attempts, totals.QuizAttempts, totals.QuizzesPassed,
			totals.TotalQuestions, totals.TotalCorrect)

		recent, err := log.Recent(cmd.Context(), 10)
		if err != nil {
			return err
		}

		fmt.Println("\nRecent:")
		for _, rec := range recent {
			label := "practice"
			if rec.Kind == api.KindQuiz {
				label = "quiz"
				verdict := "not passed"
				if rec.Passed {
					verdict = "passed"
				}
				fmt.Printf("  %s  %-9s %-20s %d/%d (%.0f%%, %s)\n",
					rec.CreatedAt.Format("2006-01-02"), label, rec.Topic,
					rec.Score, rec.Total, rec.ScorePercent, verdict)
				continue
			}
			fmt.Printf("  %s  %-9s %-20s %d/%d correct\n",
				rec.CreatedAt.Format("2006-01-02"), label, rec.Topic, rec.Score, rec.Total)
		}
		return nil
	},
}
