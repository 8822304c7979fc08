package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/brightsum/brightsum/internal/api"
	"github.com/brightsum/brightsum/internal/auth"
	"github.com/brightsum/brightsum/internal/screen"
	"github.com/brightsum/brightsum/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "brightsum",
	Short: "Terminal client for the BrightSum math tutor",
	Long:  "BrightSum — practice adaptive math problems, take timed quizzes, and review your mistakes, all from the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A local .env is a dev convenience; absence is the normal case.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("api", "", "Base URL of the BrightSum API (overrides BRIGHTSUM_API_URL)")
	rootCmd.PersistentFlags().String("db", "", "Path to the local SQLite database (overrides BRIGHTSUM_DB)")
	rootCmd.PersistentFlags().String("credentials", "", "Path to the credentials file (overrides BRIGHTSUM_CREDENTIALS)")

	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveAPIBaseURL returns the API base URL from --api, then
// BRIGHTSUM_API_URL, then the default.
func resolveAPIBaseURL(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("api"); u != "" {
		return u
	}
	if u := os.Getenv("BRIGHTSUM_API_URL"); u != "" {
		return u
	}
	return api.DefaultBaseURL
}

// resolveDBPath returns the database path using --db (highest priority),
// then BRIGHTSUM_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// newCredStore builds the credentials store honoring the --credentials flag.
func newCredStore(cmd *cobra.Command) (*auth.FileStore, error) {
	path, _ := cmd.Flags().GetString("credentials")
	return auth.NewFileStore(path)
}

// buildDeps wires the shared services for TUI and one-shot commands.
// The caller closes the returned store.
func buildDeps(cmd *cobra.Command) (screen.Deps, *store.Store, error) {
	creds, err := newCredStore(cmd)
	if err != nil {
		return screen.Deps{}, nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return screen.Deps{}, nil, err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return screen.Deps{}, nil, err
	}

	// BRIGHTSUM_TOKEN bypasses the credentials file, mainly for scripting
	// against a dev server.
	var source auth.TokenSource = creds
	if t := os.Getenv("BRIGHTSUM_TOKEN"); t != "" {
		source = auth.StaticToken(t)
	}

	client := api.New(resolveAPIBaseURL(cmd), source, api.WithRecorder(st.Requests()))

	return screen.Deps{API: client, Creds: creds, Store: st}, st, nil
}
