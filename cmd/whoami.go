package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/brightsum/brightsum/internal/api"
	"github.com/brightsum/brightsum/internal/auth"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := newCredStore(cmd)
		if err != nil {
			return err
		}

		stored, err := creds.Load()
		if err != nil {
			if errors.Is(err, auth.ErrNoCredentials) {
				fmt.Println("Not signed in. Run: brightsum login")
				return nil
			}
			return err
		}

		if auth.Expired(stored.AccessToken, time.Now()) {
			fmt.Printf("Session for %s has expired. Run: brightsum login\n", stored.Email)
			return nil
		}

		client := api.New(resolveAPIBaseURL(cmd), creds)
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		identity, err := client.Me(ctx)
		if err != nil {
			if errors.Is(err, api.ErrUnauthenticated) {
				fmt.Printf("Stored session for %s was rejected. Run: brightsum login\n", stored.Email)
				return nil
			}
			// Offline: fall back to the local record.
			fmt.Printf("%s (signed in %s; server unreachable)\n", stored.Email, stored.SavedAt.Format("2006-01-02"))
			return nil
		}

		fmt.Printf("%s (%s)\n", identity.Email, identity.Role)
		return nil
	},
}
