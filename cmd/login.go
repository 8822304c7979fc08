package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/brightsum/brightsum/internal/api"
	"github.com/brightsum/brightsum/internal/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in and store the session token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := newCredStore(cmd)
		if err != nil {
			return err
		}
		client := api.New(resolveAPIBaseURL(cmd), creds)

		var email string
		if len(args) == 1 {
			email = args[0]
		} else {
			fmt.Print("Email: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read email: %w", err)
			}
			email = strings.TrimSpace(line)
		}
		if email == "" {
			return errors.New("email is required")
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		resp, err := client.Login(ctx, email, string(password))
		if err != nil {
			var status *api.StatusError
			if errors.As(err, &status) && status.Code == 401 {
				return errors.New("wrong email or password")
			}
			return err
		}

		if err := creds.Save(auth.Credentials{AccessToken: resp.AccessToken, Email: email}); err != nil {
			return err
		}

		fmt.Println("Signed in as", email)
		return nil
	},
}
