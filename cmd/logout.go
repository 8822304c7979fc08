package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := newCredStore(cmd)
		if err != nil {
			return err
		}
		if err := creds.Clear(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}
