package cmd

import (
	"fmt"

	"feedsync/feature/accounts"

	"github.com/spf13/cobra"
)

var newAccount accounts.CreateRequest

// accountCmd groups the account subcommands
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage reader accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer d.close()

		account, err := accounts.NewService(d.db, d.logger).Create(cmd.Context(), newAccount)
		if err != nil {
			return err
		}
		fmt.Printf("Created account #%d (%s)\n", account.ID, account.Username)
		return nil
	},
}

func init() {
	f := accountCreateCmd.Flags()
	f.StringVar(&newAccount.Username, "username", "", "Login name (required)")
	f.StringVar(&newAccount.Password, "password", "", "Password (required)")
	f.StringVar(&newAccount.FirstName, "first-name", "", "First name")
	f.StringVar(&newAccount.LastName, "last-name", "", "Last name")
	f.StringVar(&newAccount.Email, "email", "", "E-mail address")
	_ = accountCreateCmd.MarkFlagRequired("username")
	_ = accountCreateCmd.MarkFlagRequired("password")

	accountCmd.AddCommand(accountCreateCmd)
	RootCmd.AddCommand(accountCmd)
}
