package main

import (
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/foodexplorer/app/api"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Restaurant administration",
}

// foodexplorer admin register
var adminRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create the restaurant's administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		form := api.AdminForm{
			Name:     ask(cmd, "Seu nome", adminName),
			Email:    ask(cmd, "Email", adminEmail),
			Password: ask(cmd, "Senha", adminPassword),
		}
		return app.Register.RegisterAdmin(cmd.Context(), form)
	},
}

func init() {
	adminCmd.AddCommand(adminRegisterCmd)

	adminRegisterCmd.Flags().StringVar(&adminName, "name", "", "administrator name")
	adminRegisterCmd.Flags().StringVar(&adminEmail, "email", "", "administrator e-mail")
	adminRegisterCmd.Flags().StringVar(&adminPassword, "password", "", "administrator password")
}
