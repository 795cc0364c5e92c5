package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/foodexplorer/app/api"
	"github.com/shashiranjanraj/foodexplorer/app/console"
)

var (
	loginEmail    string
	loginPassword string

	profileName   string
	profileEmail  string
	profileAvatar string
)

// foodexplorer login
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and keep the session on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		email := ask(cmd, "E-mail", loginEmail)
		password := ask(cmd, "Senha", loginPassword)
		if err := app.Session.SignIn(cmd.Context(), email, password); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Olá, %s!\n", app.Session.Identity().User.Name)
		return nil
	},
}

// foodexplorer logout
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the session (your order stays saved)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()
		return app.Session.SignOut(cmd.Context())
	},
}

// foodexplorer whoami
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who is signed in",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		out := cmd.OutOrStdout()
		id := app.Session.Identity()
		if !id.Valid() {
			fmt.Fprintln(out, "Nenhuma sessão ativa.")
			return nil
		}
		role := "cliente"
		if id.IsAdmin {
			role = "administrador"
		}
		fmt.Fprintf(out, "%s <%s> (%s)\n", id.User.Name, id.User.Email, role)
		fmt.Fprintf(out, "avatar: %s\n", console.ImageURL(app.API, id.User.Avatar))
		if order, ok := app.Session.Order(); ok {
			fmt.Fprintf(out, "itens no pedido: %d\n", len(order.Dishes))
		}
		return nil
	},
}

// foodexplorer profile
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update name, e-mail or avatar",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		id := app.Session.Identity()
		if !id.Valid() {
			fmt.Fprintln(cmd.OutOrStdout(), "Entre primeiro com: foodexplorer login")
			return nil
		}

		user := *id.User
		if profileName != "" {
			user.Name = profileName
		}
		if profileEmail != "" {
			user.Email = profileEmail
		}

		var avatar *api.Upload
		if profileAvatar != "" {
			f, err := os.Open(profileAvatar)
			if err != nil {
				return err
			}
			defer f.Close()
			avatar = &api.Upload{Filename: filepath.Base(profileAvatar), Content: f}
		}
		return app.Session.UpdateProfile(cmd.Context(), user, avatar)
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account e-mail")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when empty)")

	profileCmd.Flags().StringVar(&profileName, "name", "", "new display name")
	profileCmd.Flags().StringVar(&profileEmail, "email", "", "new e-mail")
	profileCmd.Flags().StringVar(&profileAvatar, "avatar", "", "image file to upload as avatar")
}
