package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "foodexplorer",
	Short:         "Food Explorer restaurant client",
	Long:          "Sign in, build your order and pay for it from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	// Session
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(profileCmd)

	// Orders
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(checkoutCmd)

	// Admin
	rootCmd.AddCommand(adminCmd)
}
