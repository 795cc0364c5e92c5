package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/foodexplorer/app/console"
	"github.com/shashiranjanraj/foodexplorer/app/models"
	"github.com/shashiranjanraj/foodexplorer/app/services"
	"github.com/shashiranjanraj/foodexplorer/app/views"
	"github.com/shashiranjanraj/foodexplorer/config"
	"github.com/shashiranjanraj/foodexplorer/pkg/confirm"
)

var (
	checkoutWidth  int
	checkoutYes    bool
	checkoutCard   string
	checkoutExpiry string
	checkoutCVC    string
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the order saved on this device",
}

// foodexplorer cart add <dish-id> [amount]
var cartAddCmd = &cobra.Command{
	Use:   "add <dish-id> [amount]",
	Short: "Add a dish to the order",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount := 1
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[1], err)
			}
			amount = n
		}

		app, err := bootApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		id := app.Session.Identity()
		if !id.Valid() || id.IsAdmin {
			return services.ErrNotSignedIn
		}
		order, err := app.Orders.AddDish(cmd.Context(), id.User.ID, models.ID(args[0]), amount)
		if err != nil {
			return err
		}
		app.Session.SyncOrder(order)
		fmt.Fprintf(cmd.OutOrStdout(), "%d x %s no pedido.\n", order.Amount(models.ID(args[0])), args[0])
		return nil
	},
}

// foodexplorer checkout
var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Review the order and pay",
	Long: "Opens the checkout screen. With --card, --expiry and --cvc the order is paid\n" +
		"by credit card without further input.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		app, err := bootApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		in := stdin(cmd)
		out := cmd.OutOrStdout()

		var ask confirm.Confirmer = confirm.NewTerminal(in, out)
		if checkoutYes {
			ask = confirm.Always(true)
		}
		co := app.Checkout(ask, services.OnAccepted(func() {
			fmt.Fprintln(out, "Acompanhe seu pedido em: Meus pedidos.")
		}))
		defer co.Close()

		screen := &console.Checkout{
			Service: co,
			View:    views.NewController(config.ViewBreakpoint(), checkoutWidth, app.Bus),
			API:     app.API,
			In:      in,
			Out:     out,
		}

		if checkoutCard != "" {
			return screen.Pay(ctx, services.CardForm{Number: checkoutCard, Expiry: checkoutExpiry, CVC: checkoutCVC})
		}
		return screen.Run(ctx)
	},
}

func init() {
	cartCmd.AddCommand(cartAddCmd)

	checkoutCmd.Flags().IntVar(&checkoutWidth, "width", terminalWidth(), "screen width used to lay out the panels")
	checkoutCmd.Flags().BoolVarP(&checkoutYes, "yes", "y", false, "answer yes to every confirmation")
	checkoutCmd.Flags().StringVar(&checkoutCard, "card", "", "card number")
	checkoutCmd.Flags().StringVar(&checkoutExpiry, "expiry", "", "card expiry (MMYY)")
	checkoutCmd.Flags().StringVar(&checkoutCVC, "cvc", "", "card security code")
}

// terminalWidth reads $COLUMNS, falling back to a narrow screen.
func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 80
}
