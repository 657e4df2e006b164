package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/besteats/internal/app"
	"github.com/chrisdamba/besteats/internal/cart"
	"github.com/chrisdamba/besteats/internal/models"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and change the profile's cart",
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the cart and its total",
	Args:  cobra.NoArgs,
	RunE: withSession(func(cmd *cobra.Command, _ []string, s *app.Session) error {
		printCart(cmd.OutOrStdout(), s.Cart)
		return nil
	}),
}

var cartAddCmd = &cobra.Command{
	Use:   "add <item-id>",
	Short: "Add a menu item to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *app.Session) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		qty := viper.GetInt(flagKey("cart_add", "qty"))
		item, err := s.Catalog.Get(id)
		if err != nil {
			return err
		}
		line, err := s.Cart.AddToCart(cmd.Context(), item, qty)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (qty %d)\n", line.Item.Name, line.Qty)
		return nil
	}),
}

var cartIncCmd = &cobra.Command{
	Use:   "inc <item-id>",
	Short: "Increase the quantity of a cart line by one",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *app.Session) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		line, err := s.Cart.IncreaseQty(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: qty %d\n", line.Item.Name, line.Qty)
		return nil
	}),
}

var cartDecCmd = &cobra.Command{
	Use:   "dec <item-id>",
	Short: "Decrease the quantity of a cart line by one, never below one",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *app.Session) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		line, err := s.Cart.DecreaseQty(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: qty %d\n", line.Item.Name, line.Qty)
		return nil
	}),
}

var cartRemoveCmd = &cobra.Command{
	Use:     "rm <item-id>",
	Aliases: []string{"remove"},
	Short:   "Remove a line from the cart",
	Args:    cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *app.Session) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := s.Cart.RemoveFromCart(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Removed")
		return nil
	}),
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: withSession(func(cmd *cobra.Command, _ []string, s *app.Session) error {
		return s.Cart.Clear(cmd.Context())
	}),
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", raw)
	}
	return id, nil
}

func printCart(w io.Writer, c *cart.Store) {
	lines := c.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}
	for _, l := range lines {
		fmt.Fprintf(w, "%4d  %-32s x%-3d %8s\n", l.Item.ID, l.Item.Name, l.Qty, models.FormatPrice(l.Subtotal()))
	}
	fmt.Fprintf(w, "Total: %s\n", models.FormatPrice(c.Total()))
}

func init() {
	cartAddCmd.Flags().IntP("qty", "q", 1, "quantity to add")
	bindFlags("cart_add", cartAddCmd)

	cartCmd.AddCommand(cartListCmd, cartAddCmd, cartIncCmd, cartDecCmd, cartRemoveCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}
