package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/besteats/internal/app"
	"github.com/chrisdamba/besteats/internal/availability"
	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/order"
)

const locationWait = 5 * time.Second

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Send the cart to the restaurant",
	Long: `order assembles the cart into a chat message and hands it to the configured dispatch
channel. Online payments need the transfer reference, passed with --reference.`,
	Args: cobra.NoArgs,
	RunE: withSession(func(cmd *cobra.Command, _ []string, s *app.Session) error {
		reference := viper.GetString(flagKey("order", "reference"))
		shareLocation := viper.GetBool(flagKey("order", "share-location"))
		ack := viper.GetBool(flagKey("order", "ack"))

		delivery, err := models.ParseDeliveryMethod(viper.GetString(flagKey("order", "delivery")))
		if err != nil {
			return err
		}
		payment, err := models.ParsePaymentMethod(viper.GetString(flagKey("order", "payment")))
		if err != nil {
			return err
		}
		if payment == models.PaymentMethodOnline && strings.TrimSpace(reference) == "" {
			return fmt.Errorf("--reference is required for online payment (pay to %s first)", s.Config.Payment.QRValue)
		}

		ctx := cmd.Context()
		if shareLocation {
			resolved := make(chan string, 1)
			s.Locator.Share(func(link string) { resolved <- link })
			select {
			case <-resolved:
			case <-time.After(locationWait):
				s.Logger.Printf("Location not resolved within %s, sending without it", locationWait)
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		res, err := s.Checkout.Submit(ctx, order.Request{
			Delivery:      delivery,
			Payment:       payment,
			ShareLocation: shareLocation,
		})
		if err != nil {
			return err
		}
		if res.State == order.StateAwaitingReference {
			if res, err = s.Checkout.ConfirmReference(ctx, reference); err != nil {
				return err
			}
		}
		msg := res.Message
		if res.State == order.StateAwaitingAcknowledgement && ack {
			if res, err = s.Checkout.Acknowledge(ctx); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, msg)
		fmt.Fprintln(out)
		switch {
		case res.DispatchErr != nil:
			fmt.Fprintf(out, "The order could not be handed to the chat app: %v\n", res.DispatchErr)
		case res.State == order.StateAwaitingAcknowledgement:
			fmt.Fprintln(out, "Order sent. The cart is kept until you confirm it was delivered (rerun with --ack).")
		case res.Order != nil:
			fmt.Fprintf(out, "Order %s sent.\n", res.Order.Reference)
		}
		return nil
	}),
}

var contactCmd = &cobra.Command{
	Use:   "contact <surface>",
	Short: "Open the chat with a preset greeting",
	Long: "contact opens the restaurant chat with the text of one of the contact buttons: " +
		joinSurfaces() + ".",
	Args: cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *app.Session) error {
		return s.Contact.Contact(cmd.Context(), order.Surface(args[0]))
	}),
}

var quickOrderCmd = &cobra.Command{
	Use:   "quick-order <item-id>",
	Short: "Order a single item straight from its details, bypassing the cart",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *app.Session) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		item, err := s.Catalog.Get(id)
		if err != nil {
			return err
		}
		return s.Contact.OrderItem(cmd.Context(), item, viper.GetInt(flagKey("quick_order", "qty")))
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Tell whether orders are accepted right now",
	Args:  cobra.NoArgs,
	RunE: withSession(func(cmd *cobra.Command, _ []string, s *app.Session) error {
		hours := s.Gate.Hours()
		if s.Gate.Status() == availability.Open {
			fmt.Fprintf(cmd.OutOrStdout(), "Open (%s)\n", hours)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), availability.ClosedMessage(hours))
		return nil
	}),
}

func joinSurfaces() string {
	var names []string
	for _, s := range order.Surfaces() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func init() {
	orderCmd.Flags().String("delivery", "delivery", "delivery or pickup")
	orderCmd.Flags().String("payment", "cash", "cash or online")
	orderCmd.Flags().String("reference", "", "transfer reference for online payment")
	orderCmd.Flags().Bool("share-location", false, "attach a map link to the order")
	orderCmd.Flags().Bool("ack", false, "confirm delivery right away when the channel asks for it")

	quickOrderCmd.Flags().IntP("qty", "q", 1, "quantity to order")

	bindFlags("order", orderCmd)
	bindFlags("quick_order", quickOrderCmd)

	rootCmd.AddCommand(orderCmd, contactCmd, quickOrderCmd, statusCmd)
}
