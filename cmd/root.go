package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chrisdamba/besteats/internal/app"
	"github.com/chrisdamba/besteats/internal/models"
)

var (
	cfgFile       string
	customerName  string
	customerEmail string
)

var rootCmd = &cobra.Command{
	Use:   "besteats",
	Short: "Order food from the Best Eats menu",
	Long: `besteats is the storefront core of the Best Eats restaurant: browse the menu, keep a cart
and favorites per profile, and send orders to the restaurant's chat line during working hours.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.besteats.yaml)")
	rootCmd.PersistentFlags().String("profile", "default", "profile whose cart and favorites are used")
	rootCmd.PersistentFlags().String("storage-backend", "file", "where profile state lives: file, memory, redis, postgres or s3")
	rootCmd.PersistentFlags().String("catalog-source", "faker", "menu source: file, faker or postgres")
	rootCmd.PersistentFlags().String("catalog-path", "", "menu file when the catalog source is file")
	rootCmd.PersistentFlags().String("opener", "browser", "how chat links are opened: browser or log")
	rootCmd.PersistentFlags().StringVar(&customerName, "customer-name", "", "name printed on outgoing orders")
	rootCmd.PersistentFlags().StringVar(&customerEmail, "customer-email", "", "email printed on outgoing orders when no name is given")

	bind("profile", "profile")
	bind("storage.backend", "storage-backend")
	bind("catalog.source", "catalog-source")
	bind("catalog.path", "catalog-path")
	bind("dispatch.opener", "opener")
}

func bind(key, flag string) {
	cobra.CheckErr(viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)))
}

// bindFlags exposes every local flag of c to viper under flagKey(prefix, name), so
// commands read their options the same way as the config (and BESTEATS_CMD_* env).
func bindFlags(prefix string, c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		cobra.CheckErr(viper.BindPFlag(flagKey(prefix, f.Name), f))
	})
}

func flagKey(prefix, name string) string {
	return "cmd." + prefix + "." + strings.ReplaceAll(name, "-", "_")
}

func loadConfig() (*models.Config, error) {
	cfg, err := models.LoadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
	return cfg, nil
}

func identity() *models.Identity {
	if customerName == "" && customerEmail == "" {
		return nil
	}
	return &models.Identity{Name: customerName, Email: customerEmail}
}

// openSession loads the configuration and opens the profile it names.
func openSession(ctx context.Context) (*app.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg, app.Options{
		Logger:   app.NewLogger(os.Stderr),
		Identity: identity(),
	})
}

// withSession runs fn against an open session and closes it afterwards.
func withSession(fn func(cmd *cobra.Command, args []string, s *app.Session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
