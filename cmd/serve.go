package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/besteats/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the storefront API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		api := server.New(server.Deps{
			Catalog:   s.Catalog,
			Cart:      s.Cart,
			Favorites: s.Favorites,
			Checkout:  s.Checkout,
			Contact:   s.Contact,
			Gate:      s.Gate,
			Popup:     s.Popup,
			Locator:   s.Locator,
			Notes:     s.Notes,
		}, s.Logger)

		srv := &http.Server{
			Addr:              s.Config.Server.Addr,
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			s.Logger.Printf("Serving profile %q on %s", s.Config.Profile, srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		s.Logger.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.Logger.Printf("Server shutdown error: %v", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	cobra.CheckErr(viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")))
	rootCmd.AddCommand(serveCmd)
}
