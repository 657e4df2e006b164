package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/besteats/internal/app"
	"github.com/chrisdamba/besteats/internal/models"
)

var favCmd = &cobra.Command{
	Use:     "fav",
	Aliases: []string{"favorites"},
	Short:   "Manage favorite items and lists",
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show favorites, optionally from one list",
	Args:  cobra.NoArgs,
	RunE: withSession(func(cmd *cobra.Command, _ []string, s *app.Session) error {
		list := viper.GetString(flagKey("fav_list", "list"))
		query := viper.GetString(flagKey("fav_list", "search"))
		printItems(cmd.OutOrStdout(), s.Favorites.Filter(list, query))
		return nil
	}),
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle <item-id>",
	Short: "Add an item to favorites, or remove it if it is already there",
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
		added, err := s.Favorites.ToggleFavorite(cmd.Context(), item)
		if err != nil {
			return err
		}
		if added {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now a favorite\n", item.Name)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s removed from favorites\n", item.Name)
		}
		return nil
	}),
}

var favClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every favorite, keeping the lists",
	Args:  cobra.NoArgs,
	RunE: withSession(func(cmd *cobra.Command, _ []string, s *app.Session) error {
		return s.Favorites.ClearFavorites(cmd.Context())
	}),
}

var favListsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show the favorite lists",
	Args:  cobra.NoArgs,
	RunE: withSession(func(cmd *cobra.Command, _ []string, s *app.Session) error {
		for _, name := range s.Favorites.Lists() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}),
}

var favNewListCmd = &cobra.Command{
	Use:   "new-list <name>",
	Short: "Create a favorite list",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *app.Session) error {
		created, err := s.Favorites.CreateList(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !created {
			return fmt.Errorf("list %q is blank or already exists", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created list %q\n", args[0])
		return nil
	}),
}

var favAssignCmd = &cobra.Command{
	Use:   "assign <item-id> <list>",
	Short: "Put a favorite item into a list",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *app.Session) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return s.Favorites.AssignToList(cmd.Context(), id, args[1])
	}),
}

func init() {
	favListCmd.Flags().String("list", models.AllFavoritesList, "list to show")
	favListCmd.Flags().StringP("search", "s", "", "match item names")
	bindFlags("fav_list", favListCmd)

	favCmd.AddCommand(favListCmd, favToggleCmd, favClearCmd, favListsCmd, favNewListCmd, favAssignCmd)
	rootCmd.AddCommand(favCmd)
}
