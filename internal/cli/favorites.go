package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/capitals/internal/app"
)

func newFavoritesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage saved cities",
	}
	cmd.AddCommand(
		newFavoritesListCmd(e),
		newFavoritesAddCmd(e),
		newFavoritesDeleteCmd(e),
		newFavoritesClearCmd(e),
	)
	return cmd
}

func newFavoritesListCmd(e *env) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List favorites with the current time in each zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			favs, err := svc.Favorites(cmd.Context(), userID)
			if err != nil {
				return failure(app.OpListFavorites, err)
			}

			now := time.Now()
			if e.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), viewFavorites(favs, now))
			}
			printFavorites(cmd.OutOrStdout(), favs, now)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	return cmd
}

func newFavoritesAddCmd(e *env) *cobra.Command {
	var (
		userID         int64
		city, timezone string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a city and timezone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			id, err := svc.AddFavorite(cmd.Context(), userID, city, timezone)
			if err != nil {
				return failure(app.OpSaveFavorite, err)
			}

			if e.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"id": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s as favorite %d\n", city, id)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&city, "city", "", "city name")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone, e.g. America/Lima")
	return cmd
}

func newFavoritesDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, closeStore, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			removed, err := svc.RemoveFavorite(cmd.Context(), id)
			if err != nil {
				return failure(app.OpRemoveFavorite, err)
			}
			if !removed {
				return userError(fmt.Sprintf("favorite %d not found", id), nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted favorite %d\n", id)
			return nil
		},
	}
}

func newFavoritesClearCmd(e *env) *cobra.Command {
	var (
		userID int64
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every favorite of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return userError("refusing to delete favorites without --yes", nil)
			}
			svc, closeStore, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := svc.ClearFavorites(cmd.Context(), userID); err != nil {
				return failure(app.OpClearFavorites, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Favorites cleared")
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
