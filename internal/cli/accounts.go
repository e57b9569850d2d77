package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/capitals/internal/app"
	"github.com/mesh-intelligence/capitals/pkg/types"
)

func newRegisterCmd(e *env) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			user, err := svc.Register(cmd.Context(), name, email, password)
			if err != nil {
				return failure(app.OpRegister, err)
			}

			if e.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), viewUser(*user))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (id %d)\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (at least 6 characters)")
	return cmd
}

func newLoginCmd(e *env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials and print the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			user, err := svc.Login(cmd.Context(), email, password)
			if err != nil {
				return failure(app.OpLogin, err)
			}

			if e.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), viewUser(*user))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", user.Name)
			printUsers(cmd.OutOrStdout(), []types.User{*user})
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func newUsersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}
	cmd.AddCommand(newUsersListCmd(e), newUsersUpdateCmd(e), newUsersClearCmd(e))
	return cmd
}

func newUsersListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			users, err := svc.Users(cmd.Context())
			if err != nil {
				return failure(app.OpListUsers, err)
			}

			if e.flags.jsonMode {
				views := make([]userView, len(users))
				for i, u := range users {
					views[i] = viewUser(u)
				}
				return printJSON(cmd.OutOrStdout(), views)
			}
			printUsers(cmd.OutOrStdout(), users)
			return nil
		},
	}
}

func newUsersUpdateCmd(e *env) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a user's name, email or password",
		Long:  "Update changes only the fields given as flags. Empty values are ignored.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var upd types.UserUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &name
			}
			if cmd.Flags().Changed("email") {
				upd.Email = &email
			}
			if cmd.Flags().Changed("password") {
				upd.Password = &password
			}

			svc, closeStore, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			changed, err := svc.UpdateProfile(cmd.Context(), id, upd)
			if err != nil {
				return failure(app.OpUpdateProfile, err)
			}

			if e.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]bool{"updated": changed})
			}
			if changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated user %d\n", id)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to update")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	return cmd
}

func newUsersClearCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every user and every favorite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return userError("refusing to delete all users without --yes", nil)
			}
			svc, closeStore, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := svc.ClearUsers(cmd.Context()); err != nil {
				return failure(app.OpClearUsers, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All users deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func newAccountCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your account",
	}
	cmd.AddCommand(newAccountDeleteCmd(e))
	return cmd
}

func newAccountDeleteCmd(e *env) *cobra.Command {
	var (
		userID int64
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an account and its favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return userError("refusing to delete the account without --yes", nil)
			}
			svc, closeStore, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := svc.DeleteAccount(cmd.Context(), userID); err != nil {
				return failure(app.OpDeleteAccount, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %d deleted\n", userID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
