package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/auth"
	"github.com/malindutharaka300/ucms-f/core/panel"
	"github.com/malindutharaka300/ucms-f/core/user"
)

func (cli *commandLine) loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in; the password is prompted next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				return help(cmd, nil)
			}
			pwd, err := cli.readPassword("Enter password:")
			if err != nil {
				return err
			}
			sess, err := cli.auth.Login(cmd.Context(), user.Credentials{Email: email, Password: pwd})
			if err != nil {
				cli.notifier.Notify(panel.Failure, core.Message(err, auth.LoginFailedText))
				return err
			}
			cli.notifier.Notify(panel.Success, fmt.Sprintf("Logged in as %s (%s)", sess.User.Name, sess.User.Role))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (cli *commandLine) registerCmd() *cobra.Command {
	var reg user.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account; the password is prompted next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reg.Name == "" || reg.Email == "" {
				return help(cmd, nil)
			}
			var err error
			if reg.Password, err = cli.readPassword("Enter password:"); err != nil {
				return err
			}
			if reg.PasswordConfirmation, err = cli.readPassword("Confirm password:"); err != nil {
				return err
			}
			if err := cli.auth.Register(cmd.Context(), reg); err != nil {
				cli.notifier.Notify(panel.Failure, core.Message(err, auth.RegisterFailedText))
				return err
			}
			cli.notifier.Notify(panel.Success, "Registered. You can now log in.")
			return nil
		},
	}
	cmd.Flags().StringVar(&reg.Name, "name", "", "full name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVar(&reg.Role, "role", user.RoleStudent, "one of admin, student, lecture")
	return cmd
}

func (cli *commandLine) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cli.shell.Logout(cmd.Context()); err != nil {
				return err
			}
			cli.notifier.Notify(panel.Success, "Logged out")
			return nil
		},
	}
}

func (cli *commandLine) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user and what they can open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cli.enter(cmd.Context()); err != nil {
				return err
			}
			me, _ := cli.shell.Me()
			fmt.Fprintf(cli.out, "%s <%s> (%s)\n", me.Name, me.Email, me.Role)
			for _, item := range cli.shell.NavItems() {
				fmt.Fprintf(cli.out, "  %-8s %s\n", item.Text, item.Route)
			}
			return nil
		},
	}
}
