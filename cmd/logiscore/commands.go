package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	logiscore "github.com/logiscore/logiscore-go"
	"github.com/logiscore/logiscore-go/token"
)

func loginCmd(app *appContext) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in with email and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				password, err = promptLine("Password: ")
				if err != nil {
					return err
				}
			}
			resp, err := app.manager.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			printSession(resp.User, resp.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func codeCmd(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Passwordless sign-in with an emailed one-time code",
	}

	send := &cobra.Command{
		Use:   "send <email>",
		Short: "Email a one-time sign-in code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.manager.RequestSigninCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}

	verify := &cobra.Command{
		Use:   "verify <email> <code>",
		Short: "Exchange an emailed code for a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.manager.VerifySigninCode(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printSession(resp.User, resp.AccessToken)
			return nil
		},
	}

	cmd.AddCommand(send, verify)
	return cmd
}

func signupCmd(app *appContext) *cobra.Command {
	var (
		userType string
		company  string
		fullName string
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account with an emailed one-time code",
	}

	send := &cobra.Command{
		Use:   "send <email>",
		Short: "Email a one-time sign-up code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.manager.RequestSignupCode(cmd.Context(), args[0], logiscore.UserType(userType), company)
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}

	verify := &cobra.Command{
		Use:   "verify <email> <code>",
		Short: "Exchange a sign-up code for a new account and session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.manager.VerifySignupCode(cmd.Context(), logiscore.VerifySignupRequest{
				Email:       args[0],
				Code:        args[1],
				FullName:    fullName,
				CompanyName: company,
				UserType:    logiscore.UserType(userType),
			})
			if err != nil {
				return err
			}
			printSession(resp.User, resp.AccessToken)
			return nil
		},
	}

	for _, c := range []*cobra.Command{send, verify} {
		c.Flags().StringVar(&userType, "user-type", string(logiscore.UserTypeShipper), "account type (shipper or forwarder)")
		c.Flags().StringVar(&company, "company", "", "company name")
	}
	verify.Flags().StringVar(&fullName, "name", "", "full name")

	cmd.AddCommand(send, verify)
	return cmd
}

func whoamiCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account, recovering the session if needed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.manager.CheckAuth(cmd.Context())
			snap := app.manager.Snapshot()
			if !snap.LoggedIn() {
				if snap.Err != "" {
					return errors.New(snap.Err)
				}
				return logiscore.ErrNotLoggedIn
			}
			printSession(*snap.User, snap.Token)
			return nil
		},
	}
}

func refreshCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored token for a fresh one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.manager.CheckAuth(cmd.Context())
			fresh, err := app.manager.RefreshToken(cmd.Context())
			if err != nil {
				return err
			}
			printExpiry(fresh)
			return nil
		},
	}
}

func statusCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session without any network call",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Hydrate from the mirror only; an unreachable backend still
			// reports whatever is stored.
			app.manager.CheckAuth(cmd.Context())
			snap := app.manager.Snapshot()
			if !snap.LoggedIn() {
				fmt.Println("no session")
				return nil
			}
			fmt.Printf("signed in as %s <%s>\n", snap.User.FullName, snap.User.Email)
			printExpiry(snap.Token)
			return nil
		},
	}
}

func logoutCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear the stored mirror",
		RunE: func(*cobra.Command, []string) error {
			app.manager.Logout()
			fmt.Println("signed out")
			return nil
		},
	}
}

func printSession(u logiscore.User, tok string) {
	fmt.Printf("signed in as %s <%s> (%s)\n", u.FullName, u.Email, u.UserType)
	printExpiry(tok)
}

func printExpiry(tok string) {
	exp, err := token.ExpiresAt(tok)
	if err != nil {
		fmt.Println("token expiry unknown")
		return
	}
	fmt.Printf("token expires %s (%s from now)\n",
		exp.Local().Format(time.RFC3339), time.Until(exp).Round(time.Second))
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
