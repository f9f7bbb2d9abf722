// Command logiscore is a terminal client for the LogiScore session
// lifecycle: sign in with a password or an emailed one-time code, inspect the
// current session, refresh the token, and sign out. The session survives
// between invocations through a JSON file (or Redis) mirror, the same way a
// browser session survives a reload.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	app := &appContext{}

	cmd := &cobra.Command{
		Use:           "logiscore",
		Short:         "LogiScore session client",
		Long:          "Sign in to LogiScore, keep the session alive, and inspect it from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			app.teardown()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&app.configPath, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&app.baseURL, "base-url", "", "backend base URL override")
	pf.StringVar(&app.sessionPath, "session-file", "", "session mirror file override")
	pf.BoolVarP(&app.verbose, "verbose", "v", false, "log manager internals to stderr")

	cmd.AddCommand(
		loginCmd(app),
		codeCmd(app),
		signupCmd(app),
		whoamiCmd(app),
		refreshCmd(app),
		statusCmd(app),
		logoutCmd(app),
	)

	return cmd
}
