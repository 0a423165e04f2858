package command

// root.go defines the root command of the yamdb CLI and its global flags.

import (
	"fmt"
	"io"
	"os"
	"time"

	"yamdb/cmd/cli/authentication"
	"yamdb/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	apiURL  string        // API base URL, including the version prefix
	timeout time.Duration // per command deadline
	limit   int
	offset  int
)

var (
	okColor     = color.New(color.FgGreen)
	accentColor = color.New(color.FgCyan)
)

// success prints a green confirmation line.
func success(out io.Writer, format string, a ...any) {
	okColor.Fprintf(out, "✓ "+format+"\n", a...)
}

var rootCmd = &cobra.Command{
	Use:   "yamdb",
	Short: "yamdb - command line client for the YaMDb API",
	Long: `yamdb talks to a YaMDb API server. With it a user can:
- sign up and obtain an access token from a mailed confirmation code
- browse titles, categories and genres
- read and post reviews and comments

Use "yamdb [command] --help" to see the options of a command.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("YAMDB_API", "http://localhost:8080/api/v1"), "API server URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	rootCmd.AddCommand(authCmd, titleCmd, reviewCmd, commentCmd, categoryCmd, genreCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// addPageFlags registers --limit and --offset on a list command.
func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (server default when 0)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of results to skip")
}

// newClient builds an API client, attaching the stored token when one exists.
// With required set, a missing token is an error.
func newClient(required bool) (*client.HTTPClient, error) {
	c := client.NewHTTPClient(apiURL)
	creds, err := authentication.GetToken()
	switch {
	case err == nil:
		c.SetToken(creds.AccessToken)
	case required:
		return nil, err
	}
	return c, nil
}
