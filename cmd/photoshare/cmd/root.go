// Package cmd implements the photoshare command-line client.
package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/templui/photoshare/internal/client"
	"github.com/templui/photoshare/internal/logger"
)

type cli struct {
	in  *bufio.Reader
	out io.Writer

	serverURL string
	tokenFile string
	ipGeoURL  string
	verbose   bool

	api *client.Client
}

// Execute runs the client against the real terminal.
func Execute() error {
	_ = godotenv.Load()
	return NewRootCmd(os.Stdin, os.Stdout).ExecuteContext(context.Background())
}

func NewRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	c := &cli{
		in:  bufio.NewReader(in),
		out: out,
	}

	root := &cobra.Command{
		Use:          "photoshare",
		Short:        "Command-line client for the photoshare API",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logger.New(cmd.ErrOrStderr(), c.verbose))
			c.api = client.New(c.serverURL)
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.serverURL, "url", envOr("PHOTOSHARE_URL", client.DefaultURL), "API base URL")
	flags.StringVar(&c.tokenFile, "token-file", envOr("PHOTOSHARE_TOKEN_FILE", client.DefaultTokenPath()), "where the session token is stored")
	flags.StringVar(&c.ipGeoURL, "ip-geo-url", envOr("IP_GEO_URL", ""), "IP geolocation endpoint used when a photo has no GPS data")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.profileCmd(),
		c.uploadCmd(),
		c.imagesCmd(),
		c.albumsCmd(),
		c.downloadCmd(),
	)
	return root
}

// authenticated loads the saved session token into the API client.
func (c *cli) authenticated() error {
	token, err := client.LoadToken(c.tokenFile)
	if err != nil {
		return err
	}
	c.api.SetToken(token)
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
