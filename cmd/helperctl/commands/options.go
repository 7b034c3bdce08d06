package commands

import (
	"os"
	"time"

	"github.com/benvon/homework-helper/internal/client"
	"github.com/spf13/cobra"
)

// DefaultServerURL is used when neither --server nor HELPER_SERVER_URL is set
const DefaultServerURL = "http://localhost:8080"

// Options are the flags shared by every command
type Options struct {
	Server  string
	Timeout time.Duration
}

// BindFlags registers the shared flags on the root command
func (o *Options) BindFlags(cmd *cobra.Command) {
	server := os.Getenv("HELPER_SERVER_URL")
	if server == "" {
		server = DefaultServerURL
	}
	cmd.PersistentFlags().StringVar(&o.Server, "server", server, "Server base URL (env HELPER_SERVER_URL)")
	cmd.PersistentFlags().DurationVar(&o.Timeout, "timeout", client.DefaultTimeout, "Request timeout")
}

// Client builds an API client from the options
func (o *Options) Client() *client.Client {
	return client.New(o.Server, o.Timeout)
}
