package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/ecan"
	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

type rootOptions struct {
	vars     map[string]string
	timeout  time.Duration
	logLevel string
}

// NewRootCmd builds the feedcat command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "feedcat [command] [arguments]",
		Short:         "Reads riverflow map pages and prints their marker feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			log.SetLevel(level)
			log.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringToStringVar(&opts.vars, "var", nil, "page variables referenced by the map options, name=value (LinkTo defaults to the Canterbury site details)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "timeout for remote pages")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(newExtractCmd(opts), newGaugesCmd(opts))
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

// defaultVars are the page globals every riverflow page references.
func defaultVars() map[string]string {
	return map[string]string{"LinkTo": markerfeed.CanterburyLinkTo}
}

// extractOptions layers the --var values over defaultVars.
func (o *rootOptions) extractOptions() []markerfeed.ExtractOption {
	vars := defaultVars()
	for name, value := range o.vars {
		vars[name] = value
	}
	out := make([]markerfeed.ExtractOption, 0, len(vars))
	for name, value := range vars {
		out = append(out, markerfeed.WithVar(name, value))
	}
	return out
}

// loadFeed reads a feed from a URL, a file, or stdin when src is "-".
func (o *rootOptions) loadFeed(ctx context.Context, cmd *cobra.Command, src string) (*markerfeed.Feed, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		ctx, cancel := context.WithTimeout(ctx, o.timeout)
		defer cancel()
		log.WithField("url", src).Debug("fetching page")
		return ecan.FetchFeed(ctx, &http.Client{Timeout: o.timeout}, src, o.extractOptions()...)
	}

	var r io.Reader = cmd.InOrStdin()
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	log.WithField("src", src).Debug("reading page")
	return markerfeed.Extract(r, o.extractOptions()...)
}
