package cmd

import (
	"fmt"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

func newExtractCmd(root *rootOptions) *cobra.Command {
	var dump, validateOnly, html bool

	extractCmd := &cobra.Command{
		Use:   "extract <file|url|->",
		Short: "Extracts the map config and markers from a riverflow page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := root.loadFeed(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch {
			case validateOnly:
				_, err = fmt.Fprintf(out, "ok: %d markers on %s\n", feed.Len(), feed.Config().MountTargetID)
				return err
			case dump:
				_, err = fmt.Fprintln(out, litter.Sdump(feed.Document()))
				return err
			case html:
				return feed.Render(cmd.Context(), &markerfeed.HTMLEngine{W: out})
			}

			data, err := markerfeed.EncodeDocument(feed.Document())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		},
	}

	extractCmd.Flags().BoolVar(&dump, "dump", false, "print a Go-syntax dump instead of JSON")
	extractCmd.Flags().BoolVar(&validateOnly, "validate-only", false, "only report whether the feed is valid")
	extractCmd.Flags().BoolVar(&html, "html", false, "print the map snippet as served by the page")
	extractCmd.MarkFlagsMutuallyExclusive("dump", "validate-only", "html")
	return extractCmd
}
