package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/ecan"
	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

func newGaugesCmd(root *rootOptions) *cobra.Command {
	var script string
	var withReadings bool
	var lists []string

	gaugesCmd := &cobra.Command{
		Use:   "gauges <file|url|-> [--script XXX] [--readings] [--list file|url]...",
		Short: "Lists the gauges of a riverflow page, optionally with their current readings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := root.loadFeed(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			now := time.Now()
			readings := feed.Measurements(script, now)
			if len(lists) > 0 {
				readings, err = root.loadReadings(cmd.Context(), lists, script, now)
				if err != nil {
					return err
				}
			}
			if withReadings {
				printMeasurements(cmd.OutOrStdout(), readings)
				return nil
			}
			printGauges(cmd.OutOrStdout(), markerfeed.FillUnits(feed.Gauges(script), readings))
			return nil
		},
	}

	gaugesCmd.Flags().StringVarP(&script, "script", "s", "nzcan", "script name the gauges are listed under")
	gaugesCmd.Flags().BoolVar(&withReadings, "readings", false, "print current readings instead of gauges")
	gaugesCmd.Flags().StringSliceVar(&lists, "list", nil, "regional riverflow tables to read readings from instead of the map markers")
	return gaugesCmd
}

// loadReadings reads the measurements of every riverflow table in srcs.
func (o *rootOptions) loadReadings(ctx context.Context, srcs []string, script string, now time.Time) ([]markerfeed.Measurement, error) {
	var result []markerfeed.Measurement
	for _, src := range srcs {
		list, err := o.loadList(ctx, src, script, now)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", src, err)
		}
		log.WithField("src", src).Debugf("read %d readings", len(list))
		result = append(result, list...)
	}
	return result, nil
}

func (o *rootOptions) loadList(ctx context.Context, src, script string, now time.Time) ([]markerfeed.Measurement, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		ctx, cancel := context.WithTimeout(ctx, o.timeout)
		defer cancel()
		return ecan.FetchList(ctx, &http.Client{Timeout: o.timeout}, src, script, now)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ecan.ParseList(f, script, now)
}

func printGauges(w io.Writer, gauges []markerfeed.Gauge) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Script", "Code", "Name", "Flow unit", "Level unit", "Location", "URL"})
	table.SetFooter([]string{fmt.Sprintf("%d gauges total", len(gauges)), "", "", "", "", "", ""})
	for _, g := range gauges {
		loc := ""
		if g.Location != nil {
			loc = fmt.Sprintf("%.5f %.5f", g.Location.Latitude, g.Location.Longitude)
		}
		table.Append([]string{g.Script, g.Code, g.Name, g.FlowUnit, g.LevelUnit, loc, g.URL})
	}
	table.Render()
}

func printMeasurements(w io.Writer, measurements []markerfeed.Measurement) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Script", "Code", "Timestamp", "Flow", "Level"})
	table.SetFooter([]string{fmt.Sprintf("%d measurements total", len(measurements)), "", "", "", ""})
	for _, m := range measurements {
		flow, level := "", ""
		if m.Flow != nil {
			flow = fmt.Sprintf("%.3f", *m.Flow)
		}
		if m.Level != nil {
			level = fmt.Sprintf("%.3f", *m.Level)
		}
		table.Append([]string{
			m.Script,
			m.Code,
			m.Timestamp.UTC().Format("02/01/2006 15:04 MST"),
			flow,
			level,
		})
	}
	table.Render()
}
