package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/r2review/internal/r2"
	"github.com/HaiFongPan/r2review/internal/review"
)

var (
	listLimit int
	showSize  bool
	showDate  bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List assets with their comment counts",
	Long: `List the assets in the review bucket with optional prefix filtering.
The NOTES column shows open/total comments for each asset.

Examples:
  r2review list                 # List every asset
  r2review list clips/          # Assets under 'clips/'
  r2review list --date=false    # Hide modification dates`,
	Args: cobra.MaximumNArgs(1),
	RunE: listAssets,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 1000, "maximum number of assets to list")
	listCmd.Flags().BoolVar(&showSize, "size", true, "show asset sizes")
	listCmd.Flags().BoolVar(&showDate, "date", true, "show modification dates")
}

func listAssets(cmd *cobra.Command, args []string) error {
	var prefix string
	if len(args) > 0 {
		prefix = args[0]
	}

	client, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	logrus.Debugf("Listing assets in bucket %s with prefix %q", client.Bucket(), prefix)
	assets, err := client.ListAssets(cmd.Context(), prefix)
	if err != nil {
		return fmt.Errorf("failed to list assets: %w", err)
	}
	if listLimit > 0 && len(assets) > listLimit {
		assets = assets[:listLimit]
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := store.Counts(cmd.Context())
	if err != nil {
		return err
	}

	return outputTable(os.Stdout, assets, counts, time.Now())
}

func outputTable(out io.Writer, assets []r2.Asset, counts map[string]review.Counts, now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	// Header
	header := "KIND\tNAME"
	if showSize {
		header += "\tSIZE"
	}
	if showDate {
		header += "\tMODIFIED"
	}
	header += "\tNOTES"
	fmt.Fprintln(w, header)

	for _, a := range assets {
		line := a.Kind.Icon() + "\t" + a.Key

		if showSize {
			line += "\t" + humanize.IBytes(uint64(max(a.Size, 0)))
		}
		if showDate {
			line += "\t" + humanize.RelTime(a.LastModified, now, "ago", "from now")
		}

		line += "\t" + formatNotes(counts[a.Key])
		fmt.Fprintln(w, line)
	}

	return w.Flush()
}

func formatNotes(c review.Counts) string {
	if c.Total == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", c.Open, c.Total)
}
