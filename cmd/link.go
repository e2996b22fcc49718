package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/r2review/internal/review"
	"github.com/HaiFongPan/r2review/internal/utils"
)

var (
	linkExpires time.Duration
	linkCopy    bool
)

// linkCmd represents the link command
var linkCmd = &cobra.Command{
	Use:   "link <remote-path>",
	Short: "Print a shareable review link for an asset",
	Long: `Print a presigned review link for an asset, plus the custom-domain URL
when one is configured.

Examples:
  r2review link clips/cut.mp4               # Link valid for 24h
  r2review link clips/cut.mp4 --expires 2h  # Shorter lived link
  r2review link clips/cut.mp4 --copy        # Also copy it to the clipboard`,
	Args: cobra.ExactArgs(1),
	RunE: printLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)

	linkCmd.Flags().DurationVarP(&linkExpires, "expires", "e", utils.DefaultLinkExpiry, "how long the presigned link stays valid")
	linkCmd.Flags().BoolVar(&linkCopy, "copy", false, "copy the preferred link to the clipboard")
}

func printLink(cmd *cobra.Command, args []string) error {
	actor, err := currentActor(loadUserData())
	if err != nil {
		return err
	}
	if err := actor.Require(review.PermShare); err != nil {
		return err
	}

	client, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	key := args[0]
	exists, err := client.Exists(cmd.Context(), key)
	if err != nil {
		return fmt.Errorf("failed to check asset: %w", err)
	}
	if !exists {
		return fmt.Errorf("asset %s does not exist", key)
	}

	links, err := utils.NewLinkGenerator(client, GetConfig().GetCustomDomain(), linkExpires).Generate(cmd.Context(), key)
	if err != nil {
		return fmt.Errorf("failed to generate link: %w", err)
	}

	if links.Custom != "" {
		fmt.Printf("Custom:    %s\n", links.Custom)
	}
	fmt.Printf("Presigned: %s\n", links.Presigned)

	if linkCopy {
		if err := utils.CopyToClipboard(links.Preferred()); err != nil {
			logrus.Warnf("Failed to copy link: %v", err)
			return err
		}
		fmt.Println("Copied to clipboard.")
	}
	return nil
}
