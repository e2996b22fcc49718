package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/r2review/internal/config"
)

var whoamiSetName string

// whoamiCmd shows the identity used for comments
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show or set the reviewer name used for comments",
	Long: `Show the reviewer name and role used for new comments.

Examples:
  r2review whoami
  r2review whoami --set-name "Dana Ruiz"`,
	Args: cobra.NoArgs,
	RunE: whoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)

	whoamiCmd.Flags().StringVar(&whoamiSetName, "set-name", "", "store a reviewer name for new comments")
}

func whoami(cmd *cobra.Command, args []string) error {
	ud := loadUserData()

	if whoamiSetName != "" {
		if err := config.EnsureConfigDir(); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := ud.SetReviewerName(whoamiSetName); err != nil {
			return fmt.Errorf("failed to save reviewer name: %w", err)
		}
		if GetConfig().Review.Author != "" {
			fmt.Println("Note: review.author in the config file takes precedence.")
		}
	}

	actor, err := currentActor(ud)
	if err != nil {
		return err
	}

	path := cfgFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	fmt.Printf("Name:   %s\n", actor.Name)
	fmt.Printf("Role:   %s\n", actor.Role)
	fmt.Printf("Config: %s\n", path)
	return nil
}
