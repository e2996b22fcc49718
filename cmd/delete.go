package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/r2review/internal/r2"
	"github.com/HaiFongPan/r2review/internal/review"
)

var (
	deleteForce     bool
	deleteRecursive bool
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <remote-path>",
	Short: "Delete an asset and its comment thread",
	Long: `Delete an asset from the review bucket together with its comments.

Examples:
  r2review delete clips/old-cut.mp4          # Delete a single asset
  r2review delete clips/drafts/ --recursive  # Delete all assets with prefix
  r2review delete clips/old-cut.mp4 --force  # Delete without confirmation`,
	Args: cobra.ExactArgs(1),
	RunE: deleteAsset,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "force delete without confirmation")
	deleteCmd.Flags().BoolVarP(&deleteRecursive, "recursive", "r", false, "delete all assets with prefix (use with caution)")
}

// assetDeleter is the storage side of a delete.
type assetDeleter interface {
	ListAssets(ctx context.Context, prefix string) ([]r2.Asset, error)
	Exists(ctx context.Context, key string) (bool, error)
	DeleteAsset(ctx context.Context, key string) error
}

// threadDeleter drops the comments of deleted assets.
type threadDeleter interface {
	DeleteForAsset(ctx context.Context, assetKey string) (int64, error)
}

func deleteAsset(cmd *cobra.Command, args []string) error {
	actor, err := currentActor(loadUserData())
	if err != nil {
		return err
	}
	if err := actor.Require(review.PermDeleteAsset); err != nil {
		return err
	}

	client, err := newClient(cmd.Context())
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	target := args[0]
	keys, err := resolveDeleteTargets(cmd.Context(), client, target, deleteRecursive)
	if err != nil {
		return err
	}

	// Ask for confirmation unless --force is used
	if !deleteForce {
		if len(keys) > 1 {
			fmt.Printf("The following %d assets will be deleted:\n", len(keys))
			for _, k := range keys {
				fmt.Printf("  - %s\n", k)
			}
		}
		if !confirm(os.Stdin, fmt.Sprintf("Delete %s and its comments? This cannot be undone! (y/N): ", target)) {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	return deleteAssets(cmd.Context(), client, store, keys)
}

func resolveDeleteTargets(ctx context.Context, client assetDeleter, target string, recursive bool) ([]string, error) {
	if !recursive {
		exists, err := client.Exists(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("failed to check if asset exists: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("asset %s does not exist", target)
		}
		return []string{target}, nil
	}

	assets, err := client.ListAssets(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets with prefix %s: %w", target, err)
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("no assets found with prefix: %s", target)
	}
	keys := make([]string, len(assets))
	for i, a := range assets {
		keys[i] = a.Key
	}
	return keys, nil
}

// deleteAssets removes each asset and then its thread. Failures are collected
// so that one bad key does not stop the rest.
func deleteAssets(ctx context.Context, client assetDeleter, threads threadDeleter, keys []string) error {
	var errs []error
	for _, key := range keys {
		if err := client.DeleteAsset(ctx, key); err != nil {
			logrus.Errorf("Failed to delete %s: %v", key, err)
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", key, err))
			continue
		}
		n, err := threads.DeleteForAsset(ctx, key)
		if err != nil {
			errs = append(errs, fmt.Errorf("deleted %s but not its comments: %w", key, err))
			continue
		}
		logrus.Infof("Deleted %s and %d comments", key, n)
		fmt.Printf("Deleted %s (%d comments)\n", key, n)
	}
	return errors.Join(errs...)
}

func confirm(in io.Reader, prompt string) bool {
	fmt.Print(prompt)
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
