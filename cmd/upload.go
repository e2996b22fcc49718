package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/r2review/internal/review"
	"github.com/HaiFongPan/r2review/internal/utils"
)

var (
	uploadContentType string
	uploadOverwrite   bool
	uploadCompress    string
	uploadNoProgress  bool
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <file-path> [remote-path]",
	Short: "Upload an asset for review",
	Long: `Upload a local file to the review bucket.

Examples:
  r2review upload cut.mp4                     # Upload to root with same name
  r2review upload cut.mp4 clips/cut-v2.mp4    # Upload to specific path
  r2review upload still.png --compress fine   # Recompress the image before upload
  r2review upload cut.mp4 --no-progress       # Upload without progress bar`,
	Args: cobra.RangeArgs(1, 2),
	RunE: uploadAsset,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVarP(&uploadContentType, "content-type", "t", "", "specify content type")
	uploadCmd.Flags().BoolVar(&uploadOverwrite, "overwrite", false, "overwrite existing assets")
	uploadCmd.Flags().StringVarP(&uploadCompress, "compress", "z", "", "image compression level (high, fine, normal, low)")
	uploadCmd.Flags().BoolVar(&uploadNoProgress, "no-progress", false, "disable progress bar")
}

func uploadAsset(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	actor, err := currentActor(loadUserData())
	if err != nil {
		return err
	}
	if err := actor.Require(review.PermUpload); err != nil {
		return err
	}

	filePath := args[0]
	remotePath := filepath.Base(filePath)
	if len(args) > 1 {
		remotePath = args[1]
	}

	// Determine overwrite behavior (CLI flag > config > default)
	shouldOverwrite := uploadOverwrite
	if !cmd.Flags().Changed("overwrite") {
		shouldOverwrite = cfg.Upload.DefaultOverwrite
	}

	// Determine compression level (CLI flag > config > default)
	compressionLevel := uploadCompress
	if !cmd.Flags().Changed("compress") {
		compressionLevel = cfg.Upload.DefaultCompress
	}
	if !utils.ValidCompression(compressionLevel) {
		return fmt.Errorf("invalid compression level %q (use: high, fine, normal, low)", compressionLevel)
	}

	client, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	uploader := utils.NewUploader(client)
	if !uploadNoProgress && !quiet {
		description := fmt.Sprintf("Uploading %s", filepath.Base(filePath))
		uploader.Wrap = func(body io.Reader, size int64) io.Reader {
			// Small files finish before a bar is worth drawing
			if size <= 100*1024 {
				return body
			}
			return utils.NewProgressReader(body, os.Stderr, size, description)
		}
	}

	logrus.Infof("Uploading %s to %s", filePath, remotePath)
	result, err := uploader.Upload(cmd.Context(), filePath, remotePath, utils.UploadOptions{
		Overwrite:   shouldOverwrite,
		ContentType: uploadContentType,
		AutoDetect:  cfg.Upload.AutoDetectContentType,
		Compress:    compressionLevel,
	}, nil)
	if err != nil {
		return err
	}

	if result.Compressed {
		fmt.Printf("Compressed %s: %s -> %s\n", filepath.Base(filePath),
			humanize.IBytes(uint64(result.OriginalSize)), humanize.IBytes(uint64(result.UploadedSize)))
	}
	fmt.Printf("Uploaded %s (%s)\n", remotePath, result.ContentType)
	return nil
}
