package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/r2review/internal/review"
)

var (
	commentAt       string
	commentOpenOnly bool
	commentReopen   bool
	commentNoVerify bool
)

// commentsCmd groups the comment thread commands
var commentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"comment"},
	Short:   "Read and write asset comments",
}

var commentsListCmd = &cobra.Command{
	Use:   "list <asset-key>",
	Short: "Show the comment thread of an asset",
	Args:  cobra.ExactArgs(1),
	RunE:  listComments,
}

var commentsAddCmd = &cobra.Command{
	Use:   "add <asset-key> <body>",
	Short: "Comment on an asset",
	Long: `Add a comment to an asset, optionally pinned to a playback position.

Examples:
  r2review comments add clips/cut.mp4 "Colour shifts here" --at 1:32
  r2review comments add stills/poster.png "Logo too small"`,
	Args: cobra.MinimumNArgs(2),
	RunE: addComment,
}

var commentsResolveCmd = &cobra.Command{
	Use:   "resolve <comment-id>",
	Short: "Mark a comment resolved (or reopen it with --reopen)",
	Long: `Mark a comment resolved. The ID may be shortened to any unique prefix,
such as the 8 characters shown by 'comments list'.`,
	Args: cobra.ExactArgs(1),
	RunE: resolveComment,
}

var commentsDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete a comment",
	Long:  "Delete a comment. The ID may be shortened to any unique prefix.",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteCommentCmd,
}

func init() {
	rootCmd.AddCommand(commentsCmd)
	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsResolveCmd, commentsDeleteCmd)

	commentsListCmd.Flags().BoolVar(&commentOpenOnly, "open", false, "hide resolved comments")
	commentsAddCmd.Flags().StringVar(&commentAt, "at", "", "timecode to pin the comment to (seconds or m:ss)")
	commentsAddCmd.Flags().BoolVar(&commentNoVerify, "no-verify", false, "do not check that the asset exists")
	commentsResolveCmd.Flags().BoolVar(&commentReopen, "reopen", false, "reopen a resolved comment")
}

func listComments(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	comments, err := store.List(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if commentOpenOnly {
		open := comments[:0]
		for _, c := range comments {
			if !c.Resolved {
				open = append(open, c)
			}
		}
		comments = open
	}
	if len(comments) == 0 {
		fmt.Printf("No comments on %s\n", args[0])
		return nil
	}
	return outputComments(os.Stdout, comments, time.Now())
}

func outputComments(out io.Writer, comments []review.Comment, now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAT\tAUTHOR\tWHEN\tSTATUS\tCOMMENT")
	for _, c := range comments {
		status := "open"
		if c.Resolved {
			status = "resolved"
		}
		body := strings.ReplaceAll(c.Body, "\n", " ")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(c.ID), review.FormatTimecode(c.Timecode), c.Author,
			humanize.RelTime(c.CreatedAt, now, "ago", "from now"), status, body)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func addComment(cmd *cobra.Command, args []string) error {
	ud := loadUserData()
	actor, err := currentActor(ud)
	if err != nil {
		return err
	}
	if err := actor.Require(review.PermComment); err != nil {
		return err
	}

	timecode, err := review.ParseTimecode(commentAt)
	if err != nil {
		return err
	}

	key := args[0]
	if !commentNoVerify {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		exists, err := client.Exists(cmd.Context(), key)
		if err != nil {
			return fmt.Errorf("failed to check asset: %w", err)
		}
		if !exists {
			return fmt.Errorf("asset %s does not exist", key)
		}
	}

	c, err := review.NewComment(key, actor.Name, strings.Join(args[1:], " "), timecode)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	saved, err := store.Add(cmd.Context(), c)
	if err != nil {
		return err
	}
	fmt.Printf("Added comment %s on %s at %s\n", shortID(saved.ID), key, review.FormatTimecode(saved.Timecode))
	return nil
}

func resolveComment(cmd *cobra.Command, args []string) error {
	actor, err := currentActor(loadUserData())
	if err != nil {
		return err
	}
	if err := actor.Require(review.PermResolve); err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	c, err := setResolved(cmd.Context(), store, args[0], !commentReopen)
	if err != nil {
		return err
	}
	if commentReopen {
		fmt.Printf("Reopened comment %s\n", shortID(c.ID))
	} else {
		fmt.Printf("Resolved comment %s\n", shortID(c.ID))
	}
	return nil
}

func deleteCommentCmd(cmd *cobra.Command, args []string) error {
	actor, err := currentActor(loadUserData())
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	c, err := removeComment(cmd.Context(), store, actor, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Deleted comment %s\n", shortID(c.ID))
	return nil
}

// commentEditor is the part of the store the resolve and delete commands need.
type commentEditor interface {
	Get(ctx context.Context, id string) (review.Comment, error)
	SetResolved(ctx context.Context, id string, resolved bool) error
	Delete(ctx context.Context, id string) error
}

// setResolved looks the comment up by full or short ID and updates it.
func setResolved(ctx context.Context, store commentEditor, id string, resolved bool) (review.Comment, error) {
	c, err := store.Get(ctx, id)
	if err != nil {
		return review.Comment{}, err
	}
	if err := store.SetResolved(ctx, c.ID, resolved); err != nil {
		return review.Comment{}, err
	}
	c.Resolved = resolved
	return c, nil
}

// removeComment deletes the comment named by a full or short ID if actor may.
func removeComment(ctx context.Context, store commentEditor, actor review.Actor, id string) (review.Comment, error) {
	c, err := store.Get(ctx, id)
	if err != nil {
		return review.Comment{}, err
	}
	if !actor.CanDelete(c) {
		return review.Comment{}, fmt.Errorf("%s cannot delete comments by %s: %w", actor.Role, c.Author, review.ErrPermission)
	}
	if err := store.Delete(ctx, c.ID); err != nil {
		return review.Comment{}, err
	}
	return c, nil
}
