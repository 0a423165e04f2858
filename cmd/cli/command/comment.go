package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Read and post comments on reviews",
}

var listCommentsCmd = &cobra.Command{
	Use:   "list [title-id] [review-id]",
	Short: "List the comments of a review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := parseID("title", args[0])
		if err != nil {
			return err
		}
		reviewID, err := parseID("review", args[1])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		c, err := newClient(false)
		if err != nil {
			return err
		}
		page, err := c.ListComments(ctx, titleID, reviewID, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to list comments: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(page.Results) == 0 {
			fmt.Fprintln(out, "No comments yet.")
			return nil
		}
		for _, cm := range page.Results {
			fmt.Fprintf(out, "#%d %s (%s): %s\n", cm.ID, accentColor.Sprint(cm.Author), cm.PubDate.Format("2006-01-02 15:04"), cm.Text)
		}
		return nil
	},
}

var addCommentCmd = &cobra.Command{
	Use:   "add [title-id] [review-id] [text]",
	Short: "Comment on a review",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := parseID("title", args[0])
		if err != nil {
			return err
		}
		reviewID, err := parseID("review", args[1])
		if err != nil {
			return err
		}
		text := strings.Join(args[2:], " ")

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		c, err := newClient(true)
		if err != nil {
			return err
		}
		cm, err := c.CreateComment(ctx, titleID, reviewID, text)
		if err != nil {
			return fmt.Errorf("failed to post comment: %w", err)
		}
		success(cmd.OutOrStdout(), "Comment #%d posted", cm.ID)
		return nil
	},
}

func init() {
	commentCmd.AddCommand(listCommentsCmd, addCommentCmd)
	addPageFlags(listCommentsCmd)
}
