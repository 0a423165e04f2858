package command

import (
	"context"
	"fmt"

	"yamdb/internal/http-api/dto"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Read and post reviews",
}

var listReviewsCmd = &cobra.Command{
	Use:   "list [title-id]",
	Short: "List the reviews of a title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := parseID("title", args[0])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		c, err := newClient(false)
		if err != nil {
			return err
		}
		page, err := c.ListReviews(ctx, titleID, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to list reviews: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(page.Results) == 0 {
			fmt.Fprintln(out, "No reviews yet.")
			return nil
		}
		for _, r := range page.Results {
			fmt.Fprintf(out, "#%d %s scored %d/10 on %s\n", r.ID, accentColor.Sprint(r.Author), r.Score, r.PubDate.Format("2006-01-02"))
			fmt.Fprintf(out, "    %s\n", r.Text)
		}
		return nil
	},
}

var addReviewCmd = &cobra.Command{
	Use:   "add [title-id]",
	Short: "Review a title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := parseID("title", args[0])
		if err != nil {
			return err
		}
		var req dto.ReviewRequest
		req.Text, _ = cmd.Flags().GetString("text")
		req.Score, _ = cmd.Flags().GetInt("score")

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		c, err := newClient(true)
		if err != nil {
			return err
		}
		r, err := c.CreateReview(ctx, titleID, req)
		if err != nil {
			return fmt.Errorf("failed to post review: %w", err)
		}
		success(cmd.OutOrStdout(), "Review #%d posted", r.ID)
		return nil
	},
}

var deleteReviewCmd = &cobra.Command{
	Use:   "delete [title-id] [review-id]",
	Short: "Delete a review",
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

		c, err := newClient(true)
		if err != nil {
			return err
		}
		if err := c.DeleteReview(ctx, titleID, reviewID); err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		success(cmd.OutOrStdout(), "Review %d deleted", reviewID)
		return nil
	},
}

func init() {
	reviewCmd.AddCommand(listReviewsCmd, addReviewCmd, deleteReviewCmd)
	addPageFlags(listReviewsCmd)

	addReviewCmd.Flags().StringP("text", "t", "", "review text")
	addReviewCmd.Flags().IntP("score", "s", 0, "score from 1 to 10")
	addReviewCmd.MarkFlagRequired("text")
	addReviewCmd.MarkFlagRequired("score")
}
