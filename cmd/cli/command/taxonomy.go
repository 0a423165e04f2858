package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	categoryCmd = newTaxonomyCmd("category", "categories")
	genreCmd    = newTaxonomyCmd("genre", "genres")
)

// newTaxonomyCmd builds the "list" command tree for categories or genres.
func newTaxonomyCmd(use, kind string) *cobra.Command {
	root := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Browse %s", kind),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List all %s", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			c, err := newClient(false)
			if err != nil {
				return err
			}
			page, err := c.ListTaxonomy(ctx, kind, search, limit, offset)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", kind, err)
			}

			out := cmd.OutOrStdout()
			if len(page.Results) == 0 {
				fmt.Fprintf(out, "No %s found.\n", kind)
				return nil
			}
			fmt.Fprintf(out, "Available %s (%d total):\n\n", kind, page.Count)
			for _, t := range page.Results {
				fmt.Fprintf(out, "%s | %s\n", t.Slug, t.Name)
			}
			return nil
		},
	}
	list.Flags().String("search", "", "part of the name")
	addPageFlags(list)

	root.AddCommand(list)
	return root
}
