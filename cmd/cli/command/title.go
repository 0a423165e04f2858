package command

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"yamdb/internal/http-api/dto"

	"github.com/spf13/cobra"
)

var titleCmd = &cobra.Command{
	Use:   "title",
	Short: "Browse titles",
}

var listTitlesCmd = &cobra.Command{
	Use:   "list",
	Short: "List titles, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter dto.TitleQuery
		filter.Category, _ = cmd.Flags().GetString("category")
		filter.Genre, _ = cmd.Flags().GetString("genre")
		filter.Name, _ = cmd.Flags().GetString("name")
		if cmd.Flags().Changed("year") {
			year, _ := cmd.Flags().GetInt("year")
			filter.Year = &year
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		c, err := newClient(false)
		if err != nil {
			return err
		}
		page, err := c.ListTitles(ctx, filter, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to list titles: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(page.Results) == 0 {
			fmt.Fprintln(out, "No titles found.")
			return nil
		}
		fmt.Fprintf(out, "Titles (%d of %d):\n\n", len(page.Results), page.Count)
		for i := range page.Results {
			printTitleLine(out, &page.Results[i])
		}
		return nil
	},
}

var getTitleCmd = &cobra.Command{
	Use:   "get [title-id]",
	Short: "Show one title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("title", args[0])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		c, err := newClient(false)
		if err != nil {
			return err
		}
		t, err := c.GetTitle(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get title: %w", err)
		}

		out := cmd.OutOrStdout()
		printTitleLine(out, t)
		if t.Category != nil {
			fmt.Fprintf(out, "Category: %s\n", t.Category.Name)
		}
		if len(t.Genre) > 0 {
			names := make([]string, 0, len(t.Genre))
			for _, g := range t.Genre {
				names = append(names, g.Name)
			}
			fmt.Fprintf(out, "Genres: %s\n", strings.Join(names, ", "))
		}
		if t.Description != nil {
			fmt.Fprintf(out, "\n%s\n", *t.Description)
		}
		return nil
	},
}

func printTitleLine(out io.Writer, t *dto.TitleResponse) {
	rating := "-"
	if t.Rating != nil {
		rating = strconv.FormatFloat(*t.Rating, 'f', 1, 64)
	}
	fmt.Fprintf(out, "ID: %d | %s (%d) | rating: %s\n", t.ID, t.Name, t.Year, rating)
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s ID %q", kind, raw)
	}
	return id, nil
}

func init() {
	titleCmd.AddCommand(listTitlesCmd, getTitleCmd)

	listTitlesCmd.Flags().String("category", "", "category slug")
	listTitlesCmd.Flags().String("genre", "", "genre slug")
	listTitlesCmd.Flags().String("name", "", "part of the title name")
	listTitlesCmd.Flags().Int("year", 0, "release year")
	addPageFlags(listTitlesCmd)
}
