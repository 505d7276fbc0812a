package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"linernotes/internal/catalog"
	"linernotes/internal/listing"
	"linernotes/internal/render"
	"linernotes/pkg/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func (app *Application) createListCommand(ctx context.Context) *cobra.Command {
	var (
		location string
		query    string
		genre    string
		sortKey  string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the filtered and sorted album listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if location != "" {
				app.Config.Catalog.Location = location
			}

			src, err := catalog.SourceFor(app.Config.Catalog)
			if err != nil {
				return err
			}

			cat, err := catalog.Load(ctx, src, catalog.ParseFormat(app.Config.Catalog.Format))
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), render.LoadErrorMessage)
				return err
			}

			state := listing.ViewState{
				SearchQuery:   query,
				SelectedGenre: genre,
				SortKey:       listing.ParseSortKey(sortKey),
			}
			visible := app.sorter().Apply(cat.Albums(), state)

			return writeListing(cmd.OutOrStdout(), output, visible, cat.Len())
		},
	}

	cmd.Flags().StringVar(&location, "catalog", "", "catalog location: path, http(s):// URL or s3://bucket/key")
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive search over title and artist")
	cmd.Flags().StringVarP(&genre, "genre", "g", "", "exact genre to show")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", string(listing.DefaultSortKey), "sort key: score, title, artist or year")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")

	return cmd
}

func writeListing(w io.Writer, output string, visible []models.Album, total int) error {
	switch output {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(visible)

	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(visible)

	case "table":
		fmt.Fprintln(w, render.CountMessage(len(visible), total))
		if len(visible) == 0 {
			fmt.Fprintln(w, render.EmptyMessage)
			return nil
		}

		rows := make([][]string, len(visible))
		for i, a := range visible {
			rows[i] = []string{a.ScoreText() + "/10", a.Title, a.Artist, strconv.Itoa(a.Year), a.Genre}
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("SCORE", "TITLE", "ARTIST", "YEAR", "GENRE").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		fmt.Fprintln(w, t.Render())
		return nil

	default:
		return fmt.Errorf("unknown output format: %s (must be table, json, or yaml)", output)
	}
}
