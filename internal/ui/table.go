package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/desertthunder/discos/internal/formatter"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.header
			}
			return styles.cell
		}).
		Headers(headers...)
}

// RecordsTable renders a record listing, one row per record
func RecordsTable(list formatter.RecordList) string {
	if len(list.Records) == 0 {
		return Help("No records in the catalog.")
	}

	t := newTable("Artist", "Title", "Label", "Year", "Origin", "Tracks", "Promo", "Price")
	for _, r := range list.Records {
		t.Row(
			r.Artist,
			r.Title,
			r.Label,
			year(r.ReleaseYear),
			r.Origin,
			strconv.Itoa(r.TrackCount),
			r.Promo,
			fmt.Sprintf("%.2f", r.Price),
		)
	}

	return t.Render()
}

// RecordDetail renders a record header followed by its track table
func RecordDetail(view formatter.RecordView) string {
	var b strings.Builder

	b.WriteString(Title(fmt.Sprintf("%s - %s", view.Artist, view.Title)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "ID: %d | Label: %s | Year: %s | Origin: %s | Promo: %s | Price: %.2f\n",
		view.ID, view.Label, year(view.ReleaseYear), view.Origin, view.Promo, view.Price)
	fmt.Fprintf(&b, "Tracks: %d of %d\n", view.TotalTracks, view.TrackCount)
	if view.Notes != "" {
		b.WriteString(Help(view.Notes))
		b.WriteString("\n")
	}

	if len(view.Tracks) == 0 {
		return b.String()
	}

	t := newTable("#", "Name", "Version", "Duration")
	for i, track := range view.Tracks {
		t.Row(strconv.Itoa(i+1), track.Name, track.Version, track.Duration)
	}

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

func year(y int) string {
	if y == 0 {
		return "-"
	}
	return strconv.Itoa(y)
}
