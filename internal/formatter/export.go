package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/discos/internal/models"
	"github.com/desertthunder/discos/internal/shared"
)

// Format names a catalog export encoding
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

// Formats lists the supported export formats
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatYAML}

// ParseFormat resolves a format name, accepting the usual file extensions as aliases
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", "":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrInvalidFormat, name)
	}
}

// ParseFormats resolves a comma-separated list of format names, dropping repeats.
// "all" selects every format.
func ParseFormats(list string) ([]Format, error) {
	if strings.EqualFold(strings.TrimSpace(list), "all") {
		return append([]Format(nil), Formats...), nil
	}

	seen := map[Format]bool{}
	formats := []Format{}
	for _, name := range strings.Split(list, ",") {
		format, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if seen[format] {
			continue
		}
		seen[format] = true
		formats = append(formats, format)
	}
	return formats, nil
}

// Extension is the file extension used for exports in this format
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

// ContentType is the MIME type served for exports in this format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Export encodes records in the given format
func Export(format Format, records []*models.Record) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ExportToJSON(records)
	case FormatCSV:
		return ExportToCSV(records)
	case FormatMarkdown:
		return ExportToMarkdown(records)
	case FormatYAML:
		return ExportToYAML(records)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidFormat, format)
	}
}

func presentAll(records []*models.Record) []RecordView {
	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, PresentRecord(r))
	}
	return views
}

// ExportToJSON encodes the full catalog as an indented JSON array of record views
func ExportToJSON(records []*models.Record) ([]byte, error) {
	data, err := json.MarshalIndent(presentAll(records), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML encodes the full catalog as a YAML sequence of record views
func ExportToYAML(records []*models.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(presentAll(records)); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}

	return buf.Bytes(), nil
}

var csvHeaders = []string{
	"Record ID", "Artist", "Title", "Label", "Track Count", "Release Year", "Origin", "Promo", "Price", "Notes",
	"Track", "Version", "Duration",
}

// ExportToCSV writes one row per track, repeating the record columns.
//
// A record without tracks still gets one row with empty track columns.
func ExportToCSV(records []*models.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		base := []string{
			strconv.FormatInt(r.ID, 10),
			r.Artist,
			r.Title,
			r.Label,
			strconv.Itoa(r.TrackCount),
			strconv.Itoa(r.ReleaseYear),
			r.Origin,
			r.Promo,
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			r.Notes,
		}

		if len(r.Tracks) == 0 {
			if err := writer.Write(append(base, "", "", "")); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
			continue
		}

		for _, t := range r.Tracks {
			row := append(append([]string{}, base...), t.Name, t.Version, t.Duration)
			if err := writer.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders one section per record with its numbered track list
func ExportToMarkdown(records []*models.Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Catalog\n\n")
	buf.WriteString(fmt.Sprintf("**Records**: %d\n\n", len(records)))

	for _, r := range records {
		buf.WriteString(fmt.Sprintf("## %s - %s\n\n", r.Artist, r.Title))

		if r.Label != "" {
			buf.WriteString(fmt.Sprintf("**Label**: %s\n", r.Label))
		}
		if r.ReleaseYear != 0 {
			buf.WriteString(fmt.Sprintf("**Released**: %d\n", r.ReleaseYear))
		}
		if r.Origin != "" {
			buf.WriteString(fmt.Sprintf("**Origin**: %s\n", r.Origin))
		}
		buf.WriteString(fmt.Sprintf("**Promo**: %s\n", r.Promo))
		buf.WriteString(fmt.Sprintf("**Price**: %.2f\n", r.Price))
		buf.WriteString(fmt.Sprintf("**Tracks**: %d of %d\n\n", r.TotalTracks(), r.TrackCount))

		if r.Notes != "" {
			buf.WriteString(fmt.Sprintf("> %s\n\n", r.Notes))
		}

		for i, t := range r.Tracks {
			versionPart := ""
			if t.Version != "" {
				versionPart = fmt.Sprintf(" (%s)", t.Version)
			}
			durationPart := ""
			if t.Duration != "" {
				durationPart = fmt.Sprintf(" [%s]", t.Duration)
			}
			buf.WriteString(fmt.Sprintf("%d. %s%s%s\n", i+1, t.Name, versionPart, durationPart))
		}
		if len(r.Tracks) > 0 {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}
