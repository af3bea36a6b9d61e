package internal

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/aquasecurity/table"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	FormatJSON = "JSON"
	FormatCSV  = "CSV"
)

// ParseOutputFormat accepts JSON or CSV in any case.
func ParseOutputFormat(name string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("invalid output format %q (want JSON or CSV)", name)
}

type Column struct {
	Header string
	Field  string
	// Fraction of the terminal width given to the column in table output.
	Fraction float64
}

// Layout describes how one resource kind is presented.
type Layout struct {
	Noun         string
	FilePrefix   string
	CSVColumns   []Column
	QuoteAll     bool
	TableColumns []Column
	TableStyle   string
	// Compare orders records for CSV and table output.
	Compare func(a, b *Record) int
}

func (l Layout) sorted(c *Collection) []*Record {
	if l.Compare == nil {
		return c.Records()
	}
	return c.Sorted(l.Compare)
}

// CompareFields orders records by the named fields, compared as strings.
func CompareFields(fields ...string) func(a, b *Record) int {
	return func(a, b *Record) int {
		for _, f := range fields {
			if n := strings.Compare(a.String(f), b.String(f)); n != 0 {
				return n
			}
		}
		return 0
	}
}

// RenderJSON writes the collection as one object keyed by Key.String(),
// keys ascending, record fields in insertion order.
func RenderJSON(w io.Writer, c *Collection) error {
	var compact bytes.Buffer
	compact.WriteByte('{')
	var prev string
	for i, r := range c.Records() {
		if i > 0 {
			if r.Key.String() == prev {
				return fmt.Errorf("duplicate JSON key %q", prev)
			}
			compact.WriteByte(',')
		}
		prev = r.Key.String()
		key, err := json.Marshal(prev)
		if err != nil {
			return err
		}
		body, err := r.MarshalJSON()
		if err != nil {
			return fmt.Errorf("record %s: %w", r.Key, err)
		}
		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(body)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "    "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}

// RenderCSV writes the layout's header and one row per record.
func RenderCSV(w io.Writer, c *Collection, layout Layout) error {
	header := make([]string, len(layout.CSVColumns))
	for i, col := range layout.CSVColumns {
		header[i] = col.Header
	}
	rows := [][]string{header}
	for _, r := range layout.sorted(c) {
		row := make([]string, len(layout.CSVColumns))
		for i, col := range layout.CSVColumns {
			row[i] = r.String(col.Field)
		}
		rows = append(rows, row)
	}

	if layout.QuoteAll {
		return writeQuotedCSV(w, rows)
	}
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.WriteAll(rows); err != nil {
		return err
	}
	return csvWriter.Error()
}

// writeQuotedCSV quotes every field. encoding/csv only quotes when needed.
func writeQuotedCSV(w io.Writer, rows [][]string) error {
	var buf bytes.Buffer
	for _, row := range rows {
		for i, f := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
			buf.WriteByte('"')
		}
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

type Overflow int

const (
	OverflowWrap Overflow = iota
	OverflowTruncate
)

var TableStyles = []string{"plain", "pipe", "github", "grid", "fancy_grid"}

func ValidateTableStyle(style string) error {
	for _, s := range TableStyles {
		if s == style {
			return nil
		}
	}
	return fmt.Errorf("invalid table format %q (want one of %s)", style, strings.Join(TableStyles, ", "))
}

type TableOptions struct {
	Style string
	// Width of the terminal in columns. Zero means detect it.
	Width    int
	Overflow Overflow
}

// ColumnBudgets splits width between columns by their fractions, after
// reserving room for padding and dividers. Fractions that add up to more
// than one are scaled down.
func ColumnBudgets(width int, columns []Column) []int {
	usable := width - 3*len(columns) - 1
	if usable < len(columns) {
		usable = len(columns)
	}
	sum := 0.0
	for _, c := range columns {
		sum += c.Fraction
	}
	scale := 1.0
	if sum > 1 {
		scale = 1 / sum
	}
	budgets := make([]int, len(columns))
	for i, c := range columns {
		budgets[i] = int(float64(usable) * c.Fraction * scale)
		if budgets[i] < 1 {
			budgets[i] = 1
		}
	}
	return budgets
}

// Truncate shortens s to at most budget runes, ending in "..." when it
// had to cut.
func Truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	if budget <= 0 {
		return ""
	}
	if budget <= 3 {
		return string(runes[:budget])
	}
	return string(runes[:budget-3]) + "..."
}

// Wrap breaks s into lines of at most budget runes, preferring to break
// after whitespace. No character is dropped: removing the inserted
// newlines gives back s.
func Wrap(s string, budget int) string {
	if budget < 1 {
		return s
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		runes := []rune(para)
		for len(runes) > budget {
			cut := budget
			for i := budget; i > 0; i-- {
				if unicode.IsSpace(runes[i-1]) {
					cut = i
					break
				}
			}
			lines = append(lines, string(runes[:cut]))
			runes = runes[cut:]
		}
		lines = append(lines, string(runes))
	}
	return strings.Join(lines, "\n")
}

// RenderTable writes the layout's table columns, fitting each cell into its
// budget with exactly one overflow policy.
func RenderTable(w io.Writer, c *Collection, layout Layout, opts TableOptions) error {
	style := opts.Style
	if style == "" {
		style = layout.TableStyle
	}
	if err := ValidateTableStyle(style); err != nil {
		return err
	}
	width := opts.Width
	if width <= 0 {
		width = TerminalWidth()
	}
	budgets := ColumnBudgets(width, layout.TableColumns)

	fit := Wrap
	if opts.Overflow == OverflowTruncate {
		fit = Truncate
	}

	headers := make([]string, len(layout.TableColumns))
	for i, col := range layout.TableColumns {
		headers[i] = col.Header
	}
	var body [][]string
	for _, r := range layout.sorted(c) {
		row := make([]string, len(layout.TableColumns))
		for i, col := range layout.TableColumns {
			row[i] = fit(r.String(col.Field), budgets[i])
		}
		body = append(body, row)
	}

	t := table.New(w)
	// Cells are already fitted to width; the table must not re-wrap them.
	t.SetAvailableWidth(width)
	t.SetHeaders(headers...)
	t.AddRows(body...)
	t.SetAlignment(table.AlignLeft)
	applyTableStyle(t, style)
	t.Render()
	return nil
}

func applyTableStyle(t *table.Table, style string) {
	switch style {
	case "plain":
		t.SetDividers(table.Dividers{})
		t.SetBorders(false)
		t.SetRowLines(false)
	case "pipe", "github":
		t.SetDividers(table.MarkdownDividers)
		t.SetBorderTop(false)
		t.SetBorderBottom(false)
		t.SetRowLines(false)
	case "grid":
		t.SetDividers(table.ASCIIDividers)
		t.SetRowLines(true)
	case "fancy_grid":
		t.SetHeaderStyle(table.StyleBold)
		t.SetLineStyle(table.StyleCyan)
		t.SetDividers(table.UnicodeRoundedDividers)
		t.SetRowLines(true)
	}
}

// WriteArtifact renders the collection and writes it to path. Success and
// failure are logged as separate, exclusive messages.
func WriteArtifact(path string, format string, c *Collection, layout Layout) error {
	logger := NewLogger()

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJSON:
		err = RenderJSON(&buf, c)
	default:
		err = RenderCSV(&buf, c, layout)
	}
	if err == nil {
		err = afero.WriteFile(fileSystem, path, buf.Bytes(), 0644)
	}
	if err != nil {
		logger.ErrorM(fmt.Sprintf("Failed to write %s: %s", path, err), c.Kind)
		return fmt.Errorf("writing %s: %w", path, err)
	}

	TxtLog.WithField("module", c.Kind).Debugf("Wrote %d %s to %s", c.Len(), layout.Noun, path)
	logger.SuccessM(fmt.Sprintf("Output written to %s", path), c.Kind)
	return nil
}

type OutputConfig struct {
	Path   string
	Format string
	DryRun bool
	Table  TableOptions
	// Console receives dry-run output. Defaults to stdout.
	Console io.Writer
}

// Deliver hands a finished collection to its destination. An empty
// collection is reported and nothing is written. Dry-run renders to the
// console and never touches the filesystem.
func Deliver(c *Collection, outcomes []CellOutcome, layout Layout, out OutputConfig) error {
	modLog := TxtLog.WithFields(logrus.Fields{"module": c.Kind})

	if c.Len() == 0 {
		msg := fmt.Sprintf("No %s found across selected profiles.", layout.Noun)
		if AllFailed(outcomes) {
			modLog.Error(msg)
		} else {
			modLog.Warn(msg)
		}
		return nil
	}

	if out.DryRun {
		console := out.Console
		if console == nil {
			console = os.Stdout
		}
		if out.Format == FormatJSON {
			return RenderJSON(console, c)
		}
		return RenderTable(console, c, layout, out.Table)
	}

	return WriteArtifact(out.Path, out.Format, c, layout)
}
