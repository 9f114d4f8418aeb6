package normalize

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/banshee-data/laptrace.report/internal/telemetry"
)

// report accumulates the human-readable inspection report for one driver.
// The report is observational: nothing downstream parses it.
type report struct {
	b strings.Builder
}

const (
	bannerWide   = 100
	bannerNormal = 80
	bannerNarrow = 60
)

func (r *report) banner(n int, ch byte) {
	r.b.WriteString(strings.Repeat(string(ch), n))
	r.b.WriteString("\n")
}

func (r *report) printf(format string, v ...interface{}) {
	fmt.Fprintf(&r.b, format, v...)
}

func (r *report) String() string { return r.b.String() }

// writeRows renders a window of frame rows as an aligned table, optionally
// prefixed with each row's index.
func (r *report) writeRows(f *telemetry.Frame, start, end int, withIndex bool) {
	if start < 0 {
		start = 0
	}
	if end > f.Len() {
		end = f.Len()
	}
	tw := tabwriter.NewWriter(&r.b, 0, 0, 2, ' ', 0)
	if withIndex {
		fmt.Fprintf(tw, "\t%s\n", strings.Join(f.Columns, "\t"))
	} else {
		fmt.Fprintf(tw, "%s\n", strings.Join(f.Columns, "\t"))
	}
	for i := start; i < end; i++ {
		if withIndex {
			fmt.Fprintf(tw, "%d\t%s\n", i, strings.Join(f.Rows[i], "\t"))
		} else {
			fmt.Fprintf(tw, "%s\n", strings.Join(f.Rows[i], "\t"))
		}
	}
	tw.Flush()
}

// writeInspection appends the per-file section: column listing, head and
// quartile-position row samples, per-column null counts, and a bounded
// context window around every missing DriverAhead value. Missing car-ahead
// data commonly arrives in clusters (race leader in clear air), and the
// windows let an operator confirm the pattern is expected rather than a
// parsing defect.
func (r *report) writeInspection(path string, f *telemetry.Frame, summary *FileSummary) {
	r.b.WriteString("\n")
	r.banner(bannerNormal, '=')
	r.printf("Inspecting: %s\n", path)
	r.banner(bannerNormal, '=')

	r.printf("\nColumns:\n[%s]\n", strings.Join(f.Columns, ", "))

	n := f.Len()
	if n == 0 {
		r.printf("\nEmpty CSV file!\n")
		r.b.WriteString("\n")
		r.banner(bannerNormal, '-')
		return
	}

	r.printf("\nFirst 5 rows:\n")
	r.writeRows(f, 0, 5, false)

	pos25 := n * 25 / 100
	pos75 := n * 75 / 100
	r.printf("\nRows around 25%% (index %d to %d):\n", pos25-2, pos25+2)
	r.writeRows(f, pos25-2, pos25+3, false)
	r.printf("\nRows around 75%% (index %d to %d):\n", pos75-2, pos75+2)
	r.writeRows(f, pos75-2, pos75+3, false)

	r.printf("\nMissing values per column:\n")
	for _, col := range f.Columns {
		r.printf("%-24s %d\n", col, f.NullCount(col))
	}

	if !f.HasColumn(telemetry.ColDriverAhead) {
		r.printf("\nDriverAhead column not found in this file.\n")
		summary.MissingDriverAhead = ColumnAbsent
		r.b.WriteString("\n")
		r.banner(bannerNormal, '-')
		return
	}

	summary.MissingDriverAhead = f.NullCount(telemetry.ColDriverAhead)
	r.printf("\nContext around missing DriverAhead values:\n")
	nullRows := f.NullRows(telemetry.ColDriverAhead)
	if len(nullRows) == 0 {
		r.printf("None\n")
	} else {
		for _, idx := range nullRows {
			start, end := idx-5, idx+6
			if start < 0 {
				start = 0
			}
			if end > n {
				end = n
			}
			r.printf("\nMissing at index %d | context %d-%d:\n", idx, start, end-1)
			r.writeRows(f, start, end, true)
			r.banner(bannerNormal, '-')
		}
	}

	r.b.WriteString("\n")
	r.banner(bannerNormal, '-')
}

// writeSummary appends the closing DriverAhead summary table.
func (r *report) writeSummary(files []FileSummary) int {
	r.printf("\nSUMMARY - DriverAhead Missing Values\n")
	r.banner(bannerNarrow, '=')

	total := 0
	for _, s := range files {
		switch {
		case s.ParseError != "":
			r.printf("%s: unreadable (%s)\n", s.File, s.ParseError)
		case s.MissingDriverAhead == ColumnAbsent:
			r.printf("%s: DriverAhead column NOT FOUND\n", s.File)
		default:
			r.printf("%s: %d missing DriverAhead values\n", s.File, s.MissingDriverAhead)
			total += s.MissingDriverAhead
		}
	}

	r.b.WriteString("\n")
	r.banner(bannerNarrow, '=')
	r.printf("Total DriverAhead missing across valid files: %d\n", total)
	r.printf("\nDone inspecting.\n")
	return total
}
