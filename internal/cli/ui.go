package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/netergm/pkg/compare"
	netio "github.com/matzehuels/netergm/pkg/io"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleBest     = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	styleKey    = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printStats prints network statistics on a single line.
func printStats(w io.Writer, nodes, ties int, cached bool) {
	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodes)),
		StyleDim.Render(fmt.Sprintf("%d ties", ties)),
		statusStyle.Render(status),
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// =============================================================================
// Tables
// =============================================================================

// column is one column of a plain text table.
type column struct {
	title string
	width int
	left  bool
}

// table renders rows under a header with fixed column widths.
func table(cols []column, rows [][]string) string {
	var b strings.Builder
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = styleHeader.Render(pad(c.title, c.width, c.left))
	}
	b.WriteString("  " + strings.Join(cells, " ") + "\n")
	for _, row := range rows {
		for i, c := range cols {
			cells[i] = pad(row[i], c.width, c.left)
		}
		b.WriteString("  " + strings.Join(cells, " ") + "\n")
	}
	return b.String()
}

func pad(s string, width int, left bool) string {
	style := lipgloss.NewStyle().Width(width)
	if !left {
		style = style.Align(lipgloss.Right)
	}
	return style.Render(s)
}

func num(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// pValue formats p the way regression summaries do.
func pValue(p float64) string {
	if p < 1e-4 {
		return "<1e-04"
	}
	return num(p, 4)
}

// coefficientTable renders the coefficient rows of one fit.
func coefficientTable(res compare.Result) string {
	cols := []column{
		{title: "term", width: termWidth(res.Coefficients), left: true},
		{title: "estimate", width: 10},
		{title: "std.err", width: 9},
		{title: "z", width: 8},
		{title: "p", width: 8},
		{title: "", width: 3, left: true},
	}
	rows := make([][]string, len(res.Coefficients))
	for i, c := range res.Coefficients {
		rows[i] = []string{c.Term, num(c.Estimate, 4), num(c.StdErr, 4), num(c.Z, 2), pValue(c.P), c.Stars}
	}
	return table(cols, rows)
}

func termWidth(coefs []compare.Coefficient) int {
	w := len("term")
	for _, c := range coefs {
		w = max(w, len(c.Term))
	}
	return w + 2
}

// rankingTable renders the ranking by criterion c. The best model is
// highlighted.
func rankingTable(rankings []compare.Ranking, c compare.Criterion) string {
	width := len("model")
	for _, r := range rankings {
		width = max(width, len(r.Model))
	}
	cols := []column{
		{title: "#", width: 3},
		{title: "model", width: width + 2, left: true},
		{title: strings.ToUpper(string(c)), width: 10},
		{title: "Δ", width: 8},
		{title: "weight", width: 8},
	}
	rows := make([][]string, len(rankings))
	for i, r := range rankings {
		name := r.Model
		if r.Rank == 1 {
			name = styleBest.Render(name)
		}
		rows[i] = []string{strconv.Itoa(r.Rank), name, num(r.Score, 2), num(r.Delta, 2), num(r.Weight, 3)}
	}
	return table(cols, rows)
}

// =============================================================================
// Reports
// =============================================================================

// writeReport prints every fitted model followed by the ranking.
func writeReport(w io.Writer, report *compare.Report, c compare.Criterion) {
	n := report.Network
	kind := "undirected"
	if n.Directed {
		kind = "directed"
	}
	title := report.Name
	if title == "" {
		title = "report"
	}
	fmt.Fprintln(w, StyleTitle.Render(title))
	printDetail(w, "%s · %d nodes · %d ties · density %s · %s", kind, n.Nodes, n.Ties, num(n.Density, 4), report.Estimator)
	fmt.Fprintln(w)

	for _, res := range report.Results {
		writeResult(w, res)
		fmt.Fprintln(w)
	}
	for _, f := range report.Failures {
		printError(w, "%s: %s", f.Model, f.Message)
	}
	if len(report.Failures) > 0 {
		fmt.Fprintln(w)
	}

	rankings := report.Rank(c)
	if len(rankings) == 0 {
		printWarning(w, "No model could be fitted")
		return
	}
	fmt.Fprintln(w, StyleTitle.Render("Ranking by "+strings.ToUpper(string(c))))
	fmt.Fprint(w, rankingTable(rankings, c))
	fmt.Fprintln(w, StyleDim.Render("  signif: *** 0.001 ** 0.01 * 0.05 . 0.1"))
}

func writeResult(w io.Writer, res compare.Result) {
	status, statusStyle := iconFresh, styleComputed
	if res.Cached {
		status, statusStyle = iconCached, styleCached
	}
	fmt.Fprintln(w, StyleValue.Bold(true).Render(res.Model)+"  "+statusStyle.Render(status))
	fmt.Fprint(w, coefficientTable(res))
	printDetail(w, "log-lik %s · AIC %s · BIC %s · %d params · %d iterations",
		num(res.LogLik, 3), num(res.AIC, 2), num(res.BIC, 2), res.Params, res.Iterations)
}

// writeSummary prints a network summary.
func writeSummary(w io.Writer, title string, s *netio.Summary) {
	kind := "undirected"
	if s.Directed {
		kind = "directed"
	}
	fmt.Fprintln(w, StyleTitle.Render(title))
	printKeyValue(w, "Type", kind)
	printKeyValue(w, "Nodes", StyleNumber.Render(strconv.Itoa(len(s.Nodes))))
	printKeyValue(w, "Ties", StyleNumber.Render(strconv.Itoa(len(s.Ties))))
	printKeyValue(w, "Density", StyleNumber.Render(num(s.Density, 4)))
	printKeyValue(w, "Isolates", isolates(s.Isolates))
	printKeyValue(w, "Degrees", degrees(s.DegreeDistribution))
}

func isolates(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	const show = 8
	if len(ids) > show {
		return fmt.Sprintf("%s … (%d)", strings.Join(ids[:show], ", "), len(ids))
	}
	return strings.Join(ids, ", ")
}

// degrees formats a degree distribution as "degree:count" pairs, skipping
// degrees no node has.
func degrees(dist []int) string {
	var parts []string
	for d, n := range dist {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d:%d", d, n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
