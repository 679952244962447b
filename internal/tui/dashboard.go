package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/sentineldash/internal/dashboard"
	"github.com/user/sentineldash/internal/model"
)

const minColumnWidth = 8

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

func newTable(slot dashboard.TableSlot, width int) table.Model {
	t := table.New(
		table.WithColumns(tableColumns(slot, width)),
		table.WithHeight(tableHeight(0)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(Title).BorderForeground(Subtle).Bold(true)
	styles.Selected = styles.Selected.Foreground(Title).Background(lipgloss.Color("#0e2a47"))
	t.SetStyles(styles)
	return t
}

// tableSlot finds the layout of table id.
func tableSlot(id dashboard.TableID) (dashboard.TableSlot, bool) {
	for _, slot := range dashboard.TableSlots {
		if slot.ID == id {
			return slot, true
		}
	}
	return dashboard.TableSlot{}, false
}

// tableColumns splits width evenly, giving the last column the remainder.
func tableColumns(slot dashboard.TableSlot, width int) []table.Column {
	n := len(slot.Columns)
	avail := width - 4 - 2*n
	each := avail / n
	if each < minColumnWidth {
		each = minColumnWidth
	}

	cols := make([]table.Column, 0, n)
	for i, title := range slot.Columns {
		w := each
		if i == n-1 && avail > each*n {
			w += avail - each*n
		}
		cols = append(cols, table.Column{Title: title, Width: w})
	}
	return cols
}

func tableHeight(termHeight int) int {
	h := termHeight - 30
	if h < 5 {
		h = 5
	}
	return h
}

// tableRows fits rendered rows to ncols cells. A spanning cell keeps its
// text in the first column it covers.
func tableRows(ncols int, rows []dashboard.TableRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		cells := make(table.Row, 0, ncols)
		for _, cell := range row.Cells {
			cells = append(cells, cell.Text)
			for i := 1; i < cell.Span; i++ {
				cells = append(cells, "")
			}
		}
		for len(cells) < ncols {
			cells = append(cells, "")
		}
		out = append(out, cells[:ncols])
	}
	return out
}

func renderDashboard(m dashboardModel) string {
	var sb strings.Builder

	sb.WriteString(HeaderStyle.Width(m.width).Render("SentinelDash · " + m.baseURL))
	sb.WriteString("\n")

	status := RenderStatus(m.status, m.statusErr)
	if m.disabled() {
		status = m.spinner.View() + " " + status
	}
	sb.WriteString(status)
	sb.WriteString("\n")

	sb.WriteString(renderTotals(m.totals, m.width))
	sb.WriteString("\n")

	sb.WriteString(renderTabs(m.focus))
	sb.WriteString("\n")
	focused := m.tables[dashboard.TableSlots[m.focus].ID]
	sb.WriteString(SectionStyle.Render(focused.View()))
	sb.WriteString("\n")

	chartWidth := (m.width - 2) / 2
	var blocks []string
	for _, slot := range dashboard.ChartSlots {
		var live *liveChart
		if c, ok := m.charts[slot.Surface]; ok {
			live = &c
		}
		blocks = append(blocks, renderChart(slot.Title, live, chartWidth))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, blocks[0], blocks[1]))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, blocks[2], blocks[3]))
	sb.WriteString("\n")

	sb.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	return sb.String()
}

func renderTotals(t model.Totals, width int) string {
	content := fmt.Sprintf("%s %s   %s %s   %s %s",
		LabelStyle.Render("SSH events:"), ValueStyle.Render(fmt.Sprintf("%d", t.SSHEvents)),
		LabelStyle.Render("Apache events:"), ValueStyle.Render(fmt.Sprintf("%d", t.ApacheEvents)),
		LabelStyle.Render("Alerts:"), ValueStyle.Render(fmt.Sprintf("%d", t.Alerts)),
	)
	return SectionStyle.Width(max(width-2, 40)).Render(content)
}

func renderTabs(focus int) string {
	tabs := make([]string, 0, len(dashboard.TableSlots))
	for i, slot := range dashboard.TableSlots {
		if i == focus {
			tabs = append(tabs, ActiveTabStyle.Render(slot.Title))
		} else {
			tabs = append(tabs, TabStyle.Render(slot.Title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderChart draws one chart as text: trends as a sparkline, bars as
// horizontal bars and distributions as a legend with shares.
func renderChart(title string, live *liveChart, width int) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	var body string
	switch {
	case live == nil:
		body = DimStyle.Render("Not loaded")
	case len(live.cfg.Data.Labels) == 0 || len(live.cfg.Data.Datasets) == 0:
		body = DimStyle.Render(dashboard.NoDataText)
	default:
		switch live.cfg.Type {
		case dashboard.ChartLine:
			body = renderSparkline(live.cfg, inner)
		case dashboard.ChartBar:
			body = renderBars(live.cfg, inner)
		default:
			body = renderSlices(live.cfg, inner)
		}
	}

	return SectionStyle.Width(inner + 2).Render(SectionTitleStyle.Render(title) + "\n" + body)
}

func renderSparkline(cfg dashboard.ChartConfig, width int) string {
	ds := cfg.Data.Datasets[0]
	values := ds.Data
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var sb strings.Builder
	for _, v := range values {
		level := 0
		if hi > lo {
			level = int((v - lo) / (hi - lo) * float64(len(sparkLevels)-1))
		}
		sb.WriteRune(sparkLevels[level])
	}

	labels := cfg.Data.Labels
	line := lipgloss.NewStyle().Foreground(themeColor(ds.BorderColor)).Render(sb.String())
	return fmt.Sprintf("%s\n%s %s → %s  max %s",
		line,
		LabelStyle.Render(ds.Label+":"),
		labels[0], labels[len(labels)-1],
		model.FormatNumber(hi))
}

func renderBars(cfg dashboard.ChartConfig, width int) string {
	ds := cfg.Data.Datasets[0]
	labelWidth := 0
	peak := 0.0
	for i, l := range cfg.Data.Labels {
		labelWidth = max(labelWidth, len(l))
		if i < len(ds.Data) {
			peak = max(peak, ds.Data[i])
		}
	}
	labelWidth = min(labelWidth, width/3)

	color := Primary
	if len(ds.BackgroundColor) > 0 && strings.HasPrefix(ds.BackgroundColor[0], "#") {
		color = themeColor(ds.BackgroundColor[0])
	}

	lines := make([]string, 0, len(cfg.Data.Labels))
	for i, l := range cfg.Data.Labels {
		if i >= len(ds.Data) {
			break
		}
		value := model.FormatNumber(ds.Data[i])
		barWidth := width - labelWidth - len(value) - 2
		lines = append(lines, fmt.Sprintf("%-*s %s %s", labelWidth, truncate(l, labelWidth),
			RenderBar(ds.Data[i], peak, barWidth, color), value))
	}
	return strings.Join(lines, "\n")
}

func renderSlices(cfg dashboard.ChartConfig, width int) string {
	ds := cfg.Data.Datasets[0]
	total := 0.0
	for _, v := range ds.Data {
		total += v
	}

	lines := make([]string, 0, len(cfg.Data.Labels))
	for i, l := range cfg.Data.Labels {
		if i >= len(ds.Data) {
			break
		}
		color := Secondary
		if len(ds.BackgroundColor) > 0 {
			color = themeColor(ds.BackgroundColor[i%len(ds.BackgroundColor)])
		}
		share := 0.0
		if total > 0 {
			share = ds.Data[i] / total * 100
		}
		dot := lipgloss.NewStyle().Foreground(color).Render("●")
		lines = append(lines, fmt.Sprintf("%s %s %s (%.0f%%)", dot,
			truncate(l, width/2), model.FormatNumber(ds.Data[i]), share))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
