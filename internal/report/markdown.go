package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/sentineldash/internal/dashboard"
	"github.com/user/sentineldash/internal/model"
	"github.com/user/sentineldash/internal/util"
)

// FormatMarkdown renders the report as markdown. Charts become mermaid
// blocks: pie for distributions, xychart-beta for trends and bars.
func FormatMarkdown(data *ReportData) string {
	var sb strings.Builder

	sb.WriteString("# SentinelDash Snapshot\n\n")
	sb.WriteString(fmt.Sprintf("- Generated: %s\n", data.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("- Backend: %s\n", data.BaseURL))
	if data.Status.IsError {
		sb.WriteString(fmt.Sprintf("- Status: **%s**\n", data.Status.Message))
	} else {
		sb.WriteString(fmt.Sprintf("- Status: %s\n", data.Status.Message))
	}
	if data.Failed {
		sb.WriteString(fmt.Sprintf("- Error: %s\n", data.Error))
	}
	sb.WriteString("\n")

	sb.WriteString("## Totals\n\n")
	sb.WriteString("| SSH Events | Apache Events | Alerts |\n")
	sb.WriteString("|---|---|---|\n")
	sb.WriteString(fmt.Sprintf("| %d | %d | %d |\n\n", data.Totals.SSHEvents, data.Totals.ApacheEvents, data.Totals.Alerts))

	for _, t := range data.Tables {
		sb.WriteString(fmt.Sprintf("## %s\n\n", t.Title))
		if !t.Rendered {
			sb.WriteString("_Not loaded._\n\n")
			continue
		}
		sb.WriteString(FormatTable(t.Columns, t.Rows))
		sb.WriteString("\n")
	}

	sb.WriteString("## Analytics\n\n")
	for _, c := range data.Charts {
		sb.WriteString(fmt.Sprintf("### %s\n\n", c.Title))
		if !c.Live {
			sb.WriteString("_Not loaded._\n\n")
			continue
		}
		sb.WriteString(GenerateMermaidChart(c.Title, c.Config))
		sb.WriteString("\n")
	}

	if len(data.History) > 0 {
		sb.WriteString("## Status History\n\n")
		for _, s := range data.History {
			marker := ""
			if s.IsError {
				marker = " (error)"
			}
			sb.WriteString(fmt.Sprintf("1. %s%s\n", s.Message, marker))
		}
	}

	return sb.String()
}

// FormatTable renders rendered rows as a markdown table. A spanning cell
// fills its first column and leaves the rest empty.
func FormatTable(columns []string, rows []dashboard.TableRow) string {
	var sb strings.Builder

	sb.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	sb.WriteString(strings.Repeat("|---", len(columns)) + "|\n")

	for _, row := range rows {
		cells := make([]string, 0, len(columns))
		for _, cell := range row.Cells {
			cells = append(cells, escapeCell(cell.Text))
			for i := 1; i < cell.Span; i++ {
				cells = append(cells, "")
			}
		}
		for len(cells) < len(columns) {
			cells = append(cells, "")
		}
		sb.WriteString("| " + strings.Join(cells[:len(columns)], " | ") + " |\n")
	}

	return sb.String()
}

// GenerateMermaidChart creates a mermaid block for one chart config.
func GenerateMermaidChart(title string, cfg dashboard.ChartConfig) string {
	if len(cfg.Data.Labels) == 0 || len(cfg.Data.Datasets) == 0 {
		return "_" + dashboard.NoDataText + "_\n"
	}
	values := cfg.Data.Datasets[0].Data

	var sb strings.Builder
	sb.WriteString("```mermaid\n")

	switch cfg.Type {
	case dashboard.ChartDoughnut, dashboard.ChartPolarArea:
		sb.WriteString(fmt.Sprintf("pie title %s\n", quoteLabel(title)))
		for i, label := range cfg.Data.Labels {
			if i >= len(values) {
				break
			}
			sb.WriteString(fmt.Sprintf("    \"%s\" : %s\n", quoteLabel(label), model.FormatNumber(values[i])))
		}
	default:
		series := "bar"
		if cfg.Type == dashboard.ChartLine {
			series = "line"
		}

		labels := make([]string, 0, len(cfg.Data.Labels))
		for _, l := range cfg.Data.Labels {
			labels = append(labels, "\""+quoteLabel(l)+"\"")
		}
		nums := make([]string, 0, len(values))
		for _, v := range values {
			nums = append(nums, model.FormatNumber(v))
		}

		sb.WriteString("xychart-beta\n")
		sb.WriteString(fmt.Sprintf("    title \"%s\"\n", quoteLabel(title)))
		sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
		sb.WriteString("    y-axis \"Count\"\n")
		sb.WriteString(fmt.Sprintf("    %s [%s]\n", series, strings.Join(nums, ", ")))
	}

	sb.WriteString("```\n")
	return sb.String()
}

// WriteMarkdownFile writes the report into dir and returns its path.
func WriteMarkdownFile(data *ReportData, dir string) (string, error) {
	if err := util.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}

	name := fmt.Sprintf("sentineldash-%s.md", data.GeneratedAt.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(FormatMarkdown(data)), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// quoteLabel makes a label safe inside a mermaid double-quoted string.
func quoteLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
