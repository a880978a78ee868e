package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
)

const (
	chartHeight = 10
	chartWidth  = 60
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle  = lipgloss.NewStyle().Padding(0, 1)
)

func render(w io.Writer, trend *domain.TrendResult, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(trend)
	}
	_, err := io.WriteString(w, renderText(trend))
	return err
}

func renderText(trend *domain.TrendResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Technician utilization %s to %s (%s)",
		trend.StartDate, trend.EndDate, trend.Interval)))
	b.WriteString("\n\n")
	b.WriteString(renderTable(trend.Points))
	b.WriteString("\n\n")

	if chart := renderChart(trend.Points); chart != "" {
		b.WriteString(chart)
		b.WriteString("\n\n")
	}

	s := trend.Summary
	c := trend.Comparison
	writeLine(&b, "Peak period", fmt.Sprintf("%s (%d active)", s.PeakPeriod, s.PeakActiveTechnicians))
	writeLine(&b, "Lowest period", fmt.Sprintf("%s (%d active)", s.LowestPeriod, s.LowestActiveTechnicians))
	writeLine(&b, "Avg utilization", formatPercent(s.AvgUtilizationRate))
	writeLine(&b, "Avg confirmation", formatPercent(s.AvgConfirmationRate))
	writeLine(&b, "Tickets", fmt.Sprintf("%d assigned, %d confirmed", s.TotalTicketsAssigned, s.TotalTicketsConfirmed))
	writeLine(&b, "Direction", fmt.Sprintf("%s (%+.2f%% half over half)", c.Direction, c.HalfOverHalfChange))
	writeLine(&b, "First vs last", fmt.Sprintf("%s → %s: utilization %+.2f%%, volume %+.2f%%",
		c.FirstPeriod, c.LastPeriod, c.UtilizationChange, c.TicketVolumeChange))

	return b.String()
}

func renderTable(points []domain.PeriodPoint) string {
	rows := lo.Map(points, func(p domain.PeriodPoint, _ int) []string {
		return []string{
			p.Period,
			fmt.Sprintf("%d/%d", p.ActiveTechnicians, p.TotalTechnicians),
			strconv.Itoa(p.TicketsAssigned),
			strconv.Itoa(p.TicketsConfirmed),
			formatPercent(p.UtilizationRate),
			formatPercent(p.ConfirmationRate),
			strconv.FormatFloat(p.AvgTicketsPerTechnician, 'f', 2, 64),
		}
	})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Period", "Active", "Assigned", "Confirmed", "Utilization", "Confirmation", "Avg/tech").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headStyle
			}
			return cellStyle
		})
	return t.String()
}

// renderChart plots utilization per period. A single point has no line to
// draw, so it renders nothing.
func renderChart(points []domain.PeriodPoint) string {
	if len(points) < 2 {
		return ""
	}
	data := lo.Map(points, func(p domain.PeriodPoint, _ int) float64 { return p.UtilizationRate })
	return asciigraph.Plot(data,
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(100),
		asciigraph.Caption("Utilization rate (%)"),
	)
}

func writeLine(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", label+":")))
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n")
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
