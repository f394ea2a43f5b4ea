package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmorval/linkscope/pkg/layout"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(sidebarWidth - 2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF00"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	selNode, selEdge, community := m.controller.ViewState()
	m.engine.Render(m.canvas, layout.ViewState{
		SelectedNodeID:       selNode,
		SelectedEdgeKey:      selEdge,
		HighlightedCommunity: community,
	})

	var b strings.Builder
	b.WriteString(titleStyle.Render("linkscope - call graph explorer"))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.statusLine()))
	b.WriteString("\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.View(), m.sidebar())
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return b.String()
}

func (m model) statusLine() string {
	f := m.controller.Filters()
	parts := []string{
		fmt.Sprintf("dataset:%s", orDash(m.controller.Dataset())),
		fmt.Sprintf("type:%s", f.EventType),
		fmt.Sprintf("minWeight:%d", f.MinEdgeWeight),
		fmt.Sprintf("limit:%d", f.LimitNodes),
		fmt.Sprintf("layout:%s", m.engine.State()),
	}
	if m.engine.State() == layout.Running || m.engine.State() == layout.Stabilizing {
		parts = append(parts, fmt.Sprintf("alpha:%.2f", m.engine.Alpha()))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, "  ")
}

func (m model) sidebar() string {
	var b strings.Builder

	if notice := m.controller.FocusNotice(); notice != "" {
		b.WriteString(noticeStyle.Render(notice))
		b.WriteString("\n\n")
	}
	if errMsg := m.controller.ErrorMessage(); errMsg != "" {
		b.WriteString(errorStyle.Render("fetch failed"))
		b.WriteString("\n")
		b.WriteString(truncate(errMsg, 3*(sidebarWidth-4)))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("press f to retry"))
		b.WriteString("\n\n")
	}

	payload := m.controller.Payload()
	if payload == nil {
		b.WriteString(helpStyle.Render("no graph loaded"))
		return sidebarStyle.Render(b.String())
	}

	b.WriteString(sectionStyle.Render("Stats"))
	b.WriteString("\n")
	s := payload.Stats
	fmt.Fprintf(&b, "nodes      %d\n", s.NodeCount)
	fmt.Fprintf(&b, "edges      %d\n", s.EdgeCount)
	fmt.Fprintf(&b, "density    %.4f\n", s.Density)
	fmt.Fprintf(&b, "components %d\n", s.Components)
	fmt.Fprintf(&b, "isolates   %d\n", s.Isolates)
	if payload.Truncated {
		b.WriteString(noticeStyle.Render("truncated"))
		b.WriteString("\n")
		b.WriteString(truncate(payload.TruncationReason, 2*(sidebarWidth-4)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if node := m.controller.SelectedNode(); node != nil {
		b.WriteString(sectionStyle.Render("Selected"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s\n", node.ID)
		fmt.Fprintf(&b, "degree   %d  wdeg %.0f\n", node.Degree, node.WeightedDegree)
		fmt.Fprintf(&b, "events   %d\n", node.TotalEvents)
		fmt.Fprintf(&b, "talk     %s\n", formatSeconds(node.TotalDuration))
		fmt.Fprintf(&b, "cluster  %s\n", node.Community)
		b.WriteString("\n")

		contacts := m.controller.TopContacts(node.ID, 5)
		if len(contacts) > 0 {
			b.WriteString(sectionStyle.Render("Top contacts"))
			b.WriteString("\n")
			for i, c := range contacts {
				fmt.Fprintf(&b, "%d %s  w%.0f\n", i+1, c.Number, c.Weight)
			}
			b.WriteString("\n")
		}
	}

	if edge := m.controller.SelectedEdge(); edge != nil {
		b.WriteString(sectionStyle.Render("Edge"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s\n ↔ %s\n", edge.Source, edge.Target)
		fmt.Fprintf(&b, "weight  %.0f\n", edge.Weight)
		fmt.Fprintf(&b, "events  %d\n", edge.EventCount)
		fmt.Fprintf(&b, "talk    %s\n", formatSeconds(edge.TotalDuration))
		b.WriteString("\n")
	}

	if len(payload.Communities) > 0 {
		b.WriteString(sectionStyle.Render("Communities"))
		b.WriteString("\n")
		for i, c := range payload.Communities {
			if i >= 6 {
				fmt.Fprintf(&b, "… %d more\n", len(payload.Communities)-i)
				break
			}
			marker := " "
			_, _, highlighted := m.controller.ViewState()
			if c.ID == highlighted {
				marker = "▶"
			}
			fmt.Fprintf(&b, "%s %-8s %d members\n", marker, c.ID, c.Size)
		}
	}

	return sidebarStyle.Render(b.String())
}

func formatSeconds(seconds float64) string {
	d := int(seconds)
	if d < 60 {
		return fmt.Sprintf("%ds", d)
	}
	if d < 3600 {
		return fmt.Sprintf("%dm%02ds", d/60, d%60)
	}
	return fmt.Sprintf("%dh%02dm", d/3600, (d%3600)/60)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
