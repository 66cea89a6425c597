package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-seqnet/pkg/geo"
	"github.com/dd0wney/cluso-seqnet/pkg/stats"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━"

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("🧬 seqnet - transmission network explorer"))
	s.WriteString("\n\n")
	s.WriteString(m.renderThreshold())
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch {
	case m.result == nil:
		s.WriteString(contentStyle.Render("Computing network..."))
	case m.currentTab == summaryTab:
		s.WriteString(m.renderSummary())
	case m.currentTab == clustersTab:
		s.WriteString(m.renderClusters())
	case m.currentTab == viewsTab:
		s.WriteString(m.renderViews())
	case m.currentTab == nodeTab:
		s.WriteString(m.renderNode())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m model) renderThreshold() string {
	line := fmt.Sprintf("Threshold: %g (max %g)", m.threshold, m.sess.MaxThreshold())
	if m.thresholdInput.Focused() {
		line = "Threshold: " + m.thresholdInput.View()
	}
	if m.computing {
		line += "  ⏳"
	} else if m.result != nil && m.result.Threshold != m.threshold {
		line += "  (pending)"
	}
	return contentStyle.Render(line)
}

func (m model) renderTabs() string {
	rendered := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.currentTab {
			rendered[i] = activeTabStyle.Render(name)
		} else {
			rendered[i] = inactiveTabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func statsBlock(title string, st stats.Stats) string {
	var b strings.Builder
	b.WriteString(title + "\n" + rule + "\n")
	for _, row := range st.Rows() {
		fmt.Fprintf(&b, "%-26s %s\n", row.Label, row.Value)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) renderSummary() string {
	boxes := []string{boxStyle.Render(statsBlock("📊 Network", m.result.Stats))}

	if len(m.result.Zips) > 0 {
		var b strings.Builder
		b.WriteString("🗺️  Zip codes\n" + rule + "\n")
		for i, z := range geo.Sorted(m.result.Zips) {
			if i == 12 {
				fmt.Fprintf(&b, "... and %d more", len(m.result.Zips)-12)
				break
			}
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(z.FillColor())).Render("■")
			fmt.Fprintf(&b, "%s %-8s %3d individuals\n", swatch, z.Zip, z.Individuals())
		}
		boxes = append(boxes, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
	}
	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
}

func (m model) renderClusters() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("Clusters (%d shown of %d)", len(m.result.Visible), m.result.Clusters.Len())))
	s.WriteString("\n\n")
	s.WriteString(m.clusterTable.View())
	if m.clusterStats != nil {
		s.WriteString("\n\n")
		s.WriteString(boxStyle.Render(statsBlock(fmt.Sprintf("🔗 Cluster %d", m.clusterID), *m.clusterStats)))
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Navigate with ↑/↓ • Press enter for cluster statistics"))
	return contentStyle.Render(s.String())
}

func (m model) renderViews() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Views"))
	s.WriteString("\n\n")

	vs := m.sess.Views()
	if len(vs) == 0 {
		s.WriteString(helpStyle.Render("No views defined. Add them under views: in the run configuration."))
		return contentStyle.Render(s.String())
	}
	for _, v := range vs {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(v.Color)).Render("●")
		count := 0
		if m.result.Classification != nil {
			count = m.result.Classification.Counts[v.ID]
		}
		fmt.Fprintf(&s, "%s %-40s %5d nodes\n", swatch, v.Name, count)
	}
	return contentStyle.Render(s.String())
}

func (m model) renderNode() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Node Inspector"))
	s.WriteString("\n\n")
	s.WriteString("Sequence id: ")
	s.WriteString(m.nodeInput.View())
	s.WriteString("\n\n")

	if n := m.node; n != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "🔍 %s\n%s\n", n.ID, rule)
		fmt.Fprintf(&b, "Individual:  %s\n", n.IndividualID)
		if n.Singleton() {
			b.WriteString("Cluster:     none (singleton)\n")
		} else {
			fmt.Fprintf(&b, "Cluster:     %d\n", n.Cluster)
		}
		fmt.Fprintf(&b, "Degree:      %d\n", n.Degree)
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color)).Render("●")
		fmt.Fprintf(&b, "Colour:      %s %s\n", swatch, n.Color)
		if len(n.Views) > 0 {
			fmt.Fprintf(&b, "Views:       %s\n", strings.Join(n.Views, ", "))
		}
		if n.Record != nil {
			b.WriteString("\nAttributes\n" + rule + "\n")
			if cats := m.sess.Categories(); cats != nil {
				for _, name := range cats.Names() {
					fmt.Fprintf(&b, "%-12s %s\n", name, n.Record.Get(name))
				}
			}
		}
		if len(n.Neighbors) > 0 {
			b.WriteString("\nNeighbours\n" + rule + "\n")
			for i, id := range n.Neighbors {
				if i == 10 {
					fmt.Fprintf(&b, "... and %d more\n", len(n.Neighbors)-10)
					break
				}
				b.WriteString("  └─ " + id + "\n")
			}
		}
		s.WriteString(boxStyle.Render(strings.TrimRight(b.String(), "\n")))
	}
	return contentStyle.Render(s.String())
}
