package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-seqnet/pkg/config"
	"github.com/dd0wney/cluso-seqnet/pkg/session"
	"github.com/dd0wney/cluso-seqnet/pkg/stats"
	"github.com/dd0wney/cluso-seqnet/pkg/views"
)

// debounceDelay is how long the threshold must stay still before a recompute.
const debounceDelay = 500 * time.Millisecond

// thresholdStep is the increment of the arrow keys.
const thresholdStep = 0.001

type tab int

const (
	summaryTab tab = iota
	clustersTab
	viewsTab
	nodeTab
	tabCount
)

var tabNames = [...]string{"Summary", "Clusters", "Views", "Node"}

type keyMap struct {
	Tab       key.Binding
	ShiftTab  key.Binding
	Lower     key.Binding
	Raise     key.Binding
	Threshold key.Binding
	Enter     key.Binding
	Escape    key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	ShiftTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
	Lower:     key.NewBinding(key.WithKeys("left", "-"), key.WithHelp("←/-", "lower threshold")),
	Raise:     key.NewBinding(key.WithKeys("right", "+"), key.WithHelp("→/+", "raise threshold")),
	Threshold: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type threshold")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Lower, k.Raise, k.Threshold, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab},
		{k.Lower, k.Raise, k.Threshold, k.Enter, k.Escape},
		{k.Quit},
	}
}

// debounceMsg fires after debounceDelay; only the latest seq triggers a recompute.
type debounceMsg struct{ seq int }

// resultMsg carries a finished recompute.
type resultMsg struct {
	res *session.Result
	err error
}

type model struct {
	sess *session.Session

	threshold float64
	seq       int
	computing bool
	result    *session.Result

	currentTab     tab
	thresholdInput textinput.Model
	nodeInput      textinput.Model
	clusterTable   table.Model
	clusterStats   *stats.Stats
	clusterID      int
	node           *session.NodeInfo

	help       help.Model
	keys       keyMap
	width      int
	height     int
	message    string
	messageErr bool
}

func initialModel(s *session.Session, threshold float64) model {
	ti := textinput.New()
	ti.Placeholder = strconv.FormatFloat(config.DefaultThreshold, 'f', -1, 64)
	ti.CharLimit = 12
	ti.Width = 12

	ni := textinput.New()
	ni.Placeholder = "sequence id"
	ni.CharLimit = 200
	ni.Width = 40

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Size", Width: 6},
			{Title: "Edges", Width: 7},
			{Title: "Triangles", Width: 10},
			{Title: "Seed", Width: 30},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(st)

	return model{
		sess:           s,
		threshold:      threshold,
		thresholdInput: ti,
		nodeInput:      ni,
		clusterTable:   t,
		help:           help.New(),
		keys:           keys,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, recompute(m.sess, m.threshold))
}

// recompute rebuilds the network off the UI goroutine.
func recompute(s *session.Session, t float64) tea.Cmd {
	return func() tea.Msg {
		res, err := s.SetThreshold(t)
		return resultMsg{res: res, err: err}
	}
}

// schedule records t as the wanted threshold and starts a new debounce window.
func (m *model) schedule(t float64) tea.Cmd {
	t = math.Round(t*1e6) / 1e6
	if err := m.sess.ValidateThreshold(t); err != nil {
		m.setError(err)
		return nil
	}
	m.threshold = t
	m.seq++
	seq := m.seq
	m.message = ""
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg { return debounceMsg{seq: seq} })
}

func (m model) inputFocused() bool {
	return m.thresholdInput.Focused() || m.nodeInput.Focused()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case debounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.computing = true
		return m, recompute(m.sess, m.threshold)

	case resultMsg:
		m.computing = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if !m.sess.Current(msg.res) {
			return m, nil
		}
		if msg.res.Threshold != m.threshold {
			m.computing = true
			return m, recompute(m.sess, m.threshold)
		}
		m.result = msg.res
		m.clusterStats = nil
		m.node = nil
		m.refreshClusters()
		m.setInfo(fmt.Sprintf("Threshold %g: %d clusters, %d active nodes",
			msg.res.Threshold, msg.res.Clusters.Len(), msg.res.Graph.NodeCount()))
		return m, nil

	case tea.KeyMsg:
		if m.thresholdInput.Focused() {
			return m.updateThresholdInput(msg)
		}
		if m.nodeInput.Focused() {
			return m.updateNodeInput(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.currentTab = (m.currentTab + 1) % tabCount
			return m, m.enterTab()
		case key.Matches(msg, m.keys.ShiftTab):
			m.currentTab = (m.currentTab + tabCount - 1) % tabCount
			return m, m.enterTab()
		case key.Matches(msg, m.keys.Lower):
			return m, m.schedule(m.threshold - thresholdStep)
		case key.Matches(msg, m.keys.Raise):
			return m, m.schedule(m.threshold + thresholdStep)
		case key.Matches(msg, m.keys.Threshold):
			m.thresholdInput.SetValue("")
			return m, m.thresholdInput.Focus()
		case key.Matches(msg, m.keys.Enter) && m.currentTab == clustersTab:
			m.showSelectedCluster()
			return m, nil
		}

		if m.currentTab == clustersTab {
			var cmd tea.Cmd
			m.clusterTable, cmd = m.clusterTable.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *model) enterTab() tea.Cmd {
	if m.currentTab == nodeTab {
		return m.nodeInput.Focus()
	}
	m.nodeInput.Blur()
	return nil
}

func (m model) updateThresholdInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.thresholdInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.thresholdInput.Blur()
		t, err := strconv.ParseFloat(strings.TrimSpace(m.thresholdInput.Value()), 64)
		if err != nil {
			m.setError(fmt.Errorf("not a number: %q", m.thresholdInput.Value()))
			return m, nil
		}
		return m, m.schedule(t)
	}
	var cmd tea.Cmd
	m.thresholdInput, cmd = m.thresholdInput.Update(msg)
	return m, cmd
}

func (m model) updateNodeInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Escape):
		m.nodeInput.Blur()
		if !key.Matches(msg, m.keys.Escape) {
			return m.Update(msg)
		}
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		info, err := m.sess.InspectNode(strings.TrimSpace(m.nodeInput.Value()))
		if err != nil {
			m.node = nil
			m.setError(err)
			return m, nil
		}
		m.node = &info
		m.message = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.nodeInput, cmd = m.nodeInput.Update(msg)
	return m, cmd
}

func (m *model) refreshClusters() {
	visible := m.result.Visible
	rows := make([]table.Row, 0, len(visible))
	for i := len(visible) - 1; i >= 0; i-- {
		c := visible[i]
		rows = append(rows, table.Row{
			strconv.Itoa(c.ID),
			strconv.Itoa(c.Size),
			strconv.Itoa(c.Edges),
			strconv.Itoa(c.Triangles),
			c.Seed,
		})
	}
	m.clusterTable.SetRows(rows)
	m.clusterTable.SetCursor(0)
}

func (m *model) showSelectedCluster() {
	row := m.clusterTable.SelectedRow()
	if row == nil {
		return
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return
	}
	st, err := m.sess.ClusterStats(id)
	if err != nil {
		m.setError(err)
		return
	}
	m.clusterID = id
	m.clusterStats = &st
}

func (m *model) setError(err error) {
	m.message = err.Error()
	m.messageErr = true
}

func (m *model) setInfo(msg string) {
	m.message = msg
	m.messageErr = false
}

func viewRequest(v config.View) views.Request {
	return views.Request{Color: v.Color, Selectors: v.Selectors}
}
