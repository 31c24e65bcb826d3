// Package tui provides a Bubble Tea TUI for browsing archive contents.
package tui

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/wheeltools/internal/archive"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Active tab: bright, underlined
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	// Inactive tab: muted
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	// Separator between tabs
	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a tab
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Key=value label
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	kindDirStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	kindExecStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	kindLinkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	// Expanded entry detail block
	detailMetaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	// Selected row in the Entries list
	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabEntries
	tabLargest
	tabTypes
	tabCount
)

var tabNames = [tabCount]string{
	"Summary", "Entries", "Largest", "Types",
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	report    *archive.Report
	filename  string
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	sortAsc   bool
	// Entries tab: cursor position and expanded set
	entryCursor     int
	expandedEntries map[int]bool
}

// New creates a new TUI model for the given report and source filename.
func New(r *archive.Report, filename string) Model {
	return Model{
		report:          r,
		filename:        filepath.Base(filename),
		sortAsc:         false,
		expandedEntries: make(map[int]bool),
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "s":
			if m.activeTab == tabLargest {
				m.sortAsc = !m.sortAsc
				m.rebuildLargestViewport()
			}
		case "up", "k":
			if m.activeTab == tabEntries && m.entryCursor > 0 {
				m.entryCursor--
				m.rebuildEntriesViewport()
				return m, nil
			}
		case "down", "j":
			if m.activeTab == tabEntries && m.entryCursor < len(m.report.Entries)-1 {
				m.entryCursor++
				m.rebuildEntriesViewport()
				return m, nil
			}
		case "enter", " ":
			if m.activeTab == tabEntries && len(m.report.Entries) > 0 {
				if m.expandedEntries[m.entryCursor] {
					delete(m.expandedEntries, m.entryCursor)
				} else {
					m.expandedEntries[m.entryCursor] = true
				}
				m.rebuildEntriesViewport()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	// ── Row 1: title bar ──────────────────────────────────────────────────────
	title := titleStyle.Width(m.width).Render("  wheeltools  " + m.filename)

	// ── Row 2: tab bar ────────────────────────────────────────────────────────
	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	// ── Row 3…N-1: scrollable content ────────────────────────────────────────
	content := m.viewports[m.activeTab].View()

	// ── Row N: status / hint bar ──────────────────────────────────────────────
	hint := "  ←/→ tab  ↑/↓ scroll  1-4 jump  q quit"
	if m.activeTab == tabLargest {
		dir := "largest first"
		if m.sortAsc {
			dir = "smallest first"
		}
		hint += "  s sort (" + dir + ")"
	}
	if m.activeTab == tabEntries {
		hint += "  ↑/↓ select  enter expand/collapse"
	}
	// show scroll % on the right
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) rebuildLargestViewport() {
	m.viewports[tabLargest].SetContent(m.renderTab(tabLargest))
	m.viewports[tabLargest].GotoTop()
}

func (m *Model) rebuildEntriesViewport() {
	m.viewports[tabEntries].SetContent(m.renderTab(tabEntries))
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabEntries:
		return m.renderEntries()
	case tabLargest:
		return m.renderLargest()
	case tabTypes:
		return m.renderTypes()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *Model) renderSummary() string {
	s := m.report.Summary
	var sb strings.Builder
	sb.WriteString(heading("Archive Summary"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)) + "  " + value + "\n")
	}
	row("Archive:", s.Path)
	row("Files:", fmt.Sprintf("%d", s.Files))
	row("Directories:", fmt.Sprintf("%d", s.Dirs))
	row("Size:", fmt.Sprintf("%s (%d bytes)", humanSize(s.TotalSize), s.TotalSize))
	row("Compressed:", fmt.Sprintf("%s (%d bytes)", humanSize(s.TotalCompressed), s.TotalCompressed))
	row("Ratio:", fmt.Sprintf("%.1f%%", s.Ratio()*100))

	execs, links := 0, 0
	for _, e := range m.report.Entries {
		if e.Mode&fs.ModeSymlink != 0 {
			links++
		} else if !e.IsDir && e.Mode&0o111 != 0 {
			execs++
		}
	}
	sb.WriteString("\n")
	sb.WriteString(heading("Counts"))
	row("Executables:", fmt.Sprintf("%d", execs))
	row("Symlinks:", fmt.Sprintf("%d", links))
	row("File Types:", fmt.Sprintf("%d", len(groupByExt(m.report.Entries))))
	return sb.String()
}

func (m *Model) renderEntries() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Entries (%d)", len(m.report.Entries))))
	if len(m.report.Entries) == 0 {
		sb.WriteString(dimStyle.Render("  (empty archive)") + "\n")
		return sb.String()
	}
	for i, e := range m.report.Entries {
		expanded := m.expandedEntries[i]

		var icon string
		switch {
		case e.IsDir:
			icon = kindDirStyle.Render("◆ ")
		case e.Mode&fs.ModeSymlink != 0:
			icon = kindLinkStyle.Render("↪ ")
		case e.Mode&0o111 != 0:
			icon = kindExecStyle.Render("● ")
		default:
			icon = dimStyle.Render("○ ")
		}

		toggle := dimStyle.Render("  ▶ ")
		if expanded {
			toggle = dimStyle.Render("  ▼ ")
		}

		size := timeStyle.Render(fmt.Sprintf("%9s", humanSize(e.Size)))
		row := fmt.Sprintf("%s%s%s  %s", toggle, icon, size, e.Name)
		if i == m.entryCursor {
			// Pad to width so the highlight fills the line
			row = selectedRowStyle.Width(m.width - 2).Render(row)
		}
		sb.WriteString(row + "\n")

		// Expanded detail block
		if expanded {
			sb.WriteString(renderDetail(e, m.width))
			sb.WriteString("\n")
		} else {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderDetail renders the bordered metadata block for an expanded entry.
func renderDetail(e archive.Entry, width int) string {
	var sb strings.Builder
	border := dimStyle.Render("  " + strings.Repeat("─", width-4))
	sb.WriteString(border + "\n")
	row := func(label, value string) {
		sb.WriteString(detailMetaStyle.Render(fmt.Sprintf("    %-12s", label)) + value + "\n")
	}
	row("Mode:", e.Mode.String())
	row("Size:", fmt.Sprintf("%d bytes", e.Size))
	row("Compressed:", fmt.Sprintf("%d bytes", e.Compressed))
	row("CRC32:", fmt.Sprintf("%08x", e.CRC32))
	if !e.Modified.IsZero() {
		row("Modified:", e.Modified.Format("2006-01-02 15:04:05 MST"))
	}
	sb.WriteString(border + "\n")
	return sb.String()
}

func (m *Model) renderLargest() string {
	var sb strings.Builder

	dir := "largest first"
	if m.sortAsc {
		dir = "smallest first"
	}
	sb.WriteString(heading(fmt.Sprintf("Files by Size (%s)", dir)))

	var files []archive.Entry
	for _, e := range m.report.Entries {
		if !e.IsDir {
			files = append(files, e)
		}
	}
	if m.sortAsc {
		sort.Slice(files, func(i, j int) bool { return files[i].Size < files[j].Size })
	} else {
		sort.Slice(files, func(i, j int) bool { return files[i].Size > files[j].Size })
	}

	if len(files) == 0 {
		sb.WriteString(dimStyle.Render("  (no files in this archive)") + "\n")
		return sb.String()
	}

	total := m.report.Summary.TotalSize
	for i, e := range files {
		num := dimStyle.Render(fmt.Sprintf("  %3d.", i+1))
		size := timeStyle.Render(fmt.Sprintf(" %9s", humanSize(e.Size)))
		share := ""
		if total > 0 {
			share = dimStyle.Render(fmt.Sprintf("  %4.1f%%", float64(e.Size)/float64(total)*100))
		}
		sb.WriteString(num + size + share + "  " + e.Name + "\n\n")
	}
	return sb.String()
}

func (m *Model) renderTypes() string {
	var sb strings.Builder

	groups := groupByExt(m.report.Entries)
	sb.WriteString(heading(fmt.Sprintf("File Types (%d)", len(groups))))
	if len(groups) == 0 {
		sb.WriteString(dimStyle.Render("  (no files in this archive)") + "\n")
		return sb.String()
	}

	exts := make([]string, 0, len(groups))
	for ext := range groups {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if groups[exts[i]].size != groups[exts[j]].size {
			return groups[exts[i]].size > groups[exts[j]].size
		}
		return exts[i] < exts[j]
	})

	for _, ext := range exts {
		g := groups[ext]
		label := labelStyle.Render(fmt.Sprintf("  %-12s", ext))
		count := fmt.Sprintf("%4d file(s)", g.count)
		size := timeStyle.Render(fmt.Sprintf("  %9s", humanSize(g.size)))
		sb.WriteString(label + count + size + "\n\n")
	}
	return sb.String()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type extGroup struct {
	count int
	size  uint64
}

// groupByExt buckets file entries by extension. Files without an
// extension are grouped under their base name, so RECORD and METADATA
// show up as themselves rather than vanishing into one blank bucket.
func groupByExt(entries []archive.Entry) map[string]extGroup {
	groups := make(map[string]extGroup)
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		ext := path.Ext(e.Name)
		if ext == "" {
			ext = path.Base(e.Name)
		}
		g := groups[ext]
		g.count++
		g.size += e.Size
		groups[ext] = g
	}
	return groups
}

// humanSize formats a byte count with binary prefixes.
func humanSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Run starts the TUI for the given report.
func Run(r *archive.Report, filename string) error {
	p := tea.NewProgram(New(r, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
