// Package tui provides the interactive Bubble Tea dashboard for fburn.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fburn/internal/config"
	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/pipeline"
	"github.com/theirongolddev/fburn/internal/store"
	"github.com/theirongolddev/fburn/internal/tui/components"
	"github.com/theirongolddev/fburn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Entries  []model.Entry
	LoadTime time.Duration
	Err      error
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background data refresh completes.
type RefreshDataMsg struct {
	Entries  []model.Entry
	LoadTime time.Duration
	Err      error
}

// Options configures a new App.
type Options struct {
	DataDir  string
	Days     int
	Vehicle  string
	UseCache bool
	Config   config.Config
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	entries  []model.Entry
	loaded   bool
	loadTime time.Duration
	loadErr  error

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	cfg config.Config

	// Pre-computed for current filter
	vehicles []model.SummaryStats
	logs     []pipeline.VehicleLog
	costs    model.CostBreakdown
	months   []model.MonthlyStats
	profiles []model.ProfileStats

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	selected  int // vehicle shown on the dashboard and fills tabs

	// Filter state
	days          int
	vehicleFilter string

	// Per-tab state
	fills    fillsState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg

	dataDir  string
	useCache bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 110
	maxContentWidth  = 160

	minContentHeight = 5
	minRefresh       = 10 * time.Second
)

const (
	tabDashboard = iota
	tabFills
	tabCosts
	tabSettings
)

// loadConfigOrDefault reads the config file without environment overrides,
// for edits that are saved back. A broken file yields defaults.
func loadConfigOrDefault() config.Config {
	cfg, err := config.LoadFile()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		cfg:             opts.Config,
		dataDir:         opts.DataDir,
		days:            opts.Days,
		vehicleFilter:   opts.Vehicle,
		useCache:        opts.UseCache,
		needSetup:       !config.Exists(),
		autoRefresh:     opts.Config.TUI.AutoRefresh,
		refreshInterval: refreshInterval(opts.Config.TUI.RefreshIntervalSec),
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
	}
}

func refreshInterval(sec int) time.Duration {
	d := time.Duration(sec) * time.Second
	if d < minRefresh {
		return 30 * time.Second
	}
	return d
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dataDir, a.useCache, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

func (a App) fastag() pipeline.Fastag {
	return pipeline.Fastag{TotalTrips: a.cfg.Fastag.TotalTrips, Cost: a.cfg.Fastag.Cost}
}

// recompute rebuilds every derived view. Estimates use the whole history;
// costs and months use the --days window.
func (a *App) recompute() {
	filtered := a.entries
	if a.vehicleFilter != "" {
		filtered = pipeline.FilterByVehicle(filtered, a.vehicleFilter)
	}

	// estimates always see the whole history
	a.vehicles = pipeline.AggregateVehicles(filtered, config.ParamsFunc(a.cfg), a.fastag())
	a.logs = pipeline.GroupByVehicle(filtered)
	a.profiles = pipeline.AggregateProfiles(filtered)

	since, until := pipeline.Window(filtered, a.days, time.Now())
	period := pipeline.FilterByTime(filtered, since, until)
	a.costs = pipeline.AggregateCostBreakdown(period, a.fastag())
	a.months = pipeline.AggregateMonths(filtered, since, until)

	if a.selected >= len(a.vehicles) {
		a.selected = len(a.vehicles) - 1
	}
	if a.selected < 0 {
		a.selected = 0
	}
	a.fills.clamp(len(a.selectedLog().Entries))
}

// selectedVehicle returns the summary of the vehicle in focus.
func (a App) selectedVehicle() (model.SummaryStats, bool) {
	if a.selected < 0 || a.selected >= len(a.vehicles) {
		return model.SummaryStats{}, false
	}
	return a.vehicles[a.selected], true
}

func (a App) selectedLog() pipeline.VehicleLog {
	v, ok := a.selectedVehicle()
	if !ok {
		return pipeline.VehicleLog{}
	}
	for _, l := range a.logs {
		if l.Vehicle == v.Vehicle {
			return l
		}
	}
	return pipeline.VehicleLog{}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.entries = msg.Entries
		a.loadErr = msg.Err
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		a.recompute()

		if a.needSetup {
			a.setupVals = defaultSetupValues(a.cfg, a.dataDir)
			a.setupForm = newSetupForm(len(a.logs), a.dataDir, &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.dataDir, a.useCache))
		}
		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		a.loadErr = msg.Err
		if msg.Err == nil {
			a.entries = msg.Entries
			a.loadTime = msg.LoadTime
			a.recompute()
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabFills {
			a.fills.up()
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabFills {
			a.fills.down(len(a.selectedLog().Entries))
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabFills:
		n := len(a.selectedLog().Entries)
		switch key {
		case "j", "down":
			a.fills.down(n)
			return a, nil
		case "k", "up":
			a.fills.up()
			return a, nil
		case "g":
			a.fills.cursor = 0
			return a, nil
		case "G":
			a.fills.cursor = max(n-1, 0)
			return a, nil
		}
	case tabSettings:
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.dataDir, a.useCache)
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		cfg := loadConfigOrDefault()
		cfg.TUI.AutoRefresh = a.autoRefresh
		_ = config.Save(cfg)
		return a, nil
	case "]", "tab":
		a.cycleVehicle(1)
		return a, nil
	case "[", "shift+tab":
		a.cycleVehicle(-1)
		return a, nil
	case "left", "h":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "l":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if r := []rune(key); len(r) == 1 {
		if tab := components.TabIdxByKey(r[0]); tab >= 0 {
			a.activeTab = tab
		}
	}
	return a, nil
}

func (a *App) cycleVehicle(step int) {
	n := len(a.vehicles)
	if n == 0 {
		return
	}
	a.selected = (a.selected + step + n) % n
	a.fills = fillsState{}
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.settings.saveErr = a.saveSetupConfig()
		a.recompute()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fburn needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ fburn"))
	b.WriteString(subtitleStyle.Render(" · Fuel Log Metrics"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := max(min(40, a.width-30), 20)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(fmt.Sprintf(" Parsing logs %d/%d\n\n", a.progress, a.progressMax)))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), barW))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Reading vehicle logs..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"d f c x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"[ ]", "Previous / Next vehicle"},
			{"j k", "Move through fills and settings"},
			{"g G", "First / Last fill"},
		}},
		{"Actions", [][2]string{
			{"Enter", "Edit setting"},
			{"Esc", "Cancel edit"},
			{"r", "Refresh data"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	window := "all time"
	if a.days > 0 {
		window = fmt.Sprintf("%dd", a.days)
	}
	filter := pillStyle.Render(" ") + accentStyle.Render(window)
	if v, ok := a.selectedVehicle(); ok {
		filter += pillStyle.Render(" │ ") + accentStyle.Render(v.Vehicle)
		if len(a.vehicles) > 1 {
			filter += pillStyle.Render(fmt.Sprintf(" (%d/%d)", a.selected+1, len(a.vehicles)))
		}
	}
	if a.vehicleFilter != "" {
		filter += pillStyle.Render(" │ filter: ") + accentStyle.Render(a.vehicleFilter)
	}
	filterRow := lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filter)

	header := components.RenderTabBar(a.activeTab, w) + "\n" + filterRow
	statusBar := components.RenderStatusBar(w, fmt.Sprintf("%.1fs", a.loadTime.Seconds()), a.refreshing, a.autoRefresh)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.loadErr != nil && len(a.entries) == 0:
		content = components.ContentCard("Error", a.loadErr.Error(), cw)
	case len(a.vehicles) == 0 && a.activeTab != tabSettings:
		content = a.renderEmpty(cw)
	default:
		switch a.activeTab {
		case tabDashboard:
			content = a.renderDashboardTab(cw)
		case tabFills:
			content = a.renderFillsTab(cw, contentH)
		case tabCosts:
			content = a.renderCostsTab(cw)
		case tabSettings:
			content = a.renderSettingsTab(cw)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderEmpty(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	body := muted.Render("No fuel entries found in "+a.dataDir) + "\n" +
		muted.Render("Record one with `fburn add --vehicle <name> --odometer <km> --liters <L> --full`")
	return components.ContentCard("Nothing logged yet", body, cw)
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadEntries runs the cached pipeline, falling back to a full parse.
func loadEntries(dataDir string, useCache bool, progressFn pipeline.ProgressFunc) ([]model.Entry, error) {
	if useCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			cr, loadErr := pipeline.LoadWithCache(dataDir, cache, progressFn)
			_ = cache.Close()
			if loadErr == nil {
				return cr.Entries, nil
			}
		}
	}

	result, err := pipeline.Load(dataDir, progressFn)
	if err != nil {
		return nil, err
	}
	return result.Entries, nil
}

// loadDataCmd starts the data loading pipeline in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(dataDir string, useCache bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking: a skipped update is caught up by the next one.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			entries, err := loadEntries(dataDir, useCache, progressFn)
			sub <- DataLoadedMsg{Entries: entries, LoadTime: time.Since(start), Err: err}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads entries in the background without progress UI.
func refreshDataCmd(dataDir string, useCache bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		entries, err := loadEntries(dataDir, useCache, nil)
		return RefreshDataMsg{Entries: entries, LoadTime: time.Since(start), Err: err}
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow RenderTabBar: tabs separated by a one-column divider.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}
