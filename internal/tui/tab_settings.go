package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/config"
	"github.com/theirongolddev/fburn/internal/tui/components"
	"github.com/theirongolddev/fburn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// settingsField is one editable row of the settings tab. set validates the
// raw input and writes it into cfg; apply pushes it into the running app.
type settingsField struct {
	label       string
	placeholder string
	get         func(cfg config.Config) string
	set         func(cfg *config.Config, val string) error
	apply       func(a *App)
}

var errInvalidSetting = errors.New("invalid value")

func positiveFloat(val string) (float64, error) {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("%w: want a positive number", errInvalidSetting)
	}
	return f, nil
}

func nonNegativeInt(val string) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: want a whole number", errInvalidSetting)
	}
	return n, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var settingsFields = []settingsField{
	{
		label:       "Theme",
		placeholder: strings.Join(theme.Names(), ", "),
		get:         func(cfg config.Config) string { return cfg.Appearance.Theme },
		set: func(cfg *config.Config, val string) error {
			if _, ok := theme.ByName(val); !ok {
				return fmt.Errorf("%w: unknown theme %q", errInvalidSetting, val)
			}
			cfg.Appearance.Theme = val
			return nil
		},
		apply: func(a *App) { theme.SetActive(a.cfg.Appearance.Theme) },
	},
	{
		label:       "Default Days",
		placeholder: "30 (0 for all time)",
		get:         func(cfg config.Config) string { return strconv.Itoa(cfg.General.DefaultDays) },
		set: func(cfg *config.Config, val string) error {
			n, err := nonNegativeInt(val)
			if err == nil {
				cfg.General.DefaultDays = n
			}
			return err
		},
		apply: func(a *App) { a.days = a.cfg.General.DefaultDays },
	},
	{
		label:       "Currency",
		placeholder: "₹",
		get:         func(cfg config.Config) string { return cfg.General.Currency },
		set: func(cfg *config.Config, val string) error {
			if val == "" {
				return fmt.Errorf("%w: currency symbol is empty", errInvalidSetting)
			}
			cfg.General.Currency = val
			return nil
		},
		apply: func(a *App) { cli.Currency = a.cfg.General.Currency },
	},
	{
		label:       "Tank Capacity (L)",
		placeholder: "35",
		get:         func(cfg config.Config) string { return formatFloat(cfg.Vehicle.TankCapacityL) },
		set: func(cfg *config.Config, val string) error {
			f, err := positiveFloat(val)
			if err == nil {
				cfg.Vehicle.TankCapacityL = f
			}
			return err
		},
	},
	{
		label:       "Default Economy",
		placeholder: "15 (km/L until two full tanks)",
		get:         func(cfg config.Config) string { return formatFloat(cfg.Vehicle.DefaultEfficiency) },
		set: func(cfg *config.Config, val string) error {
			f, err := positiveFloat(val)
			if err == nil {
				cfg.Vehicle.DefaultEfficiency = f
			}
			return err
		},
	},
	{
		label:       "Weighting",
		placeholder: "equal or distance",
		get: func(cfg config.Config) string {
			if cfg.Vehicle.Weighting == "" {
				return "equal"
			}
			return cfg.Vehicle.Weighting
		},
		set: func(cfg *config.Config, val string) error {
			if val != "equal" && val != "distance" {
				return fmt.Errorf("%w: want equal or distance", errInvalidSetting)
			}
			cfg.Vehicle.Weighting = val
			return nil
		},
	},
	{
		label:       "Recent Intervals",
		placeholder: "0 (average every interval)",
		get:         func(cfg config.Config) string { return strconv.Itoa(cfg.Vehicle.RecentIntervals) },
		set: func(cfg *config.Config, val string) error {
			n, err := nonNegativeInt(val)
			if err == nil {
				cfg.Vehicle.RecentIntervals = n
			}
			return err
		},
	},
	{
		label:       "FASTag Trips",
		placeholder: "200",
		get:         func(cfg config.Config) string { return strconv.Itoa(cfg.Fastag.TotalTrips) },
		set: func(cfg *config.Config, val string) error {
			n, err := nonNegativeInt(val)
			if err == nil {
				cfg.Fastag.TotalTrips = n
			}
			return err
		},
	},
	{
		label:       "FASTag Cost",
		placeholder: "3000",
		get:         func(cfg config.Config) string { return formatFloat(cfg.Fastag.Cost) },
		set: func(cfg *config.Config, val string) error {
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("%w: want a number", errInvalidSetting)
			}
			cfg.Fastag.Cost = f
			return nil
		},
	},
	{
		label:       "Auto Refresh",
		placeholder: "true or false",
		get:         func(cfg config.Config) string { return strconv.FormatBool(cfg.TUI.AutoRefresh) },
		set: func(cfg *config.Config, val string) error {
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("%w: want true or false", errInvalidSetting)
			}
			cfg.TUI.AutoRefresh = b
			return nil
		},
		apply: func(a *App) { a.autoRefresh = a.cfg.TUI.AutoRefresh },
	},
	{
		label:       "Refresh Interval",
		placeholder: "30 (seconds, minimum 10)",
		get:         func(cfg config.Config) string { return strconv.Itoa(cfg.TUI.RefreshIntervalSec) },
		set: func(cfg *config.Config, val string) error {
			n, err := strconv.Atoi(val)
			if err != nil || time.Duration(n)*time.Second < minRefresh {
				return fmt.Errorf("%w: want at least 10 seconds", errInvalidSetting)
			}
			cfg.TUI.RefreshIntervalSec = n
			return nil
		},
		apply: func(a *App) { a.refreshInterval = refreshInterval(a.cfg.TUI.RefreshIntervalSec) },
	},
}

var settingsFieldCount = len(settingsFields)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	f := settingsFields[a.settings.cursor]
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	ti.Placeholder = f.placeholder
	ti.SetValue(f.get(a.cfg))
	ti.Focus()

	a.settings.input = ti
	return a, textinput.Blink
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.saveErr = a.settingsSave(strings.TrimSpace(a.settings.input.Value()))
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates val, persists it and applies it to the running app.
func (a *App) settingsSave(val string) error {
	f := settingsFields[a.settings.cursor]

	cfg := loadConfigOrDefault()
	if err := f.set(&cfg, val); err != nil {
		return err
	}
	if err := f.set(&a.cfg, val); err != nil {
		return err
	}
	if f.apply != nil {
		f.apply(a)
	}
	a.recompute()
	return config.Save(cfg)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	innerW := components.CardInnerWidth(cw)

	var form strings.Builder
	for i, f := range settingsFields {
		switch {
		case a.settings.editing && i == a.settings.cursor:
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-20s ", f.label)))
			form.WriteString(a.settings.input.View())
		case i == a.settings.cursor:
			row := markerStyle.Render("▸ ") +
				selectedLabelStyle.Render(fmt.Sprintf("%-20s ", f.label+":")) +
				selectedStyle.Render(f.get(a.cfg))
			form.WriteString(row)
			if pad := innerW - lipgloss.Width(row); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		default:
			form.WriteString(labelStyle.Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-20s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.get(a.cfg)))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		form.WriteString("\n")
		form.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved!"))
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	info := [][2]string{
		{"Data directory", a.dataDir},
		{"Vehicles", strconv.Itoa(len(a.logs))},
		{"Entries loaded", cli.FormatNumber(int64(len(a.entries)))},
		{"Load time", fmt.Sprintf("%.1fs", a.loadTime.Seconds())},
		{"Config file", config.Path()},
	}
	if len(a.cfg.Vehicles) > 0 {
		info = append(info, [2]string{"Per-vehicle overrides", strconv.Itoa(len(a.cfg.Vehicles))})
	}
	var infoBody strings.Builder
	for i, kv := range info {
		if i > 0 {
			infoBody.WriteString("\n")
		}
		infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-23s", kv[0]+":")) + valueStyle.Render(kv[1]))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
