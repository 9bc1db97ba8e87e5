package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/fburn/internal/config"
	"github.com/theirongolddev/fburn/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run form answers.
type setupValues struct {
	dataDir     string
	tankCap     string
	defaultEcon string
	days        int
	theme       string
}

func defaultSetupValues(cfg config.Config, dataDir string) setupValues {
	return setupValues{
		dataDir:     dataDir,
		tankCap:     formatFloat(cfg.Vehicle.TankCapacityL),
		defaultEcon: formatFloat(cfg.Vehicle.DefaultEfficiency),
		days:        cfg.General.DefaultDays,
		theme:       cfg.Appearance.Theme,
	}
}

func validatePositive(s string) error {
	_, err := positiveFloat(strings.TrimSpace(s))
	return err
}

func newSetupForm(vehicles int, dataDir string, vals *setupValues) *huh.Form {
	welcome := "No vehicle logs yet. Record fills with `fburn add`."
	if vehicles > 0 {
		welcome = fmt.Sprintf("Found %d vehicle logs in %s.", vehicles, dataDir)
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fburn").
				Description(welcome+"\nA few questions and the dashboard is yours."),
			huh.NewInput().
				Title("Log directory").
				Description("One CSV per vehicle lives here.").
				Value(&vals.dataDir),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Tank capacity (liters)").
				Description("Usable capacity up to the automatic cutoff.").
				Validate(validatePositive).
				Value(&vals.tankCap),
			huh.NewInput().
				Title("Default fuel economy (km/L)").
				Description("Used until two full-tank fills are logged.").
				Validate(validatePositive).
				Value(&vals.defaultEcon),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default time window for costs").
				Options(
					huh.NewOption("30 days", 30),
					huh.NewOption("90 days", 90),
					huh.NewOption("365 days", 365),
					huh.NewOption("All time", 0),
				).
				Value(&vals.days),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	).WithTheme(huh.ThemeDracula())
}

// saveSetupConfig persists the form answers and applies them to the app.
func (a *App) saveSetupConfig() error {
	cfg := loadConfigOrDefault()

	if dir := strings.TrimSpace(a.setupVals.dataDir); dir != "" && dir != a.dataDir {
		cfg.General.DataDir = dir
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(a.setupVals.tankCap), 64); err == nil && f > 0 {
		cfg.Vehicle.TankCapacityL = f
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(a.setupVals.defaultEcon), 64); err == nil && f > 0 {
		cfg.Vehicle.DefaultEfficiency = f
	}
	cfg.General.DefaultDays = a.setupVals.days
	if _, ok := theme.ByName(a.setupVals.theme); ok {
		cfg.Appearance.Theme = a.setupVals.theme
	}

	a.cfg.Vehicle.TankCapacityL = cfg.Vehicle.TankCapacityL
	a.cfg.Vehicle.DefaultEfficiency = cfg.Vehicle.DefaultEfficiency
	a.cfg.General.DefaultDays = cfg.General.DefaultDays
	a.cfg.Appearance.Theme = cfg.Appearance.Theme
	a.days = cfg.General.DefaultDays
	theme.SetActive(cfg.Appearance.Theme)

	return config.Save(cfg)
}
