package tui

import (
	"os"
	"testing"
	"time"

	"github.com/theirongolddev/fburn/internal/config"
	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(vehicle string, id int, odo, liters float64, full bool) model.Entry {
	return model.Entry{
		ID:           id,
		Vehicle:      vehicle,
		Date:         time.Now().AddDate(0, 0, id-10),
		DriveProfile: model.ProfileCity,
		ACMode:       model.ACMixed,
		Odometer:     odo,
		LitersAdded:  liters,
		CostPerLiter: 100,
		FullTank:     full,
	}
}

func testEntries() []model.Entry {
	return []model.Entry{
		entry("swift", 1, 1000, 30, true),
		entry("swift", 2, 1400, 20, true),
		entry("swift", 3, 1900, 20, true),
		entry("swift", 4, 2050, 5, false),
		entry("activa", 1, 500, 4, true),
		entry("activa", 2, 700, 4, true),
	}
}

// loadedApp returns an App past loading and setup.
func loadedApp(t *testing.T) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	a := NewApp(Options{DataDir: t.TempDir(), Days: 30, Config: config.DefaultConfig()})
	a.needSetup = false
	a.width, a.height = 120, 40

	m, _ := a.Update(DataLoadedMsg{Entries: testEntries(), LoadTime: time.Second})
	return m.(App)
}

func press(t *testing.T, a App, key tea.KeyMsg) App {
	t.Helper()
	m, _ := a.Update(key)
	return m.(App)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			require.Equal(t, i, a.tabAtX(pos+w/2), "active=%d x=%d", active, pos+w/2)
			pos += w + 1
		}
		assert.Equal(t, -1, a.tabAtX(pos+50), "x past the last tab")
	}
}

func TestRecompute(t *testing.T) {
	a := loadedApp(t)
	require.True(t, a.loaded)

	require.Len(t, a.vehicles, 2)
	assert.Equal(t, "activa", a.vehicles[0].Vehicle)
	assert.Equal(t, "swift", a.vehicles[1].Vehicle)
	assert.InDelta(t, 22.5, a.vehicles[1].Efficiency, 1e-9)
	assert.Positive(t, a.costs.Total)
	assert.NotEmpty(t, a.months)
}

func TestRecompute_VehicleFilter(t *testing.T) {
	a := loadedApp(t)
	a.vehicleFilter = "SWI"
	a.selected = 1
	a.recompute()

	require.Len(t, a.vehicles, 1)
	assert.Equal(t, "swift", a.vehicles[0].Vehicle)
	assert.Equal(t, 0, a.selected, "selection clamped")
}

func TestRecompute_AllTimeWindow(t *testing.T) {
	a := loadedApp(t)
	old := entry("swift", 0, 600, 10, true)
	old.Date = time.Now().AddDate(0, -3, 0)
	a.entries = append(a.entries, old)
	a.days = 0
	a.recompute()

	var fuel float64
	for _, m := range a.months {
		fuel += m.FuelCost
	}
	assert.InDelta(t, 9300, fuel, 1e-6, "every fill lands in a month")
	assert.GreaterOrEqual(t, len(a.months), 4, "months reach back to the oldest fill")
	assert.InDelta(t, 9300, a.costs.Categories[0].Amount, 1e-6)
}

func TestUpdate_TabAndVehicleKeys(t *testing.T) {
	a := loadedApp(t)

	a = press(t, a, runes("f"))
	assert.Equal(t, tabFills, a.activeTab)
	a = press(t, a, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabCosts, a.activeTab)
	a = press(t, a, runes("x"))
	assert.Equal(t, tabSettings, a.activeTab)

	a = press(t, a, runes("]"))
	v, _ := a.selectedVehicle()
	assert.Equal(t, "swift", v.Vehicle)
	a = press(t, a, runes("]"))
	v, _ = a.selectedVehicle()
	assert.Equal(t, "activa", v.Vehicle, "wraps around")
}

func TestUpdate_FillsCursor(t *testing.T) {
	a := loadedApp(t)
	a = press(t, a, runes("]")) // swift, 4 entries
	a = press(t, a, runes("f"))

	for range 10 {
		a = press(t, a, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 3, a.fills.cursor)
	a = press(t, a, runes("g"))
	assert.Equal(t, 0, a.fills.cursor)
}

func TestFillsScroll(t *testing.T) {
	s := fillsState{cursor: 9}
	s.scroll(4)
	assert.Equal(t, 6, s.offset)
	s.cursor = 2
	s.scroll(4)
	assert.Equal(t, 2, s.offset)
}

func settingsIndex(t *testing.T, label string) int {
	t.Helper()
	for i, f := range settingsFields {
		if f.label == label {
			return i
		}
	}
	t.Fatalf("no settings field %q", label)
	return -1
}

func TestSettingsSave(t *testing.T) {
	a := loadedApp(t)
	a.settings.cursor = settingsIndex(t, "Tank Capacity (L)")

	require.NoError(t, a.settingsSave("40"))
	assert.Equal(t, 40.0, a.cfg.Vehicle.TankCapacityL)
	assert.Equal(t, 40.0, a.vehicles[0].TankCapacity, "summaries recomputed")

	saved, err := config.LoadFile()
	require.NoError(t, err)
	assert.Equal(t, 40.0, saved.Vehicle.TankCapacityL)
}

func TestSettingsSave_KeepsEnvOutOfFile(t *testing.T) {
	a := loadedApp(t)
	t.Setenv("FBURN_MQTT_PASSWORD", "hunter2")
	t.Setenv("FBURN_TANK_CAPACITY", "50")

	a.settings.cursor = settingsIndex(t, "FASTag Trips")
	require.NoError(t, a.settingsSave("150"))

	raw, err := os.ReadFile(config.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2")

	saved, err := config.LoadFile()
	require.NoError(t, err)
	assert.Equal(t, 150, saved.Fastag.TotalTrips)
	assert.Equal(t, 35.0, saved.Vehicle.TankCapacityL)
}

func TestSettingsSave_Invalid(t *testing.T) {
	a := loadedApp(t)

	cases := map[string]string{
		"Tank Capacity (L)": "-3",
		"Weighting":         "median",
		"Theme":             "neon",
		"Refresh Interval":  "5",
		"Auto Refresh":      "sometimes",
	}
	for label, val := range cases {
		a.settings.cursor = settingsIndex(t, label)
		assert.ErrorIs(t, a.settingsSave(val), errInvalidSetting, "%s=%q", label, val)
	}
	assert.False(t, config.Exists(), "invalid settings were written to disk")
}

func TestSettingsSave_DaysApplies(t *testing.T) {
	a := loadedApp(t)
	a.settings.cursor = settingsIndex(t, "Default Days")

	require.NoError(t, a.settingsSave("0"))
	assert.Equal(t, 0, a.days)
}

func TestView_RendersEveryTab(t *testing.T) {
	a := loadedApp(t)
	for i, tab := range components.Tabs {
		a.activeTab = i
		out := a.View()
		require.NotEmpty(t, out, "%s tab", tab.Name)
		assert.Contains(t, out, "Settings", "%s tab is missing the tab bar", tab.Name)
	}
}

func TestView_TooNarrow(t *testing.T) {
	a := loadedApp(t)
	a.width = 60
	assert.Contains(t, a.View(), "too narrow")
}
