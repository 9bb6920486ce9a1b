package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klokku/weekview/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsWhenFileIsMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, 1, cfg.View.VisibleDays)
	assert.Equal(t, 12, cfg.View.VisibleHours)
	assert.Equal(t, 15, cfg.View.DaysInFuture)
	assert.Equal(t, time.Minute, cfg.Indicator.Interval)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
view:
  visibledays: 7
  visiblehours: 24
  daysinfuture: 7
  viewportheight: 960
  viewportwidth: 700
  timezone: Europe/Warsaw
  lanestrategy: cluster
calendar:
  source: file
  path: ./events.yaml
  refresh: 5m
indicator:
  interval: 30s
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, View{
		VisibleDays:    7,
		VisibleHours:   24,
		DaysInFuture:   7,
		ViewportHeight: 960,
		ViewportWidth:  700,
		Timezone:       "Europe/Warsaw",
		LaneStrategy:   "cluster",
	}, cfg.View)
	assert.Equal(t, Calendar{Source: SourceFile, Path: "./events.yaml", Refresh: 5 * time.Minute}, cfg.Calendar)
	assert.Equal(t, 30*time.Second, cfg.Indicator.Interval)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
view:
  visiblehours: 10
`)
	t.Setenv("WEEKVIEW_VIEW_VISIBLEHOURS", "8")
	t.Setenv("WEEKVIEW_SERVER_ADDR", ":7000")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 8, cfg.View.VisibleHours)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "view: [unterminated")

	_, err := Load(path)

	assert.Error(t, err)
}

func TestApplication_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Application)
	}{
		{"visible hours out of range", func(a *Application) { a.View.VisibleHours = 30 }},
		{"no visible days", func(a *Application) { a.View.VisibleDays = 0 }},
		{"days in future above a year", func(a *Application) { a.View.DaysInFuture = 400 }},
		{"no viewport height", func(a *Application) { a.View.ViewportHeight = 0 }},
		{"unknown lane strategy", func(a *Application) { a.View.LaneStrategy = "graph" }},
		{"unknown timezone", func(a *Application) { a.View.Timezone = "Mars/Olympus" }},
		{"unknown source", func(a *Application) { a.Calendar.Source = "caldav" }},
		{"file source without path", func(a *Application) { a.Calendar.Source = SourceFile }},
		{"ics source without path", func(a *Application) { a.Calendar.Source = SourceICS }},
		{"calendar refresh too short", func(a *Application) { a.Calendar.Refresh = 10 * time.Millisecond }},
		{"indicator interval too short", func(a *Application) { a.Indicator.Interval = time.Millisecond }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := Defaults()
			tc.modify(&app)

			assert.ErrorIs(t, app.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, Defaults().Validate())
}

func TestView_LayoutConfig(t *testing.T) {
	view := Defaults().View
	view.Timezone = "UTC"
	view.LaneStrategy = "cluster"
	today := time.Date(2026, time.January, 12, 9, 0, 0, 0, time.UTC)

	cfg := view.LayoutConfig(today)

	assert.Equal(t, layout.Config{
		VisibleDays:    1,
		VisibleHours:   12,
		DaysInFuture:   15,
		ViewportHeight: 1200,
		ViewportWidth:  400,
		Location:       time.UTC,
		Today:          today,
		Strategy:       layout.ClusterLanes,
	}, cfg)
	assert.NoError(t, cfg.Validate())
}
