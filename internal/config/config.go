package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klokku/weekview/pkg/layout"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

const (
	SourceSample = "sample"
	SourceFile   = "file"
	SourceICS    = "ics"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Application struct {
	Server    Server    `koanf:"server"`
	View      View      `koanf:"view"`
	Calendar  Calendar  `koanf:"calendar"`
	Indicator Indicator `koanf:"indicator"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type View struct {
	VisibleDays    int     `koanf:"visibledays"`
	VisibleHours   int     `koanf:"visiblehours"`
	DaysInFuture   int     `koanf:"daysinfuture"`
	ViewportHeight float64 `koanf:"viewportheight"`
	ViewportWidth  float64 `koanf:"viewportwidth"`
	// Timezone is an IANA name; empty means the host's local zone.
	Timezone     string `koanf:"timezone"`
	LaneStrategy string `koanf:"lanestrategy"`
}

type Calendar struct {
	// Source is one of sample, file or ics.
	Source string `koanf:"source"`
	Path   string `koanf:"path"`
	// Refresh re-reads file and ics calendars periodically; zero disables it.
	Refresh time.Duration `koanf:"refresh"`
}

type Indicator struct {
	Interval time.Duration `koanf:"interval"`
}

func Defaults() Application {
	return Application{
		Server: Server{Addr: ":8181"},
		View: View{
			VisibleDays:    layout.DefaultVisibleDays,
			VisibleHours:   layout.DefaultVisibleHours,
			DaysInFuture:   layout.DefaultDaysInFuture,
			ViewportHeight: 1200,
			ViewportWidth:  400,
			LaneStrategy:   string(layout.PerEventLanes),
		},
		Calendar:  Calendar{Source: SourceSample},
		Indicator: Indicator{Interval: time.Minute},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "WEEKVIEW_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "WEEKVIEW_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if err := app.Validate(); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (a Application) Validate() error {
	if _, err := a.View.Location(); err != nil {
		return err
	}
	if err := a.View.LayoutConfig(time.Now()).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch a.Calendar.Source {
	case SourceSample:
	case SourceFile, SourceICS:
		if a.Calendar.Path == "" {
			return fmt.Errorf("%w: calendar source %q requires calendar.path", ErrInvalidConfig, a.Calendar.Source)
		}
	default:
		return fmt.Errorf("%w: unknown calendar source %q", ErrInvalidConfig, a.Calendar.Source)
	}
	if a.Calendar.Refresh != 0 && a.Calendar.Refresh < time.Second {
		return fmt.Errorf("%w: calendar refresh must be 0 or at least 1s, got %s", ErrInvalidConfig, a.Calendar.Refresh)
	}
	if a.Indicator.Interval < time.Second {
		return fmt.Errorf("%w: indicator interval must be at least 1s, got %s", ErrInvalidConfig, a.Indicator.Interval)
	}
	return nil
}

// Location resolves the configured timezone.
func (v View) Location() (*time.Location, error) {
	if v.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(v.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q: %w", ErrInvalidConfig, v.Timezone, err)
	}
	return loc, nil
}

// LayoutConfig builds the layout configuration for a view anchored at today. An invalid
// timezone falls back to the local zone; Validate reports it.
func (v View) LayoutConfig(today time.Time) layout.Config {
	loc, err := v.Location()
	if err != nil {
		loc = time.Local
	}
	return layout.Config{
		VisibleDays:    v.VisibleDays,
		VisibleHours:   v.VisibleHours,
		DaysInFuture:   v.DaysInFuture,
		ViewportHeight: v.ViewportHeight,
		ViewportWidth:  v.ViewportWidth,
		Location:       loc,
		Today:          today,
		Strategy:       layout.LaneStrategy(v.LaneStrategy),
	}
}
