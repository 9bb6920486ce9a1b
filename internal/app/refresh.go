package app

import (
	"context"
	"fmt"

	"github.com/klokku/weekview/internal/config"
	"github.com/klokku/weekview/pkg/calendar"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// startCalendarRefresh schedules periodic reloads of file backed calendars. The returned
// function stops the schedule.
func startCalendarRefresh(cfg config.Calendar, deps *Dependencies) (func(), error) {
	if cfg.Refresh <= 0 {
		return func() {}, nil
	}
	if _, ok := deps.CalendarManager.(calendar.Reloader); !ok {
		log.Debugf("calendar source %s has nothing to refresh", cfg.Source)
		return func() {}, nil
	}

	scheduler := cron.New()
	_, err := scheduler.AddFunc("@every "+cfg.Refresh.String(), func() {
		if _, err := calendar.Reload(context.Background(), deps.CalendarManager, cfg.Source, deps.EventBus); err != nil {
			log.Errorf("scheduled reload of %s calendar failed: %v", cfg.Source, err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule calendar refresh: %w", err)
	}
	scheduler.Start()
	log.Infof("Refreshing %s calendar every %s", cfg.Source, cfg.Refresh)

	return func() {
		<-scheduler.Stop().Done()
	}, nil
}
