package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/robfig/cron/v3"

	"statuswatch/internal/config"
	logx "statuswatch/pkg/logx"
)

// Watch runs checks repeatedly on the configured schedule until ctx is
// cancelled. The config file is hot-reloaded; logging and the
// notification pipeline pick up changes, and a schedule change takes
// effect at the next tick.
func (r *Runner) Watch(ctx context.Context) error {
	cfg := r.mgr.Get()

	loc := time.Local
	if tz := cfg.Watch.Timezone; tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("watch.timezone: %w", err)
		}
		loc = l
	}

	sched, err := ParseSchedule(cfg.Watch.Schedule, loc)
	if err != nil {
		return fmt.Errorf("watch.schedule: %w", err)
	}

	// Follow config file edits while running.
	updates := r.mgr.Subscribe(1)
	defer r.mgr.Unsubscribe(updates)
	go func() { _ = r.mgr.Watch(ctx) }()

	// Under systemd, report readiness and service the watchdog.
	sdReady()
	stopWatchdog := startWatchdog(ctx, r.log)
	defer stopWatchdog()

	r.log.Info("watch mode started", logx.String("schedule", cfg.Watch.Schedule))

	// Run one check immediately so a freshly started watcher is useful
	// before the first scheduled tick.
	r.runScheduled(ctx)

	for {
		next := sched.Next(time.Now().In(loc))
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			r.log.Info("watch mode stopped")
			return nil

		case newCfg := <-updates:
			timer.Stop()
			r.applyReload(newCfg, loc, &sched)

		case <-timer.C:
			r.runScheduled(ctx)
		}
	}
}

// runScheduled performs one check; in watch mode a failed run is reported
// and absorbed rather than killing the process.
func (r *Runner) runScheduled(ctx context.Context) {
	if err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
		r.log.Error("scheduled check failed", logx.Err(err))
	}
}

func (r *Runner) applyReload(cfg *config.Config, loc *time.Location, sched *cron.Schedule) {
	if cfg == nil {
		return
	}

	if r.logSvc != nil {
		r.logSvc.Apply(logx.Config{
			Level:   cfg.Logging.Level,
			Console: cfg.Logging.Console,
			File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
		})
	}

	if err := r.apply(cfg); err != nil {
		// Keep the previous pipeline; the committed config may reference
		// credentials that are not in the environment.
		r.log.Warn("config reload: notification pipeline unchanged", logx.Err(err))
	}

	if s, err := ParseSchedule(cfg.Watch.Schedule, loc); err != nil {
		r.log.Warn("config reload: keeping previous schedule", logx.Err(err))
	} else {
		*sched = s
		r.log.Info("schedule updated", logx.String("schedule", cfg.Watch.Schedule))
	}
}

func sdReady() {
	// Returns false when not running under systemd; nothing to do then.
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
}

// startWatchdog services the systemd watchdog at half the configured
// interval. It is a no-op when WatchdogSec is not set.
func startWatchdog(ctx context.Context, log logx.Logger) (stop func()) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return func() {}
	}

	wctx, cancel := context.WithCancel(ctx)
	go func() {
		t := time.NewTicker(interval / 2)
		defer t.Stop()
		for {
			select {
			case <-wctx.Done():
				return
			case <-t.C:
				if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
					log.Warn("sd_notify watchdog failed", logx.Err(err))
				}
			}
		}
	}()
	return cancel
}
