// Package runner owns top-level control flow: the single-shot check, the
// simulated transition sequence, and watch mode.
package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"statuswatch/internal/config"
	"statuswatch/internal/engine"
	"statuswatch/internal/history"
	"statuswatch/internal/notify"
	"statuswatch/internal/state"
	"statuswatch/internal/status"
	logx "statuswatch/pkg/logx"
)

type Runner struct {
	mgr    *config.Manager
	logSvc *logx.Service
	log    logx.Logger
	sec    notify.Secrets

	// stateOverride, when non-empty, wins over config.state.path.
	stateOverride string

	mu       sync.Mutex
	notifier *notify.Service

	// running guards against overlapping checks in watch mode.
	running sync.Mutex
}

func New(mgr *config.Manager, logSvc *logx.Service, log logx.Logger, sec notify.Secrets, stateOverride string) (*Runner, error) {
	r := &Runner{
		mgr:           mgr,
		logSvc:        logSvc,
		log:           log,
		sec:           sec,
		stateOverride: stateOverride,
	}
	if err := r.apply(mgr.Get()); err != nil {
		return nil, err
	}
	return r, nil
}

// apply rebuilds the notification pipeline from cfg. Called at startup
// and on config reload.
func (r *Runner) apply(cfg *config.Config) error {
	provider, err := notify.NewProvider(cfg.Notifications, r.sec, r.log)
	if err != nil {
		return err
	}
	svc := notify.NewService(provider, cfg.Notifications.RatePerSec, r.log)

	r.mu.Lock()
	r.notifier = svc
	r.mu.Unlock()
	return nil
}

func (r *Runner) currentNotifier() *notify.Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notifier
}

func (r *Runner) statePath(cfg *config.Config) string {
	if strings.TrimSpace(r.stateOverride) != "" {
		return r.stateOverride
	}
	return cfg.State.Path
}

// RunOnce performs a single fetch + check. Any failure, fetch or check,
// triggers a best-effort failure notification before it is returned.
func (r *Runner) RunOnce(ctx context.Context) error {
	cfg := r.mgr.Get()

	client := status.NewClient(cfg.Feed.URL, cfg.FeedTimeout())
	snapshot, err := client.Fetch(ctx)
	if err != nil {
		r.notifyFailure(ctx, err)
		return err
	}

	if err := r.check(ctx, cfg, snapshot); err != nil {
		r.notifyFailure(ctx, err)
		return err
	}
	return nil
}

// RunTest exercises the notification path with a deterministic four-step
// sequence: live baseline, one component down, a second down, full
// recovery.
func (r *Runner) RunTest(ctx context.Context) error {
	cfg := r.mgr.Get()
	r.log.Info("running in test mode - simulating status changes")

	r.log.Info("test 1: checking current status (baseline)")
	client := status.NewClient(cfg.Feed.URL, cfg.FeedTimeout())
	snapshot, err := client.Fetch(ctx)
	if err != nil {
		r.notifyFailure(ctx, err)
		return err
	}
	if err := r.check(ctx, cfg, snapshot); err != nil {
		r.notifyFailure(ctx, err)
		return err
	}

	for i, step := range status.TestSteps() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
		r.log.Info(fmt.Sprintf("test %d: simulated snapshot", i+2))
		if err := r.check(ctx, cfg, status.Normalize(step)); err != nil {
			r.notifyFailure(ctx, err)
			return err
		}
	}

	r.log.Info("test sequence completed")
	return nil
}

// check runs one engine pass over snapshot and persists the result.
func (r *Runner) check(ctx context.Context, cfg *config.Config, snapshot []status.Component) error {
	r.running.Lock()
	defer r.running.Unlock()

	hist, err := history.Open(cfg.History, r.log)
	if err != nil {
		r.log.Warn("history store unavailable; continuing without it", logx.Err(err))
		hist = nil
	}
	if hist != nil {
		defer hist.Close()
	}

	store := state.NewStore(r.statePath(cfg), r.log)
	prior := store.Load()

	eng := engine.New(r.currentNotifier(), hist, r.log)
	updated, anyIssues := eng.Process(ctx, snapshot, prior, cfg.PolicyFor)
	if !anyIssues {
		r.log.Info("all components are operational")
	}

	if err := store.Save(updated); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	r.log.Debug("state saved", logx.Int("components", len(updated)))
	return nil
}

// notifyFailure reports a fatal run error through the notification port,
// best effort. There is no lower fallback: a failure here is swallowed.
func (r *Runner) notifyFailure(ctx context.Context, cause error) {
	n := r.currentNotifier()
	if n == nil {
		return
	}
	// Don't let a dead transport hold up process exit.
	sctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if !n.Send(sctx, "Status Checker Error",
		fmt.Sprintf("The status checker encountered an error: %v", cause)) {
		r.log.Error("failed to send error notification")
	}
}
