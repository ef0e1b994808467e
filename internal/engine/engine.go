// Package engine compares a status snapshot against the persisted state,
// classifies per-component transitions, and dispatches notifications.
package engine

import (
	"context"
	"time"

	"statuswatch/internal/config"
	"statuswatch/internal/history"
	"statuswatch/internal/message"
	"statuswatch/internal/notify"
	"statuswatch/internal/state"
	"statuswatch/internal/status"
	logx "statuswatch/pkg/logx"
)

// Kind classifies a component transition between two observations.
type Kind string

const (
	KindNone           Kind = "none"
	KindNewDegradation Kind = "new_degradation"
	KindDegradation    Kind = "degradation"
	KindRecovery       Kind = "recovery"
)

// Event is the engine-internal record of one classified transition.
type Event struct {
	ComponentID string
	Name        string
	Kind        Kind
	PrevStatus  string // empty when no previous status is known
	Status      string
}

// Category maps the transition kind onto a message/template category.
func (e Event) Category() string {
	if e.Kind == KindRecovery {
		return message.CategoryRecovery
	}
	return message.CategoryDegradation
}

// Classify applies the transition rules for one component against the
// prior state. First match wins:
//
//  1. unknown component, degraded  -> new_degradation
//  2. known component: operational->degraded = degradation,
//     degraded->operational = recovery, otherwise none
//  3. unknown component, operational -> none
func Classify(c status.Component, prior state.State) Event {
	ev := Event{ComponentID: c.ID, Name: c.Name, Kind: KindNone, Status: c.Status}

	old, known := prior[c.ID]
	if !known {
		if !c.Operational() {
			ev.Kind = KindNewDegradation
		}
		return ev
	}

	ev.PrevStatus = old.Status
	switch {
	case old.Status == status.StatusOperational && !c.Operational():
		ev.Kind = KindDegradation
	case old.Status != status.StatusOperational && c.Operational():
		ev.Kind = KindRecovery
	}
	return ev
}

// PolicyFunc resolves the notification policy for a component id.
type PolicyFunc func(id string) config.Policy

// Engine is the diff & dispatch orchestrator.
type Engine struct {
	notifier notify.Provider
	history  history.Store // optional
	log      logx.Logger
	now      func() time.Time
}

func New(notifier notify.Provider, hist history.Store, log logx.Logger) *Engine {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Engine{notifier: notifier, history: hist, log: log, now: time.Now}
}

// SetClock overrides the engine clock. Used by tests and the simulated
// transition sequence.
func (e *Engine) SetClock(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// Process diffs snapshot against prior, notifies per policy, and returns
// the updated state plus whether any unsuppressed issue was seen.
//
// Transitions are evaluated against the pre-update prior state throughout;
// state derivation never looks at partially-updated records, so a
// continuing degradation keeps its original issue_start. Components absent
// from the snapshot are dropped from the returned state. A failed send is
// logged and never aborts processing of the remaining components.
func (e *Engine) Process(ctx context.Context, snapshot []status.Component, prior state.State, policyFor PolicyFunc) (state.State, bool) {
	if policyFor == nil {
		policyFor = func(string) config.Policy { return config.DefaultPolicy() }
	}

	now := e.now()
	updated := make(state.State, len(snapshot))
	anyIssues := false

	for _, c := range snapshot {
		e.log.Debug("component observed", logx.String("component", c.Name), logx.String("status", c.Status))

		updated[c.ID] = e.deriveRecord(c, prior, now)

		ev := Classify(c, prior)
		if ev.Kind == KindNone {
			continue
		}

		pol := policyFor(c.ID)
		if !pol.Enabled {
			e.log.Info("notifications disabled for component", logx.String("component", c.Name))
			e.record(ctx, ev, now, false)
			continue
		}

		suppressed := false
		if ev.Kind == KindRecovery {
			suppressed = !pol.NotifyRecovery
		} else {
			suppressed = !pol.NotifyDegradation
			if !suppressed {
				anyIssues = true
			}
		}
		if suppressed {
			e.log.Debug("notification suppressed by policy",
				logx.String("component", c.Name), logx.String("kind", string(ev.Kind)))
			e.record(ctx, ev, now, false)
			continue
		}

		sent := e.dispatch(ctx, ev, pol, prior, now)
		e.record(ctx, ev, now, sent)
	}

	return updated, anyIssues
}

// deriveRecord builds the fresh state record for a snapshot component.
// issue_start comes from the pre-update prior state: kept while the
// component stays degraded, set to now when newly degraded, absent when
// operational.
func (e *Engine) deriveRecord(c status.Component, prior state.State, now time.Time) state.Record {
	rec := state.Record{Name: c.Name, Status: c.Status, LastUpdated: now}
	if c.Operational() {
		return rec
	}
	if old, ok := prior[c.ID]; ok && old.IssueStart != nil {
		t := *old.IssueStart
		rec.IssueStart = &t
		return rec
	}
	t := now
	rec.IssueStart = &t
	return rec
}

func (e *Engine) dispatch(ctx context.Context, ev Event, pol config.Policy, prior state.State, now time.Time) bool {
	in := message.Input{
		Name:       ev.Name,
		Status:     ev.Status,
		PrevStatus: ev.PrevStatus,
		Category:   ev.Category(),
	}
	if ev.Kind == KindRecovery {
		if old, ok := prior[ev.ComponentID]; ok {
			in.IssueStart = old.IssueStart
		}
	}

	title, body, err := message.Format(in, pol.Messages, now)
	if err != nil {
		// A malformed custom template must not produce a broken alert.
		e.log.Error("message format failed; notification skipped",
			logx.String("component", ev.Name), logx.String("kind", string(ev.Kind)), logx.Err(err))
		return false
	}

	if e.notifier == nil {
		return false
	}
	ok := e.notifier.Send(ctx, title, body)
	if !ok {
		// Failure is isolated per component; keep going.
		e.log.Warn("notification send failed",
			logx.String("component", ev.Name), logx.String("kind", string(ev.Kind)))
	}
	return ok
}

func (e *Engine) record(ctx context.Context, ev Event, at time.Time, notified bool) {
	if e.history == nil {
		return
	}
	err := e.history.Append(ctx, history.Entry{
		At:          at,
		ComponentID: ev.ComponentID,
		Name:        ev.Name,
		Kind:        string(ev.Kind),
		PrevStatus:  ev.PrevStatus,
		Status:      ev.Status,
		Notified:    notified,
	})
	if err != nil {
		e.log.Warn("history append failed", logx.String("component", ev.ComponentID), logx.Err(err))
	}
}
