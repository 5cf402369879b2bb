// Package license implements the time-boxed trial gate.
//
// The gate is a three-state machine: Trialing until 48 hours have elapsed
// since the first-ever run, TrialExpired after that, and Premium once a
// license key has been activated. Premium is terminal; expiry checks are
// skipped permanently. The state is recomputed from the wall clock on every
// authorization check, never cached, so a trial can expire (or a purchase
// can land) mid-session.
//
// The gate is cosmetic feature-gating for a local app, not a security
// boundary.
package license

import (
	"time"

	"github.com/openpos/tillpoint/internal/errs"
	"github.com/openpos/tillpoint/internal/models"
)

// TrialDuration is how long the trial window stays open.
const TrialDuration = 48 * time.Hour

// ResetChallenge is the fixed token an operator must echo back before a
// system reset proceeds.
const ResetChallenge = "12345"

// State is the gate's current position in the trial state machine.
type State int

const (
	// Trialing means the 48 hour window is still open.
	Trialing State = iota
	// TrialExpired means the window has closed without an upgrade. The only
	// way out is license activation.
	TrialExpired
	// Premium means a license key was activated. Terminal.
	Premium
)

func (s State) String() string {
	switch s {
	case Trialing:
		return "trialing"
	case TrialExpired:
		return "trial expired"
	case Premium:
		return "premium"
	default:
		return "unknown"
	}
}

// Action is a gated operation.
type Action string

const (
	ActionViewSettings   Action = "view settings"
	ActionMutateSettings Action = "save settings"
	ActionResetSystem    Action = "reset system"
)

// Gate authorizes premium actions against the trial state.
type Gate struct {
	info models.TrialInfo
	keys *KeyVerifier
	now  func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate builds a gate over the given trial info. secret is the HMAC key
// license tokens are verified against.
func NewGate(info models.TrialInfo, secret string, opts ...Option) *Gate {
	g := &Gate{
		info: info,
		keys: NewKeyVerifier(secret),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State recomputes the current state from the wall clock. Premium short
// circuits: once upgraded, elapsed time is irrelevant.
func (g *Gate) State() State {
	if g.info.IsPremium {
		return Premium
	}
	if g.now().Sub(g.info.StartedAt) > TrialDuration {
		return TrialExpired
	}
	return Trialing
}

// Authorize permits the action iff the gate is Premium. Callers invoke this
// at the start of every gated entry point rather than caching the answer.
func (g *Gate) Authorize(a Action) error {
	if state := g.State(); state != Premium {
		return errs.Authorization(string(a), state.String())
	}
	return nil
}

// Activate verifies a license key and, on success, flips the premium flag.
// The caller persists the updated trial info.
func (g *Gate) Activate(key string) error {
	if _, err := g.keys.Verify(key); err != nil {
		return err
	}
	g.info.IsPremium = true
	return nil
}

// Restart reopens a fresh trial window at the given instant, dropping any
// premium flag. Used only by the system reset path.
func (g *Gate) Restart(at time.Time) {
	g.info = models.NewTrialInfo(at)
}

// Info returns the current trial info for persistence.
func (g *Gate) Info() models.TrialInfo {
	return g.info
}

// Remaining returns how much of the trial window is left, zero once it has
// closed. Premium gates report zero as well; the value is display-only.
func (g *Gate) Remaining() time.Duration {
	if g.info.IsPremium {
		return 0
	}
	left := TrialDuration - g.now().Sub(g.info.StartedAt)
	if left < 0 {
		return 0
	}
	return left
}
