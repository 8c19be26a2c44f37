// Package anticheat validates per-session input and ability requests
// against rate, movement, and sequence bounds, escalating repeat
// violations from a soft flag to a disconnect. Grounded on the teacher's
// flood-protection configuration (FloodProtection/FastConnectionLimit) and
// the token-bucket limiter the Mikko-Finell hub uses to throttle outbound
// keyframes, here repurposed to throttle inbound input/ability requests.
package anticheat

import "math"

// Config holds the validation thresholds for one session. All fields are
// configuration data (spec §9), not fixed constants.
type Config struct {
	InputRatePerSecond   float64
	MovementSafetyFactor float64
	AbilityRateMargin    float64
	SoftFlagThreshold    int
	DisconnectThreshold  int
}

// DefaultConfig returns this build's anti-cheat defaults.
func DefaultConfig() Config {
	return Config{
		InputRatePerSecond:   120,
		MovementSafetyFactor: 1.2,
		AbilityRateMargin:    2,
		SoftFlagThreshold:    5,
		DisconnectThreshold:  15,
	}
}

// TokenBucket is a simple token-bucket rate limiter keyed to the
// simulation's own millisecond clock rather than wall-clock time, so it
// composes with the rest of the tick pipeline without a time.Time
// dependency.
type TokenBucket struct {
	capacity     float64
	tokens       float64
	refillPerMs  float64
	lastRefillMs int64
	initialized  bool
}

// NewTokenBucket builds a bucket with the given capacity and refill rate
// in tokens per second.
func NewTokenBucket(capacity, refillPerSecond float64) *TokenBucket {
	return &TokenBucket{
		capacity:    capacity,
		tokens:      capacity,
		refillPerMs: refillPerSecond / 1000,
	}
}

// Allow reports whether an event may proceed at nowMs, consuming one
// token if so.
func (b *TokenBucket) Allow(nowMs int64) bool {
	if b.capacity <= 0 || b.refillPerMs <= 0 {
		return true
	}
	if !b.initialized {
		b.lastRefillMs = nowMs
		b.initialized = true
	}
	elapsed := nowMs - b.lastRefillMs
	if elapsed > 0 {
		b.tokens += float64(elapsed) * b.refillPerMs
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.lastRefillMs = nowMs
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Stats is the read-only view of a session's anti-cheat state, exposed to
// the external debug collaborator per spec §4.9.
type Stats struct {
	ViolationCount int
	Flagged        bool
	Disconnected   bool
}

// Session tracks one player's anti-cheat state across ticks.
type Session struct {
	cfg            Config
	inputBucket    *TokenBucket
	abilityBucket  *TokenBucket
	lastSequence   uint64
	hasSequence    bool
	violationCount int
	flagged        bool
	disconnected   bool
}

// NewSession builds a session using cfg. mostPermissiveCooldownMs is the
// shortest cooldown across the player's class attack table, used to size
// the ability rate cap per spec's "most permissive class-specific
// cooldown divided by a margin" rule.
func NewSession(cfg Config, mostPermissiveCooldownMs float64) *Session {
	abilityRate := 1000.0 / math.Max(mostPermissiveCooldownMs/cfg.AbilityRateMargin, 1)
	return &Session{
		cfg:           cfg,
		inputBucket:   NewTokenBucket(cfg.InputRatePerSecond, cfg.InputRatePerSecond),
		abilityBucket: NewTokenBucket(math.Max(abilityRate, 1), abilityRate),
	}
}

// Stats returns the session's current read-only anti-cheat statistics.
func (s *Session) Stats() Stats {
	return Stats{ViolationCount: s.violationCount, Flagged: s.flagged, Disconnected: s.disconnected}
}

// Disconnected reports whether the session has crossed the disconnect
// threshold.
func (s *Session) Disconnected() bool { return s.disconnected }

// ValidateInput checks sequence monotonicity, the input rate cap, and a
// movement-delta bound, escalating on any failure. dx/dy is the proposed
// per-tick displacement; maxSpeed and dt bound the allowed magnitude.
func (s *Session) ValidateInput(nowMs int64, sequence uint64, dx, dy, dt, maxSpeed float64) bool {
	if s.disconnected {
		return false
	}

	if s.hasSequence && sequence <= s.lastSequence {
		s.escalate()
		return false
	}
	if !s.inputBucket.Allow(nowMs) {
		s.escalate()
		return false
	}
	allowedDelta := maxSpeed * dt * s.cfg.MovementSafetyFactor
	if math.Hypot(dx, dy) > allowedDelta {
		s.escalate()
		return false
	}

	s.lastSequence = sequence
	s.hasSequence = true
	return true
}

// ValidateAbility checks the ability rate cap, escalating on failure.
func (s *Session) ValidateAbility(nowMs int64) bool {
	if s.disconnected {
		return false
	}
	if !s.abilityBucket.Allow(nowMs) {
		s.escalate()
		return false
	}
	return true
}

func (s *Session) escalate() {
	s.violationCount++
	if s.violationCount >= s.cfg.DisconnectThreshold {
		s.disconnected = true
		return
	}
	if s.violationCount >= s.cfg.SoftFlagThreshold {
		s.flagged = true
	}
}
