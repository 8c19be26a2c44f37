// Package transport is the Socket Handler / Game Loop edge (spec §4.11,
// §6): a WebSocket connection per client, a closed JSON message schema in
// each direction, the Event Reliability Classifier that decides which
// outbound events may be coalesced and which must arrive in order, and
// the fixed-tick loop that drives the GameInstance. Grounded on the
// teacher's cmd/gameserver/main.go wiring style (errgroup, slog,
// signal-driven shutdown) and on Mikko-Finell's hub.go subscriber/ack
// pattern, since the teacher's own transport (internal/gslistener) is a
// bespoke binary protocol that doesn't fit a JSON duplex-stream contract.
package transport

import "encoding/json"

// envelope is the wire shape every message, in either direction, is
// carried in: a type tag plus a type-specific payload. Unknown fields on
// an inbound envelope are dropped by encoding/json's default decode
// behavior, per spec §9's closed-field-schema design note.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func encode(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: msgType, Data: raw})
}

// --- client -> server payloads ---

type inputPayload struct {
	Sequence  uint64   `json:"sequence"`
	Timestamp int64    `json:"timestamp"`
	Keys      []string `json:"keys"`
	Facing    string   `json:"facing"`
	DeltaTime float64  `json:"deltaTime"`
}

type abilityRequestPayload struct {
	Type  string   `json:"type"`
	Angle *float64 `json:"angle,omitempty"`
}

type pingPayload struct {
	Sequence   uint64 `json:"sequence"`
	ClientTime int64  `json:"clientTime"`
}

type classSelectPayload struct {
	ClassName string `json:"className"`
}

// readyPayload carries no fields; ready is a bare trigger.
type readyPayload struct{}

// --- server -> client payloads ---

type worldInitPayload struct {
	Seed             int64   `json:"seed"`
	TileSize         float64 `json:"tileSize"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	CollisionMaskRef string  `json:"collisionMaskRef"`
}

type entityRecordPayload struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	UpdateType string         `json:"updateType"`
	Fields     map[string]any `json:"fields,omitempty"`
}

type projectileRecordPayload struct {
	ID        string  `json:"id"`
	OwnerID   string  `json:"ownerId"`
	OwnerKind string  `json:"ownerKind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Angle     float64 `json:"angle"`
	EffectTag string  `json:"effectTag,omitempty"`
}

type statePayload struct {
	Tick             int64                     `json:"tick"`
	ServerTime       int64                     `json:"serverTime"`
	LastProcessedSeq uint64                    `json:"lastProcessedSeq"`
	Entities         []entityRecordPayload     `json:"entities"`
	Projectiles      []projectileRecordPayload `json:"projectiles"`
}

type damageEventPayload struct {
	TargetID   string `json:"targetId"`
	AttackerID string `json:"attackerId"`
	Amount     int32  `json:"amount"`
}

type entitySpawnPayload struct {
	ID     string         `json:"id"`
	Kind   string         `json:"kind"`
	Fields map[string]any `json:"fields"`
}

type entityDespawnPayload struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

type levelUpPayload struct {
	PlayerID string `json:"playerId"`
	NewLevel int32  `json:"newLevel"`
}

type playerDiedPayload struct {
	PlayerID   string `json:"playerId"`
	AttackerID string `json:"attackerId"`
}

type playerRespawnedPayload struct {
	PlayerID string `json:"playerId"`
}

type playerJoinedPayload struct {
	PlayerID  string `json:"playerId"`
	ClassName string `json:"className"`
}

type playerLeftPayload struct {
	PlayerID string `json:"playerId"`
}

type abilityTelegraphPayload struct {
	MonsterID string `json:"monsterId"`
	Facing    string `json:"facing"`
}

type pongPayload struct {
	Sequence   uint64 `json:"sequence"`
	ClientTime int64  `json:"clientTime"`
	ServerTime int64  `json:"serverTime"`
}
