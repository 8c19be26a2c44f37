// Package netsync builds per-client delta snapshots: view-distance
// filtering against the entity set, full/delta/leave record selection
// against a per-client lastSent cache, and a fixed critical-field set
// that is always included for stability. Grounded on the teacher's
// visibility_manager.go interest-set/staleness idiom and the
// Mikko-Finell hub's lastSent/keyframe delta-vs-full logic.
package netsync

import "math"

// DefaultViewDistance is the radius (px) within which an entity is
// relevant to a client, applied as squared Euclidean distance.
const DefaultViewDistance = 1200

// positionEpsilon is the per-field tolerance for position float equality.
const positionEpsilon = 0.01

// RecordKind distinguishes the three snapshot record shapes.
type RecordKind string

const (
	RecordFull  RecordKind = "full"
	RecordDelta RecordKind = "delta"
	RecordLeave RecordKind = "leave"
)

// EntitySnapshot is one entity's full field set at this tick, as seen by
// the network layer. Fields are carried generically so this package does
// not need to import entitystore's concrete Player/Monster/Projectile
// shapes — callers flatten their own types into this map.
type EntitySnapshot struct {
	ID       string
	Position [2]float64
	Fields   map[string]any
}

// Record is one entity's outbound snapshot record for a single client.
type Record struct {
	EntityID string
	Kind     RecordKind
	Fields   map[string]any // full field set for Full, changed+critical fields for Delta, nil for Leave
}

// criticalFields are always included in a delta record regardless of
// whether they changed, so a client that missed a full snapshot can still
// recover basic entity state.
var criticalFields = map[string]bool{
	"position":         true,
	"hp":               true,
	"facing":           true,
	"isDead":           true,
	"isInvulnerable":   true,
	"lastProcessedSeq": true,
}

// ClientCache tracks what one client was last sent for each entity it
// knows about.
type ClientCache struct {
	viewDistance float64
	lastSent     map[string]map[string]any
}

// NewClientCache builds an empty cache using viewDistance (defaults to
// DefaultViewDistance when zero or negative).
func NewClientCache(viewDistance float64) *ClientCache {
	if viewDistance <= 0 {
		viewDistance = DefaultViewDistance
	}
	return &ClientCache{viewDistance: viewDistance, lastSent: make(map[string]map[string]any)}
}

// Build computes this tick's outbound records for a client centered on
// selfPos, given the full set of currently live entities and the client's
// own (always-included) entity id.
func (c *ClientCache) Build(selfPos [2]float64, selfID string, entities []EntitySnapshot) []Record {
	relevantIDs := make(map[string]bool, len(entities))
	var records []Record

	for _, e := range entities {
		if e.ID != selfID && !withinViewDistance(selfPos, e.Position, c.viewDistance) {
			continue
		}
		relevantIDs[e.ID] = true

		prev, known := c.lastSent[e.ID]
		if !known {
			records = append(records, Record{EntityID: e.ID, Kind: RecordFull, Fields: copyFields(e.Fields)})
			c.lastSent[e.ID] = copyFields(e.Fields)
			continue
		}

		changed := diffFields(prev, e.Fields)
		records = append(records, Record{EntityID: e.ID, Kind: RecordDelta, Fields: changed})
		c.lastSent[e.ID] = copyFields(e.Fields)
	}

	for id := range c.lastSent {
		if !relevantIDs[id] {
			records = append(records, Record{EntityID: id, Kind: RecordLeave})
			delete(c.lastSent, id)
		}
	}

	return records
}

func withinViewDistance(a, b [2]float64, viewDistance float64) bool {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx+dy*dy <= viewDistance*viewDistance
}

// diffFields returns every field whose value differs from prev (per the
// positional epsilon for position-shaped values), unioned with the fixed
// critical field set.
func diffFields(prev, curr map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range curr {
		if criticalFields[k] {
			out[k] = v
			continue
		}
		pv, existed := prev[k]
		if !existed || !fieldsEqual(pv, v) {
			out[k] = v
		}
	}
	return out
}

func fieldsEqual(a, b any) bool {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && math.Abs(av-bv) <= positionEpsilon
	case [2]float64:
		bv, ok := b.([2]float64)
		return ok && math.Abs(av[0]-bv[0]) <= positionEpsilon && math.Abs(av[1]-bv[1]) <= positionEpsilon
	default:
		return a == b
	}
}

func copyFields(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
