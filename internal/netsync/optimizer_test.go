package netsync

import "testing"

func findRecord(records []Record, id string) *Record {
	for i := range records {
		if records[i].EntityID == id {
			return &records[i]
		}
	}
	return nil
}

func TestFirstSightingEmitsFullRecord(t *testing.T) {
	c := NewClientCache(1000)
	entities := []EntitySnapshot{
		{ID: "m1", Position: [2]float64{10, 10}, Fields: map[string]any{"hp": 30.0}},
	}

	records := c.Build([2]float64{0, 0}, "self", entities)
	r := findRecord(records, "m1")
	if r == nil || r.Kind != RecordFull {
		t.Fatalf("expected full record for new entity, got %+v", records)
	}
}

func TestUnchangedNonCriticalFieldOmittedFromDelta(t *testing.T) {
	c := NewClientCache(1000)
	entities := []EntitySnapshot{
		{ID: "m1", Position: [2]float64{10, 10}, Fields: map[string]any{"hp": 30.0, "killStreak": 2.0}},
	}
	c.Build([2]float64{0, 0}, "self", entities)

	records := c.Build([2]float64{0, 0}, "self", entities)
	r := findRecord(records, "m1")
	if r == nil || r.Kind != RecordDelta {
		t.Fatalf("expected delta record, got %+v", records)
	}
	if _, ok := r.Fields["killStreak"]; ok {
		t.Fatal("expected unchanged non-critical field omitted from delta")
	}
}

func TestCriticalFieldAlwaysIncludedInDelta(t *testing.T) {
	c := NewClientCache(1000)
	entities := []EntitySnapshot{
		{ID: "m1", Position: [2]float64{10, 10}, Fields: map[string]any{"hp": 30.0}},
	}
	c.Build([2]float64{0, 0}, "self", entities)

	records := c.Build([2]float64{0, 0}, "self", entities) // hp unchanged but critical
	r := findRecord(records, "m1")
	if _, ok := r.Fields["hp"]; !ok {
		t.Fatal("expected critical field hp included even though unchanged")
	}
}

func TestChangedFieldIncludedInDelta(t *testing.T) {
	c := NewClientCache(1000)
	c.Build([2]float64{0, 0}, "self", []EntitySnapshot{{ID: "m1", Fields: map[string]any{"killStreak": 1.0}}})

	records := c.Build([2]float64{0, 0}, "self", []EntitySnapshot{{ID: "m1", Fields: map[string]any{"killStreak": 2.0}}})
	r := findRecord(records, "m1")
	if v, ok := r.Fields["killStreak"]; !ok || v.(float64) != 2.0 {
		t.Fatalf("expected changed field present with new value, got %+v", r.Fields)
	}
}

func TestOutOfViewDistanceExcluded(t *testing.T) {
	c := NewClientCache(100)
	entities := []EntitySnapshot{{ID: "far", Position: [2]float64{1000, 1000}}}

	records := c.Build([2]float64{0, 0}, "self", entities)
	if findRecord(records, "far") != nil {
		t.Fatal("expected entity outside view distance to be excluded")
	}
}

func TestSelfAlwaysIncludedRegardlessOfDistance(t *testing.T) {
	c := NewClientCache(1)
	entities := []EntitySnapshot{{ID: "self", Position: [2]float64{99999, 99999}}}

	records := c.Build([2]float64{0, 0}, "self", entities)
	if findRecord(records, "self") == nil {
		t.Fatal("expected self entity always included")
	}
}

func TestEntityLeavingEmitsLeaveAndDropsFromCache(t *testing.T) {
	c := NewClientCache(1000)
	c.Build([2]float64{0, 0}, "self", []EntitySnapshot{{ID: "m1", Position: [2]float64{10, 10}}})

	records := c.Build([2]float64{0, 0}, "self", nil)
	r := findRecord(records, "m1")
	if r == nil || r.Kind != RecordLeave {
		t.Fatalf("expected leave record, got %+v", records)
	}

	// a subsequent reappearance should be treated as a new sighting again.
	records = c.Build([2]float64{0, 0}, "self", []EntitySnapshot{{ID: "m1", Position: [2]float64{10, 10}}})
	r = findRecord(records, "m1")
	if r == nil || r.Kind != RecordFull {
		t.Fatalf("expected full record on reappearance, got %+v", records)
	}
}

func TestPositionEpsilonToleratesJitter(t *testing.T) {
	c := NewClientCache(1000)
	c.Build([2]float64{0, 0}, "self", []EntitySnapshot{{ID: "m1", Fields: map[string]any{"speed": 5.0}}})

	records := c.Build([2]float64{0, 0}, "self", []EntitySnapshot{{ID: "m1", Fields: map[string]any{"speed": 5.005}}})
	r := findRecord(records, "m1")
	if _, ok := r.Fields["speed"]; ok {
		t.Fatal("expected sub-epsilon float change omitted from delta")
	}
}
