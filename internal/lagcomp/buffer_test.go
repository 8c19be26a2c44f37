package lagcomp

import "testing"

func TestRecordEvictsOldSamples(t *testing.T) {
	b := NewBuffer()
	for t_ := int64(0); t_ <= 2000; t_ += 100 {
		b.Record(t_, float64(t_), 0)
	}

	for _, s := range b.samples {
		if 2000-s.TimestampMs > sampleWindowMs {
			t.Fatalf("expected samples older than window evicted, found %+v", s)
		}
	}
}

func TestSampleNearestFindsClosest(t *testing.T) {
	b := NewBuffer()
	b.Record(0, 0, 0)
	b.Record(100, 10, 0)
	b.Record(200, 20, 0)

	got, ok := b.SampleNearest(200, 90)
	if !ok {
		t.Fatal("expected a sample")
	}
	if got.TimestampMs != 100 {
		t.Fatalf("expected nearest sample at t=100, got %+v", got)
	}
}

func TestSampleNearestBoundedByMaxRewind(t *testing.T) {
	b := NewBuffer()
	b.Record(0, 0, 0)
	b.Record(1000, 100, 0)

	got, ok := b.SampleNearest(1000, 0) // would be 1000ms back, capped to 500ms
	if !ok {
		t.Fatal("expected a sample")
	}
	// clamped target is t=500, equidistant from both samples; ties favor
	// the most recent sample.
	if got.TimestampMs != 1000 {
		t.Fatalf("expected tie-break to favor most recent sample, got %+v", got)
	}
}

func TestSampleNearestEmptyBuffer(t *testing.T) {
	b := NewBuffer()
	if _, ok := b.SampleNearest(100, 50); ok {
		t.Fatal("expected no sample from empty buffer")
	}
}
