// Package lagcomp keeps a short rolling history of each player's position
// so attack resolution can rewind a target to where it stood from the
// attacker's point of view, within a bounded window. Grounded on the same
// staleness-threshold idea the teacher applies to its visibility cache,
// adapted from a single boolean into a queryable ring buffer.
package lagcomp

// MaxRewindMs is the hard cap on how far back a rewind may reach.
const MaxRewindMs = 500

// DefaultRewindMs is the default rewind window. The GameInstance applies
// one window to every attack; there is no per-ability override.
const DefaultRewindMs = 200

// sampleWindowMs is how much history the ring buffer guarantees to hold.
const sampleWindowMs = 1000

// Sample is one recorded position at a point in simulation time.
type Sample struct {
	TimestampMs int64
	X, Y        float64
}

// Buffer is a per-player ring buffer of recent position samples.
type Buffer struct {
	samples []Sample
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{samples: make([]Sample, 0, 32)}
}

// Record appends a new sample and evicts anything older than
// sampleWindowMs relative to it.
func (b *Buffer) Record(nowMs int64, x, y float64) {
	b.samples = append(b.samples, Sample{TimestampMs: nowMs, X: x, Y: y})

	cutoff := nowMs - sampleWindowMs
	i := 0
	for i < len(b.samples) && b.samples[i].TimestampMs < cutoff {
		i++
	}
	if i > 0 {
		b.samples = append(b.samples[:0], b.samples[i:]...)
	}
}

// SampleNearest returns the recorded sample nearest targetMs, bounded so
// the rewind distance never exceeds MaxRewindMs from the most recent
// sample: a targetMs deeper than the cap is clamped to nowMs-MaxRewindMs.
// Returns a zero Sample and false only if the buffer is empty.
func (b *Buffer) SampleNearest(nowMs int64, targetMs int64) (Sample, bool) {
	if len(b.samples) == 0 {
		return Sample{}, false
	}

	if nowMs-targetMs > MaxRewindMs {
		targetMs = nowMs - MaxRewindMs
	}

	best := b.samples[len(b.samples)-1]
	bestDiff := abs64(best.TimestampMs - targetMs)
	for _, s := range b.samples {
		d := abs64(s.TimestampMs - targetMs)
		if d < bestDiff {
			best = s
			bestDiff = d
		}
	}
	return best, true
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
