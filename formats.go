package bitpress

const HuffmanExtension = ".hfp"
const LZ78Extension = ".lzp"

// Stage identifies which half of a codec is reporting progress.
type Stage int

const (
	StageEncoding Stage = iota
	StageDecoding
)

func (s Stage) String() string {
	switch s {
	case StageEncoding:
		return "Encoding"
	case StageDecoding:
		return "Decoding"
	default:
		return "Working"
	}
}

// ProgressTicker throttles progress notifications to roughly once per percent of
// `total`, plus a final notification when `current` reaches `total`. A ticker with
// a nil observer does nothing, so codecs can call Tick unconditionally.
type ProgressTicker struct {
	observer ProgressObserver
	stage    Stage
	total    int64
	step     int64
	next     int64
}

func NewProgressTicker(observer ProgressObserver, stage Stage, total int64) *ProgressTicker {
	step := total / 100
	if step < 1 {
		step = 1
	}
	return &ProgressTicker{
		observer: observer,
		stage:    stage,
		total:    total,
		step:     step,
		next:     step,
	}
}

// Tick reports that `current` units out of the total have been processed.
func (t *ProgressTicker) Tick(current int64) {
	if t.observer == nil {
		return
	}
	if current < t.next && current != t.total {
		return
	}
	for t.next <= current {
		t.next += t.step
	}
	t.observer.OnProgress(t.stage, current, t.total)
}
