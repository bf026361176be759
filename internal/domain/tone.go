package domain

// Tone is the rhetorical register of a reminder message.
type Tone string

const (
	ToneGentle  Tone = "gentle"
	ToneNeutral Tone = "neutral"
	ToneFirm    Tone = "firm"
)

// ValidTone reports whether s is a known tone value.
func ValidTone(s string) bool {
	switch Tone(s) {
	case ToneGentle, ToneNeutral, ToneFirm:
		return true
	}
	return false
}

// ResizeToneSequence adjusts seq to exactly target entries. A longer sequence
// is truncated, a shorter one is padded with ToneGentle at the end. Existing
// entries keep their position. The caller clamps target to at least 1; this
// function does not.
func ResizeToneSequence(seq []Tone, target int) []Tone {
	if len(seq) == target {
		return seq
	}
	out := make([]Tone, target)
	for i := range out {
		if i < len(seq) {
			out[i] = seq[i]
		} else {
			out[i] = ToneGentle
		}
	}
	return out
}

// ToneForOccurrence returns the tone for the index-th occurrence, cycling
// through seq. An empty sequence yields ToneNeutral; callers are expected to
// keep sequences non-empty in normal operation.
func ToneForOccurrence(seq []Tone, index int) Tone {
	if len(seq) == 0 {
		return ToneNeutral
	}
	return seq[index%len(seq)]
}
