// ABOUTME: Frequency to musical note mapping
// ABOUTME: Converts Hz to semitone index, note name, octave and cents
package pitch

import "math"

const (
	// ReferenceHz is the frequency of A4
	ReferenceHz = 440.0

	// ReferenceIndex is the MIDI note number of A4
	ReferenceIndex = 69
)

// NoteNames lists semitone names starting at C
var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note describes the semitone nearest to a frequency
type Note struct {
	Index  int     // MIDI note number
	Name   string  // e.g. "A", "C#"
	Octave int     // scientific pitch octave, A4 = 4
	Cents  float64 // deviation from the semitone, -50..+50
}

// SemitoneIndex returns the MIDI note number nearest to hz.
// hz must be positive and finite; gate unvoiced estimates first.
func SemitoneIndex(hz float64) int {
	return int(math.Round(12*math.Log2(hz/ReferenceHz))) + ReferenceIndex
}

// NoteName returns the semitone name for a MIDI note number
func NoteName(index int) string {
	return NoteNames[((index%12)+12)%12]
}

// NoteOf describes the semitone nearest to hz
func NoteOf(hz float64) Note {
	semis := 12 * math.Log2(hz/ReferenceHz)
	rounded := math.Round(semis)
	index := int(rounded) + ReferenceIndex

	return Note{
		Index:  index,
		Name:   NoteName(index),
		Octave: floorDiv(index, 12) - 1,
		Cents:  100 * (semis - rounded),
	}
}

// Label returns the note name for e, or "-" when e is unvoiced
func Label(e Estimate) string {
	if !e.Voiced() {
		return "-"
	}
	return NoteName(SemitoneIndex(float64(e)))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
