package song

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// processChordTemplate derives the arpeggio/nop mask bits from the display
// name suffix, and the six MIDI note values.
func processChordTemplate(s *Song, t *ChordTemplate) {
	t.Mask = 0
	if strings.HasSuffix(t.DisplayName, "arp") {
		t.Mask |= ChordMaskArpeggio
	}
	if strings.HasSuffix(t.DisplayName, "nop") {
		t.Mask |= ChordMaskNop
	}
	for k := 0; k < 6; k++ {
		t.Notes[k] = midiNote(s, k, t.Frets[k])
	}
}

// chordNoteAggregate synthesizes the per-chord technique record:
// per-string masks, slide targets, vibrato, and a 6×32
// bend-value matrix padded with zero records past each string's used
// count.
func chordNoteAggregate(chord *Note) (*ChordNoteAggregate, bool) {
	agg := &ChordNoteAggregate{}
	for i := range agg.SlideTo {
		agg.SlideTo[i] = -1
		agg.SlideUnpitchTo[i] = -1
	}

	technique := false
	for _, cn := range chord.ChordNotes {
		m := noteMask(&cn, false)
		agg.Mask[cn.String] = m
		technique = technique || m != 0
		agg.Vibrato[cn.String] = cn.Vibrato
		agg.SlideTo[cn.String] = cn.SlideTo
		agg.SlideUnpitchTo[cn.String] = cn.SlideUnpitchTo

		bend := &agg.BendValues32[cn.String]
		bend.UsedCount = len(cn.BendValues)
		for i, bv := range cn.BendValues {
			if i >= len(bend.BendValues) {
				break
			}
			bend.BendValues[i] = bv
		}
	}
	return agg, technique
}

// internChordNotes interns agg into song.ChordNotes by deep value
// equality, preserving first occurrence, and returns its index (or -1 if
// agg carries no technique and should not be interned). A content hash
// buckets candidates so only aggregates that could plausibly be equal
// are compared field-by-field.
func internChordNotes(s *Song, agg *ChordNoteAggregate, technique bool) int {
	if !technique {
		return -1
	}
	if s.chordNoteIndex == nil {
		s.chordNoteIndex = make(map[uint64][]int)
	}

	h := hashChordNoteAggregate(agg)
	for _, i := range s.chordNoteIndex[h] {
		if chordNoteAggregateEqual(s.ChordNotes[i], agg) {
			return i
		}
	}

	s.ChordNotes = append(s.ChordNotes, agg)
	idx := len(s.ChordNotes) - 1
	s.chordNoteIndex[h] = append(s.chordNoteIndex[h], idx)
	return idx
}

// hashChordNoteAggregate hashes the fields chordNoteAggregateEqual
// compares, in the same order, so equal aggregates always hash equal.
func hashChordNoteAggregate(agg *ChordNoteAggregate) uint64 {
	var buf [8]byte
	d := xxhash.New()
	writeInts := func(vs [6]int) {
		for _, v := range vs {
			binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
			d.Write(buf[:])
		}
	}
	writeInts(agg.Mask)
	writeInts(agg.SlideTo)
	writeInts(agg.SlideUnpitchTo)
	writeInts(agg.Vibrato)
	for _, bend := range agg.BendValues32 {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(bend.UsedCount)))
		d.Write(buf[:])
		for _, bv := range bend.BendValues {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(bv.Time))
			d.Write(buf[:])
			binary.LittleEndian.PutUint64(buf[:], uint64(int64(bv.Step)))
			d.Write(buf[:])
		}
	}
	return d.Sum64()
}

func chordNoteAggregateEqual(a, b *ChordNoteAggregate) bool {
	if a.Mask != b.Mask || a.SlideTo != b.SlideTo ||
		a.SlideUnpitchTo != b.SlideUnpitchTo || a.Vibrato != b.Vibrato {
		return false
	}
	for i := range a.BendValues32 {
		if a.BendValues32[i] != b.BendValues32[i] {
			return false
		}
	}
	return true
}

// processChord is the per-chord half of level compilation: synthesize the
// chord-note aggregate, derive the chord's own mask/sustain/cross-
// reference fields, and attribute it to a phrase iteration, turning it
// into a Note ready to merge into the level's note list.
func processChord(s *Song, chord *Note) {
	agg, technique := chordNoteAggregate(chord)
	chordNoteID := internChordNotes(s, agg, technique)

	chord.Flags = 0
	chord.ChordNoteID = chordNoteID
	chord.AnchorFret = -1
	chord.AnchorWidth = -1
	chord.FingerPrintID = [2]int{-1, -1}
	chord.PrevIterNote = -1
	chord.ParentPrevNote = -1
	chord.NextIterNote = -1
	chord.SlideTo = -1
	chord.SlideUnpitchTo = -1
	chord.LeftHand = -1
	chord.Vibrato = 0
	chord.Bend = 0
	chord.Tap = 0
	chord.Slap = -1
	chord.Pluck = -1
	chord.BendValues = nil

	chord.PhraseIterationID = phraseIteration(s, chord.Time, false)
	chord.PhraseID = s.PhraseIterations[chord.PhraseIterationID].PhraseID

	if len(chord.ChordNotes) > 0 {
		max := chord.ChordNotes[0].Sustain
		for _, cn := range chord.ChordNotes[1:] {
			if cn.Sustain > max {
				max = cn.Sustain
			}
		}
		chord.Sustain = max
	} else {
		chord.Sustain = 0
	}

	template := s.ChordTemplates[chord.ChordID]
	frettedCount := 0
	for k := 0; k < 6; k++ {
		if template.Frets[k] != -1 {
			frettedCount++
		}
	}

	chord.Mask = chordMask(chord.LinkNext, chord.Accent, chord.FretHandMute,
		chord.HighDensity, chord.Ignore, chord.PalmMute, chord.Sustain, chord.ChordNoteID, frettedCount)

	chord.Hash = chordHash(chord)
}
