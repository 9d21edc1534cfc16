package song

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func minimalNote(time float64, str, fret int) *Note {
	return &Note{
		Time: time, String: str, Fret: fret,
		LeftHand: -1, RightHand: -1, Pluck: -1, Slap: -1,
		SlideTo: -1, SlideUnpitchTo: -1, ChordID: -1,
	}
}

// A minimal song with one phrase, two iterations (so the lone note in
// the first has a following iteration boundary to be counted against),
// two beats, and one note yields the expected metadata.
func TestCompileMinimalSong(t *testing.T) {
	s := &Song{
		Offset:     5.0,
		SongLength: 10.0,
		Phrases:    []*Phrase{{ID: 0, MaxDifficulty: 0}},
		PhraseIterations: []*PhraseIteration{
			{Time: 0, PhraseID: 0},
			{Time: 5, PhraseID: 0},
		},
		EBeats: []*Beat{{Time: 0, Measure: 0}, {Time: 0.5, Measure: 1}},
		Levels: []*Level{
			{Difficulty: 0, Notes: []*Note{minimalNote(0, 0, 3)}},
		},
	}

	Compile(s)

	require.Equal(t, 1.0, s.Metadata.MaxNotes)
	require.Equal(t, 100000.0, s.Metadata.PointsPerNote)
	require.Equal(t, 0.5, s.Metadata.FirstBeatLength)
	require.Equal(t, -5.0, s.Metadata.StartTime)
}

// A chord whose template frets 3 strings, built from chord-notes that
// all carry a zero mask, does not intern a chord-note aggregate and picks
// up CHORD but not DOUBLESTOP (3 strings fretted, not 2).
func TestCompileChordNoTechniqueNoDoubleStop(t *testing.T) {
	s := &Song{
		Offset:     0,
		SongLength: 10,
		Phrases:    []*Phrase{{ID: 0, MaxDifficulty: 0}},
		PhraseIterations: []*PhraseIteration{
			{Time: 0, PhraseID: 0},
		},
		EBeats: []*Beat{{Time: 0, Measure: 0}, {Time: 0.5, Measure: 1}},
		ChordTemplates: []*ChordTemplate{
			{DisplayName: "Am", Frets: [6]int{2, 2, 2, -1, -1, -1}},
		},
		Levels: []*Level{
			{
				Difficulty: 0,
				Chords: []*Note{
					{
						Time: 0, ChordID: 0, String: -1, Fret: -1,
						ChordNotes: []ChordNoteInput{
							{String: 0, Fret: 2, LeftHand: -1, Pluck: -1, RightHand: -1, Slap: -1, SlideTo: -1, SlideUnpitchTo: -1},
							{String: 1, Fret: 2, LeftHand: -1, Pluck: -1, RightHand: -1, Slap: -1, SlideTo: -1, SlideUnpitchTo: -1},
							{String: 2, Fret: 2, LeftHand: -1, Pluck: -1, RightHand: -1, Slap: -1, SlideTo: -1, SlideUnpitchTo: -1},
						},
					},
				},
			},
		},
	}

	Compile(s)

	require.Empty(t, s.ChordNotes)
	chord := s.Levels[0].Notes[0]
	require.Equal(t, -1, chord.ChordNoteID)
	require.NotZero(t, chord.Mask&NoteMaskChord)
	require.Zero(t, chord.Mask&NoteMaskDoubleStop)
	require.Zero(t, chord.Mask&NoteMaskChordNotes)
}

// firstNoteTime equals firstNoteTime2 and is the minimum
// note time across all retained levels.
func TestFirstNoteTimeIsMinimumAcrossLevels(t *testing.T) {
	s := &Song{
		SongLength: 10,
		Phrases:    []*Phrase{{ID: 0, MaxDifficulty: 1}},
		PhraseIterations: []*PhraseIteration{
			{Time: 0, PhraseID: 0},
		},
		EBeats: []*Beat{{Time: 0, Measure: 0}, {Time: 0.5, Measure: 1}},
		Levels: []*Level{
			{Difficulty: 0, Notes: []*Note{minimalNote(3.0, 0, 1)}},
			{Difficulty: 1, Notes: []*Note{minimalNote(1.0, 0, 1)}},
		},
	}

	Compile(s)

	require.Equal(t, 1.0, s.Metadata.FirstNoteTime)
	require.Equal(t, s.Metadata.FirstNoteTime, s.Metadata.FirstNoteTime2)
}

// For every level, the sum of notesInIterCount equals the
// number of notes. Every note needs a later iteration boundary to be
// attributed to (a trailing phrase iteration past the last note's time),
// matching the compiler's next-iteration-start bucketing.
func TestNotesInIterCountSumsToNoteCount(t *testing.T) {
	s := &Song{
		SongLength: 10,
		Phrases:    []*Phrase{{ID: 0, MaxDifficulty: 0}},
		PhraseIterations: []*PhraseIteration{
			{Time: 0, PhraseID: 0},
			{Time: 5, PhraseID: 0},
			{Time: 8, PhraseID: 0},
		},
		EBeats: []*Beat{{Time: 0, Measure: 0}, {Time: 0.5, Measure: 1}},
		Levels: []*Level{
			{Difficulty: 0, Notes: []*Note{
				minimalNote(0, 0, 1), minimalNote(1, 1, 2), minimalNote(6, 0, 3),
			}},
		},
	}

	Compile(s)

	sum := 0
	for _, c := range s.Levels[0].NotesInIterCount {
		sum += c
	}
	require.Equal(t, len(s.Levels[0].Notes), sum)
}

// Identical chord-note aggregates are interned once, by value; a chord
// with different per-string technique gets its own entry.
func TestChordNoteInterning(t *testing.T) {
	vibratoNotes := func(v int) []ChordNoteInput {
		return []ChordNoteInput{
			{String: 0, Fret: 2, Vibrato: v, LeftHand: -1, Pluck: -1, RightHand: -1, Slap: -1, SlideTo: -1, SlideUnpitchTo: -1},
			{String: 1, Fret: 2, LeftHand: -1, Pluck: -1, RightHand: -1, Slap: -1, SlideTo: -1, SlideUnpitchTo: -1},
		}
	}
	newChord := func(time float64, v int) *Note {
		return &Note{Time: time, ChordID: 0, String: -1, Fret: -1, ChordNotes: vibratoNotes(v)}
	}

	s := &Song{
		SongLength: 10,
		Phrases:    []*Phrase{{ID: 0, MaxDifficulty: 0}},
		PhraseIterations: []*PhraseIteration{
			{Time: 0, PhraseID: 0},
		},
		EBeats: []*Beat{{Time: 0, Measure: 0}, {Time: 0.5, Measure: 1}},
		ChordTemplates: []*ChordTemplate{
			{DisplayName: "E5", Frets: [6]int{2, 2, -1, -1, -1, -1}},
		},
		Levels: []*Level{
			{Difficulty: 0, Chords: []*Note{
				newChord(0, 1), newChord(1, 1), newChord(2, 2),
			}},
		},
	}

	Compile(s)

	require.Len(t, s.ChordNotes, 2)
	chords := s.Levels[0].Notes
	require.Equal(t, 0, chords[0].ChordNoteID)
	require.Equal(t, 0, chords[1].ChordNoteID)
	require.Equal(t, 1, chords[2].ChordNoteID)
}

// A chord-note with an assigned picking hand carries RIGHTHAND in its
// per-string mask, which alone makes the aggregate worth interning.
func TestChordNoteRightHandMask(t *testing.T) {
	s := &Song{
		SongLength: 10,
		Phrases:    []*Phrase{{ID: 0, MaxDifficulty: 0}},
		PhraseIterations: []*PhraseIteration{
			{Time: 0, PhraseID: 0},
		},
		EBeats: []*Beat{{Time: 0, Measure: 0}, {Time: 0.5, Measure: 1}},
		ChordTemplates: []*ChordTemplate{
			{DisplayName: "E5", Frets: [6]int{2, 2, -1, -1, -1, -1}},
		},
		Levels: []*Level{
			{Difficulty: 0, Chords: []*Note{
				{
					Time: 0, ChordID: 0, String: -1, Fret: -1,
					ChordNotes: []ChordNoteInput{
						{String: 0, Fret: 2, LeftHand: -1, Pluck: -1, RightHand: 1, Slap: -1, SlideTo: -1, SlideUnpitchTo: -1},
						{String: 1, Fret: 2, LeftHand: -1, Pluck: -1, RightHand: -1, Slap: -1, SlideTo: -1, SlideUnpitchTo: -1},
					},
				},
			}},
		},
	}

	Compile(s)

	require.Len(t, s.ChordNotes, 1)
	require.NotZero(t, s.ChordNotes[0].Mask[0]&NoteMaskRightHand)
	require.Zero(t, s.ChordNotes[0].Mask[1])
	require.Equal(t, 0, s.Levels[0].Notes[0].ChordNoteID)
}

// The first occurrence of a fret within a phrase iteration's rolling
// 2-second/8-note window is numbered; a repeat inside the window is not;
// the same fret past the window is numbered again.
func TestNumberedRepeatWindow(t *testing.T) {
	s := &Song{
		SongLength: 10,
		Phrases:    []*Phrase{{ID: 0, MaxDifficulty: 0}},
		PhraseIterations: []*PhraseIteration{
			{Time: 0, PhraseID: 0},
			{Time: 5, PhraseID: 0},
		},
		EBeats: []*Beat{{Time: 0, Measure: 0}, {Time: 0.5, Measure: 1}},
		Levels: []*Level{
			{Difficulty: 0, Notes: []*Note{
				minimalNote(0, 0, 3),
				minimalNote(0.5, 0, 3),
				minimalNote(3.0, 0, 3),
			}},
		},
	}

	Compile(s)

	notes := s.Levels[0].Notes
	require.NotZero(t, notes[0].Flags&NoteFlagsNumbered)
	require.Zero(t, notes[1].Flags&NoteFlagsNumbered)
	require.NotZero(t, notes[2].Flags&NoteFlagsNumbered)
}

func TestChordTemplateMaskFromDisplayName(t *testing.T) {
	s := &Song{Tuning: [6]int{0, 0, 0, 0, 0, 0}}
	arp := &ChordTemplate{DisplayName: "Am-arp", Frets: [6]int{-1, -1, -1, -1, -1, -1}}
	nop := &ChordTemplate{DisplayName: "Am-nop", Frets: [6]int{-1, -1, -1, -1, -1, -1}}
	plain := &ChordTemplate{DisplayName: "Am", Frets: [6]int{-1, -1, -1, -1, -1, -1}}

	processChordTemplate(s, arp)
	processChordTemplate(s, nop)
	processChordTemplate(s, plain)

	require.NotZero(t, arp.Mask&ChordMaskArpeggio)
	require.NotZero(t, nop.Mask&ChordMaskNop)
	require.Zero(t, plain.Mask)
}

func TestMidiNoteOpenAndBass(t *testing.T) {
	s := &Song{Tuning: [6]int{0, 0, 0, 0, 0, 0}, Arrangement: "Bass"}
	require.Equal(t, -1, midiNote(s, 0, -1))
	require.Equal(t, MIDINotes[0]-12, midiNote(s, 0, 0))
}
