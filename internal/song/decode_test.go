package song

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/otaznik/rs-utils/internal/rsxml"
)

func TestDecodeLiftsScalarFields(t *testing.T) {
	root := rsxml.Build(rsxml.Element{
		Tag: "song",
		Attrs: map[string]string{
			"arrangement": "Lead",
			"offset":      "0.5",
			"songLength":  "120.0",
			"part":        "1",
			"capo":        "0",
		},
		Children: []rsxml.Element{
			{Tag: "tuning", Attrs: map[string]string{
				"string0": "0", "string1": "0", "string2": "0",
				"string3": "0", "string4": "0", "string5": "0",
			}},
		},
	})

	s := Decode(root)
	require.Equal(t, "Lead", s.Arrangement)
	require.InDelta(t, 0.5, s.Offset, 0.0001)
	require.Equal(t, 1, s.Part)
	require.Equal(t, [6]int{0, 0, 0, 0, 0, 0}, s.Tuning)
}

func TestDecodeEBeatsAndNotes(t *testing.T) {
	root := rsxml.Build(rsxml.Element{
		Tag: "song",
		Children: []rsxml.Element{
			{Tag: "tuning"},
			{Tag: "ebeats", Attrs: map[string]string{"count": "2"}, Children: []rsxml.Element{
				{Tag: "ebeat", Attrs: map[string]string{"time": "0", "measure": "0"}},
				{Tag: "ebeat", Attrs: map[string]string{"time": "0.5", "measure": "-1"}},
			}},
			{Tag: "levels", Attrs: map[string]string{"count": "1"}, Children: []rsxml.Element{
				{Tag: "level", Attrs: map[string]string{"difficulty": "0"}, Children: []rsxml.Element{
					{Tag: "notes", Attrs: map[string]string{"count": "1"}, Children: []rsxml.Element{
						{Tag: "note", Attrs: map[string]string{"time": "0", "string": "0", "fret": "3"}},
					}},
				}},
			}},
		},
	})

	s := Decode(root)
	require.Len(t, s.EBeats, 2)
	require.Equal(t, 0, s.EBeats[0].Measure)
	require.Equal(t, -1, s.EBeats[1].Measure)
	require.Len(t, s.Levels, 1)
	require.Len(t, s.Levels[0].Notes, 1)
	require.Equal(t, 3, s.Levels[0].Notes[0].Fret)
	require.Equal(t, -1, s.Levels[0].Notes[0].LeftHand)
}

// decodeNote fills in every unset integer field with its source default
// (0) or, for the hand/pluck/slap/slide fields, the -1 "absent" sentinel,
// with no other derivation performed at decode time.
func TestDecodeNoteDefaultsUnsetFields(t *testing.T) {
	n := rsxml.Build(rsxml.Element{
		Tag: "note",
		Attrs: map[string]string{
			"time": "1.5", "string": "2", "fret": "5", "sustain": "0.25",
		},
	})

	got := decodeNote(n)
	want := &Note{
		Time: 1.5, String: 2, Fret: 5, Sustain: 0.25,
		LeftHand: -1, RightHand: -1, Pluck: -1, Slap: -1,
		SlideTo: -1, SlideUnpitchTo: -1, ChordID: -1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decodeNote mismatch (-want +got):\n%s", diff)
	}
}
