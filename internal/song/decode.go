package song

import (
	"strconv"

	"github.com/otaznik/rs-utils/internal/rsxml"
)

// Decode lifts the generic attributed tree root into a typed Song, ready
// for Compile. It performs no derivation beyond what the element
// structure hands it directly (Compile does all of that).
func Decode(root *rsxml.Node) *Song {
	s := &Song{
		Arrangement:            root.Str("arrangement"),
		Offset:                 root.Float("offset"),
		SongLength:             root.Float("songLength"),
		LastConversionDateTime: root.Str("lastConversionDateTime"),
		Part:                   root.Int("part"),
		Capo:                   root.Int("capo"),
	}

	tuning := root.Field("tuning")
	for i := 0; i < 6; i++ {
		s.Tuning[i] = tuning.Int(stringField(i))
	}

	for _, n := range root.FieldList("ebeats") {
		s.EBeats = append(s.EBeats, &Beat{
			Time:    n.Float("time"),
			Measure: n.IntOr("measure", -1),
		})
	}

	for i, n := range root.FieldList("phrases") {
		s.Phrases = append(s.Phrases, &Phrase{
			ID:            i,
			MaxDifficulty: n.Int("maxDifficulty"),
		})
	}

	for _, n := range root.FieldList("phraseIterations") {
		pi := &PhraseIteration{
			Time:     n.Float("time"),
			PhraseID: n.Int("phraseId"),
		}
		for _, h := range n.FieldList("heroLevels") {
			pi.HeroLevels = append(pi.HeroLevels, HeroLevel{
				Hero:       h.Int("hero"),
				Difficulty: h.Int("difficulty"),
			})
		}
		s.PhraseIterations = append(s.PhraseIterations, pi)
	}

	for _, n := range root.FieldList("chordTemplates") {
		ct := &ChordTemplate{DisplayName: n.Str("displayName")}
		for i := 0; i < 6; i++ {
			ct.Frets[i] = n.IntOr(fretField(i), -1)
		}
		s.ChordTemplates = append(s.ChordTemplates, ct)
	}

	for _, n := range root.FieldList("newLinkedDiffs") {
		nld := &NewLinkedDiff{}
		for _, p := range n.FieldList("nld_phrase") {
			nld.Phrases = append(nld.Phrases, p.Int("id"))
		}
		s.NewLinkedDiffs = append(s.NewLinkedDiffs, nld)
	}

	for _, n := range root.FieldList("events") {
		s.Events = append(s.Events, &Event{
			Time: n.Float("time"),
			Code: n.Str("code"),
			ID:   -1,
		})
	}

	for _, n := range root.FieldList("sections") {
		s.Sections = append(s.Sections, &Section{
			Name:      n.Str("name"),
			StartTime: n.Float("startTime"),
		})
	}

	for _, n := range root.FieldList("levels") {
		s.Levels = append(s.Levels, decodeLevel(n))
	}

	for _, n := range root.FieldList("vocals") {
		s.Vocals = append(s.Vocals, &Vocal{
			Time:  n.Float("time"),
			Note:  n.Str("note"),
			Lyric: n.Str("lyric"),
		})
	}
	for _, n := range root.FieldList("symbols") {
		s.Symbols = append(s.Symbols, &Symbol{Path: n.Str("path")})
	}
	for _, n := range root.FieldList("tones") {
		s.Tones = append(s.Tones, &Tone{Time: n.Float("time"), ID: n.Int("id")})
	}

	return s
}

func decodeLevel(n *rsxml.Node) *Level {
	lvl := &Level{Difficulty: n.Int("difficulty")}

	for _, a := range n.FieldList("anchors") {
		lvl.Anchors = append(lvl.Anchors, &Anchor{
			Time:  a.Float("time"),
			Fret:  a.Int("fret"),
			Width: a.Int("width"),
		})
	}

	for _, h := range n.FieldList("handShapes") {
		lvl.HandShapes = append(lvl.HandShapes, &HandShape{
			ChordID:   h.Int("chordId"),
			StartTime: h.Float("startTime"),
			EndTime:   h.Float("endTime"),
		})
	}

	for _, nn := range n.FieldList("notes") {
		lvl.Notes = append(lvl.Notes, decodeNote(nn))
	}

	for _, c := range n.FieldList("chords") {
		lvl.Chords = append(lvl.Chords, decodeChord(c))
	}

	return lvl
}

func decodeNote(n *rsxml.Node) *Note {
	note := &Note{
		Time:           n.Float("time"),
		String:         n.Int("string"),
		Fret:           n.Int("fret"),
		Sustain:        n.Float("sustain"),
		Ignore:         n.Int("ignore"),
		LinkNext:       n.Int("linkNext"),
		Accent:         n.Int("accent"),
		Bend:           n.Int("bend"),
		HammerOn:       n.Int("hammerOn"),
		Harmonic:       n.Int("harmonic"),
		HarmonicPinch:  n.Int("harmonicPinch"),
		Mute:           n.Int("mute"),
		PalmMute:       n.Int("palmMute"),
		PullOff:        n.Int("pullOff"),
		Tap:            n.Int("tap"),
		Tremolo:        n.Int("tremolo"),
		Vibrato:        n.Int("vibrato"),
		LeftHand:       n.IntOr("leftHand", -1),
		RightHand:      n.IntOr("rightHand", -1),
		Pluck:          n.IntOr("pluck", -1),
		Slap:           n.IntOr("slap", -1),
		SlideTo:        n.IntOr("slideTo", -1),
		SlideUnpitchTo: n.IntOr("slideUnpitchTo", -1),
		ChordID:        -1,
	}
	for _, b := range n.FieldList("bendValues") {
		note.BendValues = append(note.BendValues, BendValue{
			Time: b.Float("time"),
			Step: b.Int("step"),
		})
	}
	return note
}

func decodeChord(n *rsxml.Node) *Note {
	chord := &Note{
		IsChord:      true,
		Time:         n.Float("time"),
		ChordID:      n.Int("chordId"),
		String:       -1,
		Fret:         -1,
		LinkNext:     n.Int("linkNext"),
		Accent:       n.Int("accent"),
		FretHandMute: n.Int("fretHandMute"),
		HighDensity:  n.Int("highDensity"),
		Ignore:       n.Int("ignore"),
		PalmMute:     n.Int("palmMute"),
	}
	for _, cn := range n.FieldList("chordNote") {
		chord.ChordNotes = append(chord.ChordNotes, decodeChordNoteInput(cn))
	}
	return chord
}

func decodeChordNoteInput(n *rsxml.Node) ChordNoteInput {
	cn := ChordNoteInput{
		String:         n.Int("string"),
		Fret:           n.Int("fret"),
		Sustain:        n.Float("sustain"),
		Accent:         n.Int("accent"),
		Bend:           n.Int("bend"),
		HammerOn:       n.Int("hammerOn"),
		Harmonic:       n.Int("harmonic"),
		HarmonicPinch:  n.Int("harmonicPinch"),
		Ignore:         n.Int("ignore"),
		LeftHand:       n.IntOr("leftHand", -1),
		Mute:           n.Int("mute"),
		PalmMute:       n.Int("palmMute"),
		Pluck:          n.IntOr("pluck", -1),
		PullOff:        n.Int("pullOff"),
		RightHand:      n.IntOr("rightHand", -1),
		Slap:           n.IntOr("slap", -1),
		SlideTo:        n.IntOr("slideTo", -1),
		SlideUnpitchTo: n.IntOr("slideUnpitchTo", -1),
		Tap:            n.Int("tap"),
		Tremolo:        n.Int("tremolo"),
		Vibrato:        n.Int("vibrato"),
		LinkNext:       n.Int("linkNext"),
	}
	for _, b := range n.FieldList("bendValues") {
		cn.BendValues = append(cn.BendValues, BendValue{
			Time: b.Float("time"),
			Step: b.Int("step"),
		})
	}
	return cn
}

func stringField(i int) string {
	return "string" + strconv.Itoa(i)
}

func fretField(i int) string {
	return "fret" + strconv.Itoa(i)
}
