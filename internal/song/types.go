// Package song implements the song compiler: it takes the attributed
// tree an external XML parser produces for a Rocksmith 2014 song
// arrangement (see internal/rsxml) and runs a deterministic sequence of
// passes over it, producing the resolved structure the binary SNG writer
// expects.
package song

// Song is the compiled arrangement: every field below is either lifted
// directly from the arrangement tree (Decode) or computed by Compile.
type Song struct {
	Arrangement            string
	Tuning                 [6]int
	Capo                   int
	Offset                 float64
	SongLength             float64
	LastConversionDateTime string
	Part                   int

	EBeats           []*Beat
	Phrases          []*Phrase
	PhraseIterations []*PhraseIteration
	ChordTemplates   []*ChordTemplate
	NewLinkedDiffs   []*NewLinkedDiff
	Events           []*Event
	Sections         []*Section
	Levels           []*Level

	Vocals  []*Vocal
	Symbols []*Symbol
	Tones   []*Tone

	DNAs          []*Event
	ChordNotes    []*ChordNoteAggregate
	FirstNoteTime float64
	Metadata      *Metadata

	// chordNoteIndex buckets ChordNotes by content hash so interning a
	// newly-seen aggregate doesn't scan the whole slice.
	chordNoteIndex map[uint64][]int
}

// Beat is one ebeat.
type Beat struct {
	Time            float64
	Measure         int
	Beat            int
	Mask            int
	PhraseIteration int
}

// Phrase is a phrase definition; Compile fills in PhraseIterationLinks.
type Phrase struct {
	ID                   int
	MaxDifficulty        int
	PhraseIterationLinks int
}

// HeroLevel is a difficulty override embedded in a phrase iteration.
type HeroLevel struct {
	Hero       int
	Difficulty int
}

// PhraseIteration is one occurrence of a phrase in the timeline.
type PhraseIteration struct {
	Time       float64
	EndTime    float64
	PhraseID   int
	Difficulty [3]int
	HeroLevels []HeroLevel
}

// ChordTemplate is a chord shape definition.
type ChordTemplate struct {
	DisplayName string
	Frets       [6]int
	Mask        int
	Notes       [6]int
}

// NewLinkedDiff is a difficulty-linking group; its member phrase ids are
// resolved at decode time.
type NewLinkedDiff struct {
	Phrases []int
}

// Event is a raw song event; DNA-coded events are also collected into
// Song.DNAs with ID set to their mapped code.
type Event struct {
	Time float64
	Code string
	ID   int
}

// Section is a named structural section of the song.
type Section struct {
	Name                   string
	StartTime              float64
	EndTime                float64
	StartPhraseIterationID int
	EndPhraseIterationID   int
	StringMask             [36]int
}

// Anchor is a fretboard-position hint spanning a time window.
type Anchor struct {
	Time, EndTime     float64
	Fret, Width       int
	PhraseIterationID int
	UNKTime, UNKTime2 float64
}

// HandShape is a raw chord-shape window; level compilation reuses it as
// the fingerprint type, split into arpeggio/non-arpeggio lists.
type HandShape struct {
	ChordID                  int
	StartTime, EndTime       float64
	UNKStartTime, UNKEndTime float64
}

// BendValue is one bend keyframe.
type BendValue struct {
	Time float64
	Step int
}

// ChordNoteInput is a raw per-string <chordNote> child of a chord.
type ChordNoteInput struct {
	String         int
	Fret           int
	Sustain        float64
	Accent         int
	Bend           int
	HammerOn       int
	Harmonic       int
	HarmonicPinch  int
	Ignore         int
	LeftHand       int
	Mute           int
	PalmMute       int
	Pluck          int
	PullOff        int
	RightHand      int
	Slap           int
	SlideTo        int
	SlideUnpitchTo int
	Tap            int
	Tremolo        int
	Vibrato        int
	LinkNext       int
	BendValues     []BendValue

	// derived when the enclosing chord is compiled
	Mask int
}

// ChordBend is one string's bend-value slot in a chord-note aggregate: a
// fixed 32-entry array, padded with zero records past UsedCount.
type ChordBend struct {
	UsedCount  int
	BendValues [32]BendValue
}

// ChordNoteAggregate is the per-chord synthesized per-string technique
// record interned by value into Song.ChordNotes.
type ChordNoteAggregate struct {
	Mask           [6]int
	BendValues32   [6]ChordBend
	SlideTo        [6]int
	SlideUnpitchTo [6]int
	Vibrato        [6]int
}

// Note is a standalone note or (once merged) a compiled chord entry. A
// chord stands in for a note everywhere past the merge step, so Note
// carries the union of both shapes with IsChord selecting which raw
// fields are meaningful.
type Note struct {
	IsChord bool

	Time     float64
	String   int // -1 for chords
	Fret     int // -1 for chords
	ChordID  int // index into Song.ChordTemplates; -1 for standalone notes
	Sustain  float64
	Ignore   int
	LinkNext int
	Accent   int

	Bend           int
	HammerOn       int
	Harmonic       int
	HarmonicPinch  int
	Mute           int
	PalmMute       int
	Pluck          int
	PullOff        int
	Slap           int
	SlideTo        int
	SlideUnpitchTo int
	Tap            int
	Tremolo        int
	Vibrato        int
	LeftHand       int
	RightHand      int
	BendValues     []BendValue

	FretHandMute int
	HighDensity  int
	ChordNotes   []ChordNoteInput // raw per-string children, chords only

	// derived, shared by notes and merged chords
	Flags             int
	AnchorFret        int
	AnchorWidth       int
	ChordNoteID       int
	FingerPrintID     [2]int
	NextIterNote      int
	PrevIterNote      int
	ParentPrevNote    int
	PhraseIterationID int
	PhraseID          int
	Mask              int
	Hash              uint32
}

// AnchorExtension is a synthetic anchor-like entry trailing a slide.
type AnchorExtension struct {
	Fret int
	Time float64
}

// Level is one difficulty level's compiled arrangement.
type Level struct {
	Difficulty int

	Anchors    []*Anchor
	HandShapes []*HandShape
	Chords     []*Note // raw standalone chords, decode order
	Notes      []*Note // standalone notes, then merged with Chords and sorted

	Fingerprints     [2][]*HandShape
	AnchorExtensions []AnchorExtension

	NotesInIterCount          []int
	NotesInIterCountNoIgnored []int
	AverageNotesPerIter       []float64
}

// Metadata is the final scalar summary.
type Metadata struct {
	MaxScore               float64
	MaxNotes               float64
	MaxNotesNoIgnored      float64
	PointsPerNote          float64
	FirstBeatLength        float64
	StartTime              float64
	Capo                   int
	LastConversionDateTime string
	Part                   int
	SongLength             float64
	Tuning                 [6]int
	FirstNoteTime          float64
	FirstNoteTime2         float64
	MaxDifficulty          int
}

// Vocal, Symbol, and Tone pass through unmodified; they exist so Decode
// has somewhere to put them when present.
type Vocal struct {
	Time  float64
	Note  string
	Lyric string
}

type Symbol struct {
	Path string
}

type Tone struct {
	Time float64
	ID   int
}
