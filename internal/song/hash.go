package song

import (
	"fmt"
	"hash/crc32"
	"strings"
)

// noteHash and chordHash are a CRC-32 over the textual rendering of the
// entity's fields in a fixed canonical order, written out field by field
// in each function body. noteHash renders time, string, fret and sustain,
// then the technique fields in alphabetical order, then the derived fields
// in the order processNote assigns them; chordHash uses its own fixed
// order. The rendered text is an identity, not an exchange format; what
// matters is that the order never changes.
func noteHash(n *Note) uint32 {
	var b strings.Builder
	fmt.Fprintf(&b, "%v,", n.Time)
	fmt.Fprintf(&b, "%v,", n.String)
	fmt.Fprintf(&b, "%v,", n.Fret)
	fmt.Fprintf(&b, "%v,", n.Sustain)
	fmt.Fprintf(&b, "%v,", n.Accent)
	fmt.Fprintf(&b, "%v,", n.Bend)
	fmt.Fprintf(&b, "%v,", n.HammerOn)
	fmt.Fprintf(&b, "%v,", n.Harmonic)
	fmt.Fprintf(&b, "%v,", n.HarmonicPinch)
	fmt.Fprintf(&b, "%v,", n.Ignore)
	fmt.Fprintf(&b, "%v,", n.LeftHand)
	fmt.Fprintf(&b, "%v,", n.LinkNext)
	fmt.Fprintf(&b, "%v,", n.Mute)
	fmt.Fprintf(&b, "%v,", n.PalmMute)
	fmt.Fprintf(&b, "%v,", n.Pluck)
	fmt.Fprintf(&b, "%v,", n.PullOff)
	fmt.Fprintf(&b, "%v,", n.RightHand)
	fmt.Fprintf(&b, "%v,", n.Slap)
	fmt.Fprintf(&b, "%v,", n.SlideTo)
	fmt.Fprintf(&b, "%v,", n.SlideUnpitchTo)
	fmt.Fprintf(&b, "%v,", n.Tap)
	fmt.Fprintf(&b, "%v,", n.Tremolo)
	fmt.Fprintf(&b, "%v,", n.Vibrato)
	fmt.Fprintf(&b, "%v,", n.Flags)
	fmt.Fprintf(&b, "%v,", n.AnchorFret)
	fmt.Fprintf(&b, "%v,", n.AnchorWidth)
	fmt.Fprintf(&b, "%v,", n.ChordID)
	fmt.Fprintf(&b, "%v,", n.ChordNoteID)
	fmt.Fprintf(&b, "%v,", n.FingerPrintID)
	fmt.Fprintf(&b, "%v,", n.NextIterNote)
	fmt.Fprintf(&b, "%v,", n.PrevIterNote)
	fmt.Fprintf(&b, "%v,", n.ParentPrevNote)
	fmt.Fprintf(&b, "%v,", n.PhraseIterationID)
	fmt.Fprintf(&b, "%v,", n.PhraseID)
	fmt.Fprintf(&b, "%v", n.Mask)
	return crc32.ChecksumIEEE([]byte(b.String()))
}

func chordHash(c *Note) uint32 {
	var b strings.Builder
	fmt.Fprintf(&b, "%v,", c.Time)
	fmt.Fprintf(&b, "%v,", c.ChordID)
	fmt.Fprintf(&b, "%v,", c.Flags)
	fmt.Fprintf(&b, "%v,", c.ChordNoteID)
	fmt.Fprintf(&b, "%v,", c.String)
	fmt.Fprintf(&b, "%v,", c.Fret)
	fmt.Fprintf(&b, "%v,", c.AnchorFret)
	fmt.Fprintf(&b, "%v,", c.AnchorWidth)
	fmt.Fprintf(&b, "%v,", c.FingerPrintID)
	fmt.Fprintf(&b, "%v,", c.PrevIterNote)
	fmt.Fprintf(&b, "%v,", c.ParentPrevNote)
	fmt.Fprintf(&b, "%v,", c.NextIterNote)
	fmt.Fprintf(&b, "%v,", c.SlideTo)
	fmt.Fprintf(&b, "%v,", c.SlideUnpitchTo)
	fmt.Fprintf(&b, "%v,", c.LeftHand)
	fmt.Fprintf(&b, "%v,", c.Vibrato)
	fmt.Fprintf(&b, "%v,", c.Bend)
	fmt.Fprintf(&b, "%v,", c.Tap)
	fmt.Fprintf(&b, "%v,", c.Slap)
	fmt.Fprintf(&b, "%v,", c.Pluck)
	fmt.Fprintf(&b, "%v,", c.PhraseIterationID)
	fmt.Fprintf(&b, "%v,", c.PhraseID)
	fmt.Fprintf(&b, "%v,", c.Sustain)
	fmt.Fprintf(&b, "%v", c.Mask)
	return crc32.ChecksumIEEE([]byte(b.String()))
}
