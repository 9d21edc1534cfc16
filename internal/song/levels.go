package song

import "sort"

// processNote resets a note's derived fields and computes its phrase
// attribution, mask, and hash. single is false when the caller is
// compiling a chord rather than a standalone note.
func processNote(s *Song, n *Note, single bool) {
	n.Flags = 0
	n.AnchorFret = -1
	n.AnchorWidth = -1
	n.ChordID = -1
	n.ChordNoteID = -1
	n.FingerPrintID = [2]int{-1, -1}
	n.NextIterNote = -1
	n.PrevIterNote = -1
	n.ParentPrevNote = -1

	n.PhraseIterationID = phraseIteration(s, n.Time, false)
	n.PhraseID = s.PhraseIterations[n.PhraseIterationID].PhraseID
	n.Mask = noteMask(chordNoteInputFromNote(n), single)
	n.Hash = noteHash(n)
}

// processLevel compiles one difficulty level: anchors, fingerprints,
// per-note/per-chord compilation and merge, fingerprint/anchor
// association, iteration chaining, parent-child linking, anchor
// extensions, per-iteration counters, and the numbered-repeat scan.
func processLevel(s *Song, lvl *Level) {
	processAnchors(s, lvl)

	for _, h := range lvl.HandShapes {
		h.UNKStartTime = 0
		h.UNKEndTime = 0
	}
	isArpeggio := func(h *HandShape) bool {
		return s.ChordTemplates[h.ChordID].Mask&ChordMaskArpeggio != 0
	}
	for _, h := range lvl.HandShapes {
		if isArpeggio(h) {
			lvl.Fingerprints[1] = append(lvl.Fingerprints[1], h)
		} else {
			lvl.Fingerprints[0] = append(lvl.Fingerprints[0], h)
		}
	}

	for _, n := range lvl.Notes {
		processNote(s, n, true)
	}
	for _, c := range lvl.Chords {
		processChord(s, c)
		lvl.Notes = append(lvl.Notes, c)
	}

	sort.SliceStable(lvl.Notes, func(i, j int) bool { return lvl.Notes[i].Time < lvl.Notes[j].Time })

	if len(lvl.Notes) > 0 && s.FirstNoteTime > lvl.Notes[0].Time {
		s.FirstNoteTime = lvl.Notes[0].Time
	}

	associateFingerprints(lvl)
	associateAnchors(lvl)
	chainIterationNotes(s, lvl)
	linkParentChild(lvl)
	buildAnchorExtensions(lvl)
	countNotesPerIteration(s, lvl)
	averageNotesPerPhrase(s, lvl)
	flagNumberedRepeats(s, lvl)
}

func processAnchors(s *Song, lvl *Level) {
	n := len(lvl.Anchors)
	if n == 0 {
		return
	}
	lvl.Anchors[n-1].EndTime = s.PhraseIterations[len(s.PhraseIterations)-1].Time
	for i := 0; i < n-1; i++ {
		lvl.Anchors[i].EndTime = lvl.Anchors[i+1].Time
	}
	for _, a := range lvl.Anchors {
		a.UNKTime = 0
		a.UNKTime2 = 0
		a.PhraseIterationID = phraseIteration(s, a.Time, false)
	}
}

// associateFingerprints is the fingerprint half of the note-window
// association: for each note and each of the two fingerprint lists, find
// the containing fingerprint and record it, tagging ARPEGGIO/STRUM as
// appropriate and widening the fingerprint's UNK timestamps.
func associateFingerprints(lvl *Level) {
	for _, note := range lvl.Notes {
		for j := 0; j < 2; j++ {
			for i, fp := range lvl.Fingerprints[j] {
				if fp.StartTime <= note.Time && note.Time < fp.EndTime {
					note.FingerPrintID[j] = i
					if j == 1 {
						note.Mask |= NoteMaskArpeggio
					}
					if fp.StartTime == note.Time && note.ChordID != -1 {
						note.Mask |= NoteMaskStrum
					}
					if fp.UNKStartTime == 0 {
						fp.UNKStartTime = note.Time
					}
					fp.UNKEndTime = note.Time
					if note.Time+note.Sustain < fp.EndTime {
						fp.UNKEndTime += note.Sustain
					}
				}
			}
		}
	}
}

func associateAnchors(lvl *Level) {
	for _, note := range lvl.Notes {
		for _, a := range lvl.Anchors {
			if a.Time <= note.Time && note.Time < a.EndTime {
				note.AnchorWidth = a.Width
				note.AnchorFret = a.Fret
				if a.UNKTime == 0 {
					a.UNKTime = note.Time
				}
				a.UNKTime2 = note.Time
				if note.Time+note.Sustain < a.EndTime-0.1 {
					a.UNKTime2 += note.Sustain
				}
			}
		}
	}
	for _, a := range lvl.Anchors {
		if a.UNKTime == 0 {
			a.UNKTime = a.Time
			a.UNKTime2 = a.Time + 0.1
		}
	}
}

// chainIterationNotes links each phrase iteration's contained notes into
// a next/prev chain, resetting the chain's last member's NextIterNote to
// -1.
func chainIterationNotes(s *Song, lvl *Level) {
	for _, iter := range s.PhraseIterations {
		count := 0
		last := -1
		for j, note := range lvl.Notes {
			if note.Time < iter.Time {
				continue
			}
			if iter.EndTime <= note.Time {
				break
			}
			note.NextIterNote = j + 1
			if count > 0 {
				note.PrevIterNote = j - 1
			}
			count++
			last = j
		}
		if count > 0 {
			lvl.Notes[last].NextIterNote = -1
		}
	}
}

// linkParentChild scans notes left to right; each note looks back for the
// nearest preceding note at a different time that shares its string or is
// a chord, clamped to 8 positions, and inherits PARENT/CHILD linkage from
// it.
func linkParentChild(lvl *Level) {
	for j := 1; j < len(lvl.Notes); j++ {
		note := lvl.Notes[j]
		prevnote := 1
		if note.Time != lvl.Notes[j-1].Time {
			prevnote = 1
		} else {
			for i := 0; i <= 8; i++ {
				if j-i < 1 {
					prevnote = i
					break
				}
				prv := lvl.Notes[j-i]
				if prv.Time != note.Time {
					if prv.ChordID != -1 || prv.String == note.String {
						prevnote = i
						break
					}
				}
			}
		}
		prev := lvl.Notes[j-prevnote]
		if prev.Mask&NoteMaskParent != 0 {
			note.ParentPrevNote = prev.NextIterNote - 1
			note.Mask |= NoteMaskChild
		}
	}
}

func buildAnchorExtensions(lvl *Level) {
	for _, note := range lvl.Notes {
		if note.SlideTo != -1 {
			lvl.AnchorExtensions = append(lvl.AnchorExtensions, AnchorExtension{
				Fret: note.SlideTo,
				Time: note.Time + note.Sustain,
			})
		}
	}
}

func countNotesPerIteration(s *Song, lvl *Level) {
	n := len(s.PhraseIterations)
	lvl.NotesInIterCount = make([]int, n)
	lvl.NotesInIterCountNoIgnored = make([]int, n)
	for _, note := range lvl.Notes {
		for i, piter := range s.PhraseIterations[1:] {
			if piter.Time > note.Time {
				if note.Ignore == 0 {
					lvl.NotesInIterCountNoIgnored[i]++
				}
				lvl.NotesInIterCount[i]++
				break
			}
		}
	}
}

func averageNotesPerPhrase(s *Song, lvl *Level) {
	lvl.AverageNotesPerIter = make([]float64, len(s.Phrases))
	iterCount := make([]int, len(s.Phrases))
	for i, piter := range s.PhraseIterations {
		lvl.AverageNotesPerIter[piter.PhraseID] += float64(lvl.NotesInIterCount[i])
		iterCount[piter.PhraseID]++
	}
	for i, count := range iterCount {
		if count > 0 {
			lvl.AverageNotesPerIter[i] /= float64(count)
		}
	}
}

// flagNumberedRepeats is the numbered-repeat scan: walk notes with a
// rolling phrase-iteration pointer, skipping open-string notes; a note is
// a repeat (and not flagged) if, within the same phrase iteration and a
// 2.0s/8-note look-back window, an earlier note with the same fret (or
// chordId, for chords) already carries NOTE_FLAGS_NUMBERED.
func flagNumberedRepeats(s *Song, lvl *Level) {
	p := 0
	for i := 0; i < len(lvl.Notes); i++ {
		note := lvl.Notes[i]
		if note.Fret == 0 {
			continue
		}
		for p < len(s.PhraseIterations) && s.PhraseIterations[p].EndTime <= note.Time {
			p++
		}
		if p >= len(s.PhraseIterations) {
			p = len(s.PhraseIterations) - 1
		}

		repeat := false
		start := i - 8
		if start < 0 {
			start = 0
		}
		for j := i - 1; j >= start; j-- {
			if lvl.Notes[j].Time+2.0 < note.Time {
				continue
			}
			if lvl.Notes[j].Time < s.PhraseIterations[p].Time {
				continue
			}
			sameTarget := (note.ChordID == -1 && lvl.Notes[j].Fret == note.Fret) ||
				(note.ChordID != -1 && lvl.Notes[j].ChordID == note.ChordID)
			if sameTarget && lvl.Notes[j].Flags&NoteFlagsNumbered != 0 {
				repeat = true
				break
			}
		}
		if !repeat {
			note.Flags |= NoteFlagsNumbered
		}
	}
}
