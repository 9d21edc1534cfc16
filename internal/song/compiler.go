package song

// Compile runs the full compilation over s in place: beats,
// phrase-iteration links, chord templates, phrase-iteration windows, DNA
// tagging, sections, per-level compilation, and metadata.
func Compile(s *Song) {
	s.FirstNoteTime = 1.0e6

	processEBeats(s)
	processPhraseIterationLinks(s)

	for _, t := range s.ChordTemplates {
		processChordTemplate(s, t)
	}

	processPhraseIterationWindows(s)

	// New linked diffs carry only their member phrase ids, which Decode
	// already resolved; nothing is left to derive for them here.

	processDNAs(s)
	processSections(s)

	for _, lvl := range s.Levels {
		processLevel(s, lvl)
	}

	processMetadata(s)
}

// processDNAs tags and collects events whose code names a known DNA
// marker, preserving event order.
func processDNAs(s *Song) {
	for _, e := range s.Events {
		if id, ok := DNAMapping[e.Code]; ok {
			e.ID = id
			s.DNAs = append(s.DNAs, e)
		}
	}
}
