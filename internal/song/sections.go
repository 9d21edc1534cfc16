package song

// processSections chains endTimes, attributes each section to its
// start/end phrase iterations, and computes its 36-entry string-mask stack
// by scanning every difficulty level from the top down, inheriting a
// level's mask from the level above when nothing sounds at that level.
func processSections(s *Song) {
	n := len(s.Sections)
	if n == 0 {
		return
	}
	s.Sections[n-1].EndTime = s.SongLength
	for i := 0; i < n-1; i++ {
		s.Sections[i].EndTime = s.Sections[i+1].StartTime
	}

	maxDifficulty := 0
	for _, p := range s.Phrases {
		if p.MaxDifficulty > maxDifficulty {
			maxDifficulty = p.MaxDifficulty
		}
	}

	for _, sec := range s.Sections {
		sec.StartPhraseIterationID = phraseIteration(s, sec.StartTime, false)
		sec.EndPhraseIterationID = phraseIteration(s, sec.EndTime, true)

		var stack [36]int
		for j := maxDifficulty; j >= 0; j-- {
			level := s.Levels[j]
			mask := 0
			// Sections are computed before the levels' chord/note merge,
			// so notes and chords are still separate lists here.
			for _, note := range level.Notes {
				if sec.StartTime <= note.Time && note.Time < sec.EndTime {
					mask |= 1 << uint(note.String)
				}
			}
			for _, chord := range level.Chords {
				if sec.StartTime <= chord.Time && chord.Time < sec.EndTime {
					template := s.ChordTemplates[chord.ChordID]
					for i := 0; i < 6; i++ {
						if template.Frets[i] > -1 {
							mask |= 1 << uint(i)
						}
					}
				}
			}
			if mask == 0 && j < maxDifficulty {
				mask = stack[j+1]
			}
			stack[j] = mask
		}
		sec.StringMask = stack
	}
}
