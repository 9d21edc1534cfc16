package song

// processPhraseIterationLinks counts how many phrase iterations reference
// each phrase.
func processPhraseIterationLinks(s *Song) {
	for _, p := range s.Phrases {
		links := 0
		for _, pi := range s.PhraseIterations {
			if pi.PhraseID == p.ID {
				links++
			}
		}
		p.PhraseIterationLinks = links
	}
}

// processPhraseIterationWindows chains each iteration's endTime to the
// next iteration's time (or song length for the last one) and derives its
// difficulty vector from the referenced phrase's maxDifficulty,
// overridden per hero level.
func processPhraseIterationWindows(s *Song) {
	n := len(s.PhraseIterations)
	if n == 0 {
		return
	}
	s.PhraseIterations[n-1].EndTime = s.SongLength
	for i := 0; i < n-1; i++ {
		s.PhraseIterations[i].EndTime = s.PhraseIterations[i+1].Time
	}

	for _, pi := range s.PhraseIterations {
		pi.Difficulty = [3]int{0, 0, s.Phrases[pi.PhraseID].MaxDifficulty}
		for _, h := range pi.HeroLevels {
			pi.Difficulty[h.Hero-1] = h.Difficulty
		}
	}
}
