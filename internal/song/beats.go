package song

// phraseIteration returns the index of the phrase iteration containing
// time t: the smallest index i such that phraseIterations[i+1].Time is not
// ≤ t (or, with includeEnd, not < t), walking from index 1. It is used
// throughout to attribute events to phrase iterations.
func phraseIteration(s *Song, t float64, includeEnd bool) int {
	for i, pi := range s.PhraseIterations[1:] {
		if pi.Time > t || (includeEnd && pi.Time == t) {
			return i
		}
	}
	return len(s.PhraseIterations) - 1
}

// processEBeats computes intra-measure indexing, the mask, and the phrase
// iteration attribution for every beat.
func processEBeats(s *Song) {
	if len(s.EBeats) == 0 {
		return
	}
	s.EBeats[0].Beat = 0
	for i := 1; i < len(s.EBeats); i++ {
		b, prev := s.EBeats[i], s.EBeats[i-1]
		if b.Measure > -1 {
			b.Beat = 0
		} else {
			b.Measure = prev.Measure
			b.Beat = prev.Beat + 1
		}
	}

	for _, b := range s.EBeats {
		b.Mask = 0
		if b.Beat == 0 {
			if b.Measure%2 == 0 {
				b.Mask = 3
			} else {
				b.Mask = 1
			}
		}
		b.PhraseIteration = phraseIteration(s, b.Time, true)
	}
}
