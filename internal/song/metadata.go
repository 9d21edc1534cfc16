package song

// processMetadata aggregates note counts at each phrase's top difficulty
// level, truncates levels to the song's max difficulty, and emits the
// scalar metadata record.
func processMetadata(s *Song) {
	var maxNotes, maxNotesNoIgnored float64
	maxDifficulty := 0
	for _, p := range s.Phrases {
		if p.MaxDifficulty > maxDifficulty {
			maxDifficulty = p.MaxDifficulty
		}
	}

	for i, piter := range s.PhraseIterations {
		j := s.Phrases[piter.PhraseID].MaxDifficulty
		maxNotes += float64(s.Levels[j].NotesInIterCount[i])
		maxNotesNoIgnored += float64(s.Levels[j].NotesInIterCountNoIgnored[i])
	}

	if maxDifficulty+1 < len(s.Levels) {
		s.Levels = s.Levels[:maxDifficulty+1]
	}

	pointsPerNote := 0.0
	if maxNotes > 0 {
		pointsPerNote = 100000.0 / maxNotes
	}

	capo := s.Capo
	if capo == 0 {
		capo = -1
	}

	firstBeatLength := 0.0
	if len(s.EBeats) > 1 {
		firstBeatLength = s.EBeats[1].Time - s.EBeats[0].Time
	}

	s.Metadata = &Metadata{
		MaxScore:               100000.0,
		MaxNotes:               maxNotes,
		MaxNotesNoIgnored:      maxNotesNoIgnored,
		PointsPerNote:          pointsPerNote,
		FirstBeatLength:        firstBeatLength,
		StartTime:              -s.Offset,
		Capo:                   capo,
		LastConversionDateTime: s.LastConversionDateTime,
		Part:                   s.Part,
		SongLength:             s.SongLength,
		Tuning:                 s.Tuning,
		FirstNoteTime:          s.FirstNoteTime,
		FirstNoteTime2:         s.FirstNoteTime,
		MaxDifficulty:          maxDifficulty,
	}
}
