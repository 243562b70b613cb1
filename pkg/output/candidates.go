package output

// DefaultCandidates lists every built-in backend constructor. Probing
// filters the set down to what this host actually supports.
func DefaultCandidates() map[string]Candidate {
	return map[string]Candidate{
		"say":     NewSayBackend,
		"espeak":  NewEspeakBackend,
		"flite":   NewFliteBackend,
		"sapi":    NewSAPIBackend,
		"speaker": NewSpeakerBackend,
		"aplay":   NewAplayBackend,
		"afplay":  NewAfplayBackend,
		"ffplay":  NewFfplayBackend,
	}
}

// DefaultPreferences is the stock fallback chain: native speech
// commands first, then in-process playback, then external players.
func DefaultPreferences() []string {
	return []string{"say", "espeak", "flite", "sapi", "speaker", "aplay", "afplay", "ffplay"}
}
