package usecase

import "strings"

// enhancement suffixes by theme; the first matching keyword wins.
var enhancements = []struct {
	keywords []string
	suffix   string
}{
	{
		keywords: []string{"dance", "dancing", "dancer"},
		suffix:   ", energetic dance moves, dynamic motion, rhythmic movement",
	},
	{
		keywords: []string{"cat", "dog", "bird", "animal", "fox", "horse"},
		suffix:   ", detailed fur and feathers, natural animal movement",
	},
	{
		keywords: []string{"nature", "forest", "ocean", "mountain", "river", "sunset"},
		suffix:   ", lush natural scenery, golden hour lighting",
	},
	{
		keywords: []string{"space", "galaxy", "planet", "star", "cosmos"},
		suffix:   ", cosmic scale, glowing starfield backdrop",
	},
	{
		keywords: []string{"city", "street", "urban", "downtown"},
		suffix:   ", neon lights, bustling urban atmosphere",
	},
}

const defaultEnhancement = ", cinematic lighting, smooth camera motion, high detail"

// EnhancePrompt appends a theme-matched cinematic suffix. The result is
// always distinct from the input, so the caller can offer a choice
// between the two.
func EnhancePrompt(prompt string) string {
	lowered := strings.ToLower(prompt)
	for _, e := range enhancements {
		for _, kw := range e.keywords {
			if containsWord(lowered, kw) {
				return prompt + e.suffix
			}
		}
	}
	return prompt + defaultEnhancement
}

func containsWord(s, word string) bool {
	for _, field := range strings.Fields(s) {
		if strings.Trim(field, ".,!?;:\"'()") == word {
			return true
		}
	}
	return false
}
