// Package filter validates prompts against the content policy. It is a
// pure function layer: no I/O, no clock, independently testable.
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPromptLength = 5
	MaxPromptLength = 1500

	// Prompts with more than this many words are checked for repetition.
	repetitionMinWords = 5
	// Reject when unique/total falls below this ratio.
	repetitionRatio = 0.4
	// Reject when any rune repeats this many times in a row.
	maxRunRepeat = 5
)

var bannedWords = []string{
	"sex", "porn", "nude", "naked", "erotic", "xxx", "nsfw",
	"kill", "murder", "stab", "shoot", "attack", "assault", "bomb", "weapon",
	"hate", "racist", "nazi", "fascist", "supremacist", "bigot",
	"cocaine", "heroin", "meth", "marijuana",
	"gore", "torture", "abuse", "scam", "fraud",
}

var bannedPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(bannedWords, "|") + `)\b`)

// Digit look-alike substitutions used to slip banned terms past the
// whole-word check.
var leetReplacements = map[rune]string{
	'a': "[a4]",
	'b': "[b8]",
	'e': "[e3]",
	'g': "[g9]",
	'i': "[i1]",
	'l': "[l1]",
	'o': "[o0]",
	's': "[s5]",
	't': "[t7]",
}

var leetPattern = buildLeetPattern()

func buildLeetPattern() *regexp.Regexp {
	variants := make([]string, 0, len(bannedWords))
	for _, word := range bannedWords {
		var b strings.Builder
		for _, r := range word {
			if class, ok := leetReplacements[r]; ok {
				b.WriteString(class)
			} else {
				b.WriteString(regexp.QuoteMeta(string(r)))
			}
		}
		variants = append(variants, b.String())
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(variants, "|") + `)\b`)
}

// Validate applies the policy rules in order; the first failure wins.
// It returns (true, "") for an accepted prompt.
func Validate(prompt string) (bool, string) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return false, "Prompt is empty. Please write a descriptive prompt."
	}

	length := utf8.RuneCountInString(trimmed)
	if length < MinPromptLength {
		return false, "Prompt too short. Please describe your video idea in more detail."
	}
	if length > MaxPromptLength {
		return false, fmt.Sprintf("Prompt too long (%d chars). Max %d.", length, MaxPromptLength)
	}

	if match := bannedPattern.FindString(trimmed); match != "" {
		return false, fmt.Sprintf("Prompt contains a disallowed term: %q. Please remove it.", strings.ToLower(match))
	}

	// Obfuscated variants get a generic message so the matched text is
	// never echoed back.
	if leetPattern.MatchString(trimmed) {
		return false, "Prompt violates the content policy. Please try a different idea."
	}

	words := strings.Fields(trimmed)
	if len(words) > repetitionMinWords {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		if float64(len(unique))/float64(len(words)) < repetitionRatio {
			return false, "Prompt too repetitive. Please make it more descriptive."
		}
	}

	if hasLongRun(trimmed, maxRunRepeat) {
		return false, "Prompt contains excessive character repetition. Please clean it up."
	}

	return true, ""
}

func hasLongRun(s string, limit int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= limit {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
