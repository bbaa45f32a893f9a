package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_EmptyPrompt(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\t\n"} {
		ok, reason := Validate(prompt)
		require.False(t, ok)
		require.Contains(t, reason, "empty")
	}
}

func TestValidate_TooShort(t *testing.T) {
	for _, prompt := range []string{"cat", "dog ", "  ab  ", "1234"} {
		ok, reason := Validate(prompt)
		require.False(t, ok, "prompt %q should be rejected", prompt)
		require.Contains(t, reason, "too short")
	}
}

func TestValidate_TooLongIncludesLength(t *testing.T) {
	prompt := strings.Repeat("a scenic mountain view ", 80)
	ok, reason := Validate(prompt)
	require.False(t, ok)
	require.Contains(t, reason, "too long")
	require.Contains(t, reason, "1839")
}

func TestValidate_BannedWordNamed(t *testing.T) {
	ok, reason := Validate("a bomb going off")
	require.False(t, ok)
	require.Contains(t, reason, "bomb")
}

func TestValidate_BannedWordCaseInsensitive(t *testing.T) {
	ok, reason := Validate("the WEAPON fires at dawn")
	require.False(t, ok)
	require.Contains(t, reason, "weapon")
}

func TestValidate_BannedWordWholeWordOnly(t *testing.T) {
	// "bombay" and "assess" contain banned substrings but not banned words.
	ok, reason := Validate("streets of bombay at sunset")
	require.True(t, ok, "got reason: %s", reason)
}

func TestValidate_LeetspeakGenericMessage(t *testing.T) {
	ok, reason := Validate("a b0mb going off")
	require.False(t, ok)
	require.NotContains(t, reason, "b0mb")
	require.Contains(t, reason, "content policy")
}

func TestValidate_RepetitionRatio(t *testing.T) {
	ok, _ := Validate("x x x x x x x x")
	require.False(t, ok)

	ok, reason := Validate("a golden retriever chasing seagulls along a windy beach at dawn with crashing turquoise waves behind")
	require.True(t, ok, "got reason: %s", reason)
}

func TestValidate_RepetitionSkippedForShortPrompts(t *testing.T) {
	// 5 words or fewer: ratio rule does not apply.
	ok, reason := Validate("go go go go!")
	require.True(t, ok, "got reason: %s", reason)
}

func TestValidate_ConsecutiveCharacterRun(t *testing.T) {
	ok, reason := Validate("a dog runninggggg around")
	require.False(t, ok)
	require.Contains(t, reason, "repetition")
}

func TestValidate_AcceptReturnsEmptyReason(t *testing.T) {
	ok, reason := Validate("A cute cat playing piano in space")
	require.True(t, ok)
	require.Empty(t, reason)
}
