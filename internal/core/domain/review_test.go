package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewAnswer_Accepted(t *testing.T) {
	accepted := []string{
		"The deployment failed because the config was stale",
		"We migrated to the new queue last quarter",
		"It mostly worked, but retries were flaky",
	}

	for _, answer := range accepted {
		assert.NoError(t, ReviewAnswer(answer), "expected %q to be accepted", answer)
	}
}

func TestReviewAnswer_Empty(t *testing.T) {
	for _, answer := range []string{"", "   ", "\t\n"} {
		err := ReviewAnswer(answer)

		require.Error(t, err)
		qe, ok := IsQualityError(err)
		require.True(t, ok)
		assert.Contains(t, qe.Reason, "empty")
	}
}

func TestReviewAnswer_TooShort(t *testing.T) {
	// "ok" matches no deflection pattern but fails the token minimum.
	err := ReviewAnswer("ok")

	require.Error(t, err)
	qe, ok := IsQualityError(err)
	require.True(t, ok)
	assert.Contains(t, qe.Reason, "too short")

	assert.Error(t, ReviewAnswer("two words"))
}

func TestReviewAnswer_Deflections(t *testing.T) {
	deflecting := []string{
		"I don't know",
		"i don't know",
		"No idea",
		"maybe",
		"Not sure",
		"???",
		"yes",
		"No",
		"what about you instead",
		"Why do you keep asking me this",
	}

	for _, answer := range deflecting {
		err := ReviewAnswer(answer)

		require.Error(t, err, "expected %q to be rejected", answer)
		_, ok := IsQualityError(err)
		assert.True(t, ok)
	}
}

func TestReviewAnswer_DeflectionIsWholeString(t *testing.T) {
	// "maybe" only deflects as the entire answer, not as a substring.
	assert.NoError(t, ReviewAnswer("maybe the cache was cold at startup"))
	// "yes" embedded in a real answer is fine.
	assert.NoError(t, ReviewAnswer("yes, and the second region failed too"))
}
