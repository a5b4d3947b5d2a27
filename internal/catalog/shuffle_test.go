package catalog

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeRecords(n int) []QuestionRecord {
	records := make([]QuestionRecord, n)
	for i := range records {
		records[i] = QuestionRecord{
			ID:           fmt.Sprintf("video-%d", i),
			Prompt:       "prompt",
			Options:      []string{"a", "b"},
			CorrectIndex: 0,
		}
	}
	return records
}

func TestShuffleIsPermutation(t *testing.T) {
	records := makeRecords(20)
	rng := rand.New(rand.NewSource(42))

	shuffled, err := Shuffle(records, rng)
	assert.NoError(t, err)
	assert.Len(t, shuffled, len(records))

	seen := make(map[string]int)
	for _, r := range shuffled {
		seen[r.ID]++
	}
	for _, r := range records {
		assert.Equal(t, 1, seen[r.ID], "record %s must appear exactly once", r.ID)
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	records := makeRecords(10)
	rng := rand.New(rand.NewSource(7))

	_, err := Shuffle(records, rng)
	assert.NoError(t, err)

	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("video-%d", i), r.ID)
	}
}

func TestShuffleEmptyCatalog(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Shuffle(nil, rng)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestShuffleSingleRecord(t *testing.T) {
	records := makeRecords(1)
	rng := rand.New(rand.NewSource(1))

	shuffled, err := Shuffle(records, rng)
	assert.NoError(t, err)
	assert.Equal(t, records, shuffled)
}
