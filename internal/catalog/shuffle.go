package catalog

import "math/rand"

// Shuffle returns an unbiased permutation of the catalog: every record
// appears exactly once and each ordering is equally likely (Fisher-Yates).
// The input slice is not modified. Fails with ErrEmptyCatalog for an empty
// catalog.
func Shuffle(records []QuestionRecord, rng *rand.Rand) ([]QuestionRecord, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}

	shuffled := make([]QuestionRecord, len(records))
	copy(shuffled, records)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled, nil
}
