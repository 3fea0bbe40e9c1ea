package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShuffledQuestionsIsPermutation(t *testing.T) {
	env := newTestEnv()
	pool := questionPool(12)

	out := env.controller.shuffledQuestions(pool)

	assert.ElementsMatch(t, pool, out)
	assert.Equal(t, questionPool(12), pool, "input must not be mutated")
}

func TestShuffledQuestionsDeterministicPerSeed(t *testing.T) {
	a := newTestEnv()
	b := newTestEnv()
	a.controller.rng = rand.New(rand.NewSource(42))
	b.controller.rng = rand.New(rand.NewSource(42))

	pool := questionPool(12)

	assert.Equal(t, a.controller.shuffledQuestions(pool), b.controller.shuffledQuestions(pool))
}
