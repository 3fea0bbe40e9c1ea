package game

// shuffledQuestions returns a uniform permutation of pool without touching
// the input slice. rand.Rand is not safe for concurrent use, hence the lock.
func (c *Controller) shuffledQuestions(pool []string) []string {
	out := make([]string, len(pool))
	copy(out, pool)

	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	for i := len(out) - 1; i > 0; i-- {
		j := c.rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}
