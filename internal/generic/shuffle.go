package generic

import "math/rand"

// Shuffle randomizes the order of elements in place using the given source.
func Shuffle[T any](rnd *rand.Rand, s []T) {
	rnd.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
