package battle

// Deterministic draws. Every chance roll in the engine hashes the
// battle seed together with the tick and the acting entity, so a
// replay with the same seed and scenario produces the identical
// event log regardless of map iteration order or wall-clock time.

// mix64 is a splitmix64 finalizer.
func mix64(v uint64) uint64 {
	v ^= v >> 30
	v *= 0xbf58476d1ce4e5b9
	v ^= v >> 27
	v *= 0x94d049bb133111eb
	v ^= v >> 31
	return v
}

// draw produces a uniform float64 in [0, 1) from the seed and a set of
// stream identifiers.
func draw(seed uint64, parts ...uint64) float64 {
	h := mix64(seed ^ 0x9e3779b97f4a7c15)
	for _, p := range parts {
		h = mix64(h ^ p)
	}
	return float64(h>>11) / float64(1<<53)
}

// drawInt produces a uniform int in [0, n) from the seed and stream
// identifiers. n must be positive.
func drawInt(seed uint64, n int, parts ...uint64) int {
	return int(draw(seed, parts...) * float64(n))
}
