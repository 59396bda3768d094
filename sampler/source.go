package sampler

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

// Source produces the uniform variate used by one weighted draw.
// drawIndex is the position of the draw in the run's global stream.
type Source interface {
	Float64(drawIndex uint64) float64
}

// Seeded returns a Source that reseeds a fresh generator with seed+drawIndex
// immediately before every draw. For a fixed (seed, drawIndex) pair the result
// is identical across platforms and runs.
//
// Example:
//
//	src := sampler.Seeded(123456)
//	v, err := sampler.Choose(candidates, src, 2)
func Seeded(seed int64) Source {
	return seededSource{seed: seed}
}

type seededSource struct {
	seed int64
}

func (s seededSource) Float64(drawIndex uint64) float64 {
	sub := new(big.Int).SetInt64(s.seed)
	sub.Add(sub, new(big.Int).SetUint64(drawIndex))
	return newMT19937(sub).Float64()
}

// Unseeded returns a Source backed by crypto/rand. Its draws are not
// reproducible.
func Unseeded() Source {
	return cryptoSource{}
}

type cryptoSource struct{}

func (cryptoSource) Float64(uint64) float64 {
	var buf [8]byte
	// rand.Read never returns an error on supported platforms
	_, _ = rand.Read(buf[:])
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// RandomSeed returns a non-negative seed from crypto/rand, for callers that
// want an unseeded run they can still log and replay.
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 42
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}
