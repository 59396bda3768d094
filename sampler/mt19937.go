package sampler

import "math/big"

// MT19937 parameters.
const (
	mtN       = 624
	mtM       = 397
	matrixA   = 0x9908b0df
	upperMask = 0x80000000
	lowerMask = 0x7fffffff
)

// mt19937 is a 32-bit Mersenne Twister seeded the way CPython's random.seed
// seeds it from an integer, so a given seed yields the same stream of doubles
// as random.random() does.
type mt19937 struct {
	state [mtN]uint32
	index int
}

// newMT19937 returns a generator seeded with the absolute value of seed.
func newMT19937(seed *big.Int) *mt19937 {
	m := &mt19937{}
	m.seedByArray(keyWords(seed))
	return m
}

// keyWords splits |seed| into little-endian 32-bit words. Zero yields a single
// zero word.
func keyWords(seed *big.Int) []uint32 {
	n := new(big.Int).Abs(seed)
	if n.Sign() == 0 {
		return []uint32{0}
	}

	mask := big.NewInt(0xffffffff)
	word := new(big.Int)
	words := make([]uint32, 0, 2)
	for n.Sign() > 0 {
		words = append(words, uint32(word.And(n, mask).Uint64()))
		n.Rsh(n, 32)
	}
	return words
}

func (m *mt19937) seedScalar(s uint32) {
	m.state[0] = s
	for i := 1; i < mtN; i++ {
		prev := m.state[i-1]
		m.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	m.index = mtN
}

func (m *mt19937) seedByArray(key []uint32) {
	m.seedScalar(19650218)

	i, j := 1, 0
	for k := max(mtN, len(key)); k > 0; k-- {
		prev := m.state[i-1]
		m.state[i] = (m.state[i] ^ ((prev ^ (prev >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k := mtN - 1; k > 0; k-- {
		prev := m.state[i-1]
		m.state[i] = (m.state[i] ^ ((prev ^ (prev >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
	}

	// MSB is 1, assuring a non-zero initial array
	m.state[0] = 0x80000000
	m.index = mtN
}

func (m *mt19937) twist() {
	for k := 0; k < mtN; k++ {
		y := (m.state[k] & upperMask) | (m.state[(k+1)%mtN] & lowerMask)
		next := m.state[(k+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			next ^= matrixA
		}
		m.state[k] = next
	}
	m.index = 0
}

// Uint32 returns the next tempered output word.
func (m *mt19937) Uint32() uint32 {
	if m.index >= mtN {
		m.twist()
	}
	y := m.state[m.index]
	m.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Float64 returns a double in [0, 1) with 53 bits of precision built from two
// output words.
func (m *mt19937) Float64() float64 {
	a := m.Uint32() >> 5
	b := m.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}
