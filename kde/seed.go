package kde

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// streamSeed mixes the estimator seed with the repetition index,
// so every repetition gets its own stream regardless of build order
func streamSeed(seed uint64, rep int, lane uint64) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], seed)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(rep))
	binary.LittleEndian.PutUint64(buf[16:24], lane)
	return xxhash.Sum64(buf[:])
}

func newStream(seed uint64, rep int) rand.Source {
	return rand.NewPCG(streamSeed(seed, rep, 0), streamSeed(seed, rep, 1))
}

// newQueryRand returns call-local generator; global source is safe for concurrent use
func newQueryRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
