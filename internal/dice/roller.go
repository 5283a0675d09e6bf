package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/dice-backend/internal/entity"
)

// Source is the randomness behind a Roller.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Roller draws independent uniform die values in [1, entity.DieFaces].
// It is safe for concurrent use.
type Roller struct {
	mu  sync.Mutex
	src Source
}

func NewRoller(src Source) *Roller {
	return &Roller{src: src}
}

// NewSeededRoller is deterministic for a given seed.
func NewSeededRoller(seed int64) *Roller {
	return NewRoller(rand.New(rand.NewSource(seed))) //nolint: gosec // dice are not a secret
}

// NewRandomRoller seeds the generator from crypto/rand.
func NewRandomRoller() *Roller {
	return NewSeededRoller(newSeed())
}

func (that *Roller) Roll(count int) []int {
	that.mu.Lock()
	defer that.mu.Unlock()

	roll := make([]int, count)
	for i := range roll {
		roll[i] = that.src.Intn(entity.DieFaces) + 1
	}

	return roll
}

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}

	return int64(binary.LittleEndian.Uint64(b[:]))
}
