package dataType

import (
	"github.com/cespare/xxhash/v2"
)

// SeenList is the bounded dedup record of recently processed message
// identities. Eviction is FIFO, not LRU: a message re-observed after
// eviction is legitimately treated as new again. That is a tunable
// memory/correctness tradeoff of the protocol.
//
// SeenList carries no lock: it is owned by the relay loop and only
// touched from there.
type SeenList struct {
	max  int
	keys map[uint64]struct{}
	q    []uint64
	head int
}

func NewSeenList(max int) *SeenList {
	if max < 1 {
		max = 1
	}
	return &SeenList{
		max:  max,
		keys: make(map[uint64]struct{}, max),
		q:    make([]uint64, 0, max),
	}
}

// CheckAdd is the single decision point for duplication: true means the
// key was already present, false means first sighting, now recorded.
func (sl *SeenList) CheckAdd(key string) bool {
	h := xxhash.Sum64String(key)
	if _, ok := sl.keys[h]; ok {
		return true
	}
	sl.keys[h] = struct{}{}
	sl.q = append(sl.q, h)
	for len(sl.keys) > sl.max {
		oldest := sl.q[sl.head]
		delete(sl.keys, oldest)
		sl.head++
	}
	sl.compact()
	return false
}

// Len reports how many identities are currently recorded.
func (sl *SeenList) Len() int {
	return len(sl.keys)
}

// compact reclaims the consumed queue prefix once it dominates the slice.
func (sl *SeenList) compact() {
	if sl.head > sl.max && sl.head*2 > len(sl.q) {
		sl.q = append(sl.q[:0:0], sl.q[sl.head:]...)
		sl.head = 0
	}
}
