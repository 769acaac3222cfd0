package eval

import "github.com/kiwicore/morlock/pkg/board"

// Cache is a direct-mapped cache of whole-position evaluations, keyed by the high half of
// the Zobrist hash (the low half serves as an implicit verification tag stored alongside
// the score, so a hash collision within the index space is detected and treated as a miss).
type Cache struct {
	entries []cacheEntry
	mask    uint64
}

type cacheEntry struct {
	tag   uint32
	score board.Score
}

// NewCache allocates a cache with 1<<bits entries.
func NewCache(bits uint) *Cache {
	return &Cache{
		entries: make([]cacheEntry, 1<<bits),
		mask:    1<<bits - 1,
	}
}

func (c *Cache) index(h board.ZobristHash) (uint64, uint32) {
	v := uint64(h)
	return (v >> 32) & c.mask, uint32(v)
}

// Probe returns the cached evaluation for h, if present and not a collision.
func (c *Cache) Probe(h board.ZobristHash) (board.Score, bool) {
	idx, tag := c.index(h)
	e := c.entries[idx]
	if e.tag != tag || (tag == 0 && e.score == 0) {
		return 0, false
	}
	return e.score, true
}

// Store unconditionally replaces whatever occupies h's slot.
func (c *Cache) Store(h board.ZobristHash, score board.Score) {
	idx, tag := c.index(h)
	c.entries[idx] = cacheEntry{tag: tag, score: score}
}

// PawnCache caches the opening/endgame pawn-structure subterms, keyed by the position's
// pawn-only Zobrist hash so it survives any non-pawn move untouched.
type PawnCache struct {
	entries []pawnEntry
	mask    uint64
}

type pawnEntry struct {
	tag            uint32
	opening, endgame board.Score
}

// NewPawnCache allocates a pawn cache with 1<<bits entries.
func NewPawnCache(bits uint) *PawnCache {
	return &PawnCache{
		entries: make([]pawnEntry, 1<<bits),
		mask:    1<<bits - 1,
	}
}

func (c *PawnCache) index(h board.ZobristHash) (uint64, uint32) {
	v := uint64(h)
	return (v >> 32) & c.mask, uint32(v)
}

// Probe returns the cached opening/endgame pawn terms for h, if present.
func (c *PawnCache) Probe(h board.ZobristHash) (board.Score, board.Score, bool) {
	idx, tag := c.index(h)
	e := c.entries[idx]
	if e.tag != tag || (tag == 0 && e.opening == 0 && e.endgame == 0) {
		return 0, 0, false
	}
	return e.opening, e.endgame, true
}

// Store unconditionally replaces whatever occupies h's slot.
func (c *PawnCache) Store(h board.ZobristHash, opening, endgame board.Score) {
	idx, tag := c.index(h)
	c.entries[idx] = pawnEntry{tag: tag, opening: opening, endgame: endgame}
}
