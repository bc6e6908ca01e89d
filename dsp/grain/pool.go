package grain

import "math/rand"

const (
	// DefaultCapacity is the pool's allocated slot count.
	DefaultCapacity = 256
	// MaxSpawnsPerTick bounds how many grains one tick may start.
	MaxSpawnsPerTick = 10
)

// Pool is a fixed-capacity arena of grains. Slots [0, Len) are live;
// retirement swaps the retired grain with the last live one so the live
// range stays dense. Nothing allocates after construction.
type Pool struct {
	grains   []Grain
	length   int
	maxCount int
	rng      *rand.Rand
}

// NewPool allocates a pool with the given slot capacity and a seeded RNG
// for deterministic spawn scheduling.
func NewPool(capacity int, seed int64) *Pool {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	return &Pool{
		grains:   make([]Grain, capacity),
		maxCount: capacity,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Len returns the number of live grains.
func (p *Pool) Len() int {
	return p.length
}

// Cap returns the allocated slot capacity.
func (p *Pool) Cap() int {
	return len(p.grains)
}

// MaxCount returns the current live-grain ceiling.
func (p *Pool) MaxCount() int {
	return p.maxCount
}

// SetMaxCount adjusts the live-grain ceiling, clamped to [0, Cap].
// Raising it takes effect immediately; lowering it only stops new spawns,
// and grains above the new ceiling age out naturally rather than being
// cut short.
func (p *Pool) SetMaxCount(n int) {
	if n < 0 {
		n = 0
	}

	if n > len(p.grains) {
		n = len(p.grains)
	}

	p.maxCount = n
}

// Grain returns the i-th live grain.
func (p *Pool) Grain(i int) *Grain {
	return &p.grains[i]
}

// SpawnBudget draws this tick's spawn allowance: at most MaxSpawnsPerTick,
// biased toward fewer by squaring a uniform draw.
func (p *Pool) SpawnBudget() int {
	r := p.rng.Float64()

	return int(r * r * float64(MaxSpawnsPerTick))
}

// Rand returns a uniform draw in [0, 1) from the pool's RNG, used by the
// granular effect for grain size and position jitter.
func (p *Pool) Rand() float64 {
	return p.rng.Float64()
}

// Spawn reserves the next free slot and returns it, or nil when the pool
// has reached its ceiling. The caller initializes the grain's envelope and
// position.
func (p *Pool) Spawn() *Grain {
	if p.length >= p.maxCount {
		return nil
	}

	g := &p.grains[p.length]
	*g = Grain{}
	p.length++

	return g
}

// Retire frees the i-th live grain by swapping it with the last live one.
// Callers iterating the live range must re-examine index i after a retire.
func (p *Pool) Retire(i int) {
	p.length--
	if i != p.length {
		p.grains[i] = p.grains[p.length]
	}
}

// Reset retires every grain. Slot capacity is preserved.
func (p *Pool) Reset() {
	p.length = 0
}
