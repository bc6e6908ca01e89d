package tone

// Pool is a fixed-capacity arena of Tones. Acquire hands out a reset Tone;
// Release returns it once the note's tail has become inaudible. No Tone is
// ever constructed after the pool is.
type Pool struct {
	tones []Tone
	free  []*Tone
}

// NewPool preallocates capacity tones, all initially free.
func NewPool(capacity int) *Pool {
	if capacity < 1 {
		capacity = 1
	}

	p := &Pool{
		tones: make([]Tone, capacity),
		free:  make([]*Tone, capacity),
	}

	for i := range p.tones {
		p.tones[i].Reset()
		p.free[i] = &p.tones[i]
	}

	return p
}

// Cap returns the pool's total tone capacity.
func (p *Pool) Cap() int {
	return len(p.tones)
}

// Free returns how many tones are currently available.
func (p *Pool) Free() int {
	return len(p.free)
}

// Acquire returns a reset Tone marked active, or nil when the pool is
// exhausted. Callers that hit nil steal their own oldest tone rather than
// allocating.
func (p *Pool) Acquire() *Tone {
	if len(p.free) == 0 {
		return nil
	}

	t := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	t.Reset()
	t.Active = true

	return t
}

// Release resets t and returns it to the free list. Releasing a nil tone
// is a no-op.
func (p *Pool) Release(t *Tone) {
	if t == nil {
		return
	}

	t.Reset()
	p.free = append(p.free, t)
}
