package sand

// Bag deals tetromino kinds in shuffled groups of seven, so any seven draws
// between refill boundaries contain each kind exactly once. The internal
// linear-congruential generator is scoped to the bag; equal seeds reproduce
// equal piece sequences.
type Bag struct {
	queue []Kind
	rng   uint32
}

// NewBag creates a bag seeded for a reproducible shuffle sequence.
func NewBag(seed uint32) *Bag {
	b := &Bag{
		queue: make([]Kind, 0, 14),
		rng:   seed,
	}
	b.refill()
	return b
}

func (b *Bag) refill() {
	all := Kinds
	// Fisher-Yates
	for i := len(all) - 1; i >= 1; i-- {
		j := int(b.nextRand()) % (i + 1)
		all[i], all[j] = all[j], all[i]
	}
	b.queue = append(b.queue, all[:]...)
}

func (b *Bag) nextRand() uint32 {
	b.rng = b.rng*1103515245 + 12345
	return b.rng >> 16
}

// Next pops the upcoming kind. The queue is refilled before it can drop
// below two entries, so a one-piece lookahead is always available without a
// refill happening mid-pop.
func (b *Bag) Next() Kind {
	if len(b.queue) < 2 {
		b.refill()
	}
	k := b.queue[0]
	b.queue = b.queue[1:]
	return k
}
