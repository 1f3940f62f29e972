package dice

// Rollable is anything that can produce a value from a Source.
// Die and *Pool both implement it, so pools can nest.
type Rollable interface {
	Roll(src Source) (int, error)
}

// Faced is implemented by rollables with a known highest face.
type Faced interface {
	Max() int
}

// State is the cache state of a pool.
type State int

const (
	// Unrolled pools have no cached outcomes.
	Unrolled State = iota
	// Rolled pools hold one cached outcome per member.
	Rolled
)

func (s State) String() string {
	if s == Rolled {
		return "rolled"
	}
	return "unrolled"
}

// Outcome is one member's cached draw plus any draws a modifier made for it.
type Outcome struct {
	Value int
	Extra []int
}

// Total returns the value with every extra draw added, as an exploded die reads.
func (o Outcome) Total() int {
	total := o.Value
	for _, v := range o.Extra {
		total += v
	}
	return total
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithAggregate replaces the default Sum aggregate.
func WithAggregate(aggregate Aggregate) PoolOption {
	return func(p *Pool) {
		if aggregate != nil {
			p.aggregate = aggregate
		}
	}
}

// WithModifier attaches a success-counting modifier.
func WithModifier(modifier Modifier) PoolOption {
	return func(p *Pool) {
		p.modifier = &modifier
	}
}

// WithBonus adds a flat bonus to the pool result.
func WithBonus(bonus int) PoolOption {
	return func(p *Pool) {
		p.bonus = bonus
	}
}

// Pool is an ordered group of rollables aggregated into one result.
// A Pool is not safe for concurrent use.
type Pool struct {
	members   []Rollable
	aggregate Aggregate
	modifier  *Modifier
	bonus     int

	state    State
	outcomes []Outcome
}

// NewPool returns an unrolled pool over members.
func NewPool(members []Rollable, opts ...PoolOption) *Pool {
	owned := make([]Rollable, len(members))
	copy(owned, members)
	p := &Pool{members: owned, aggregate: Sum}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewDicePool returns a pool of count copies of die.
func NewDicePool(count int, die Die, opts ...PoolOption) *Pool {
	if count < 0 {
		count = 0
	}
	members := make([]Rollable, count)
	for i := range members {
		members[i] = die
	}
	return NewPool(members, opts...)
}

// Len returns the number of members.
func (p *Pool) Len() int { return len(p.members) }

// State returns the cache state.
func (p *Pool) State() State { return p.state }

// Bonus returns the flat bonus.
func (p *Pool) Bonus() int { return p.bonus }

// Modifier returns the attached modifier, if any.
func (p *Pool) Modifier() (Modifier, bool) {
	if p.modifier == nil {
		return Modifier{}, false
	}
	return *p.modifier, true
}

// Outcomes returns a copy of the cached outcomes. The second value is false
// while the pool is unrolled.
func (p *Pool) Outcomes() ([]Outcome, bool) {
	if p.state != Rolled {
		return nil, false
	}
	out := make([]Outcome, len(p.outcomes))
	for i, o := range p.outcomes {
		out[i] = Outcome{Value: o.Value}
		if len(o.Extra) > 0 {
			out[i].Extra = append([]int(nil), o.Extra...)
		}
	}
	return out, true
}

// Result draws the pool if it is unrolled, then aggregates the cached outcomes.
// Repeated calls return the same value until Reroll or Reset.
func (p *Pool) Result(src Source) (int, error) {
	if p.state == Unrolled {
		if err := p.draw(src); err != nil {
			return 0, err
		}
	}
	return p.score()
}

// Reroll discards the cache and returns a freshly drawn result.
func (p *Pool) Reroll(src Source) (int, error) {
	p.Reset()
	return p.Result(src)
}

// Reset discards the cache without drawing.
func (p *Pool) Reset() {
	p.state = Unrolled
	p.outcomes = nil
}

// Roll implements Rollable. An enclosing pool always sees a fresh draw.
func (p *Pool) Roll(src Source) (int, error) {
	return p.Reroll(src)
}

func (p *Pool) draw(src Source) error {
	outcomes := make([]Outcome, 0, len(p.members))
	for _, member := range p.members {
		value, err := member.Roll(src)
		if err != nil {
			return err
		}
		outcome := Outcome{Value: value}
		if p.modifier != nil {
			extra, err := p.modifier.extraDraws(member, value, src)
			if err != nil {
				return err
			}
			outcome.Extra = extra
		}
		outcomes = append(outcomes, outcome)
	}
	p.outcomes = outcomes
	p.state = Rolled
	return nil
}

func (p *Pool) score() (int, error) {
	if len(p.outcomes) == 0 {
		return 0, ErrEmptyPool
	}
	if p.modifier != nil {
		return p.modifier.score(p.outcomes) + p.bonus, nil
	}
	values := make([]int, len(p.outcomes))
	for i, o := range p.outcomes {
		values[i] = o.Value
	}
	total, err := p.aggregate(values)
	if err != nil {
		return 0, err
	}
	return total + p.bonus, nil
}
