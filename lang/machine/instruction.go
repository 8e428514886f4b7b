package machine

// Instruction is a single decoded program step: its source order, its
// opcode, and its ordered (0 to 3) operands, per spec.md §3. Orders are
// unique but may be sparse; the program they belong to is addressed
// through a Program, which keeps them sorted for gap-skipping traversal.
type Instruction struct {
	Order  uint64
	Opcode Opcode
	Args   []Operand
}

// Program is a validated, ordered instruction stream ready for label
// indexing and execution.
type Program struct {
	// insns is sorted by Order ascending; Orders are unique (enforced at
	// decode time, spec.md §6).
	insns []Instruction
}

// NewProgram builds a Program from a slice of instructions, sorting them by
// Order. It does not validate shapes, that is Validate's job, run once
// before the Program is trusted; nor does it check uniqueness of Order,
// which is enforced when the XML document is decoded.
func NewProgram(insns []Instruction) *Program {
	p := &Program{insns: append([]Instruction(nil), insns...)}
	p.sort()
	return p
}

func (p *Program) sort() {
	// insertion sort: program sizes are small enough (thousands of
	// instructions at most) that an allocation-free sort here isn't worth
	// pulling in sort.Slice's reflection-based comparator.
	for i := 1; i < len(p.insns); i++ {
		for j := i; j > 0 && p.insns[j-1].Order > p.insns[j].Order; j-- {
			p.insns[j-1], p.insns[j] = p.insns[j], p.insns[j-1]
		}
	}
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int { return len(p.insns) }

// All returns the instructions in ascending Order.
func (p *Program) All() []Instruction { return p.insns }

// Seek returns the first instruction whose Order is >= order, implementing
// the gap-skipping traversal spec.md §4.7 requires: a jump, call or
// fall-through target need not land exactly on an existing order. Returns
// false once order exceeds every instruction's Order, which is how the
// executor recognizes "ran off the end of the program".
func (p *Program) Seek(order uint64) (Instruction, bool) {
	i := p.lowerBound(order)
	if i < len(p.insns) {
		return p.insns[i], true
	}
	return Instruction{}, false
}

// lowerBound returns the index of the first instruction with Order >= x.
func (p *Program) lowerBound(x uint64) int {
	lo, hi := 0, len(p.insns)
	for lo < hi {
		mid := (lo + hi) / 2
		if p.insns[mid].Order < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
