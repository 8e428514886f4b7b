package machine

import "github.com/mna/ippcode23/lang/status"

// Labels maps a label name to the order of the instruction immediately
// following the LABEL that declared it (spec.md §4.6); that successor
// order need not itself exist in the program (gap-skipping applies when
// the jump is taken, via Program.Seek).
type Labels map[string]uint64

// BuildLabels performs the single pass over the validated instruction
// stream spec.md §4.6 describes. A duplicate LABEL name is a semantic
// error.
func BuildLabels(prog *Program) (Labels, error) {
	labels := make(Labels)
	for _, insn := range prog.All() {
		if insn.Opcode != LABEL {
			continue
		}
		name := insn.Args[0].Text
		if _, exists := labels[name]; exists {
			return nil, status.New(status.Semantic, "duplicate label %q", name)
		}
		// the target is the order immediately following LABEL, whether or
		// not an instruction actually sits there; Program.Seek performs the
		// gap-skip when the jump is taken.
		labels[name] = insn.Order + 1
	}
	return labels, nil
}
