// Package xmlprog decodes an IPPcode23 source document into the
// machine package's instruction representation, per spec.md §6. It is the
// only place in the module that imports encoding/xml: no third-party XML
// library appears anywhere in the example corpus, so this is a deliberate
// standard-library choice (see DESIGN.md).
package xmlprog

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/mna/ippcode23/lang/machine"
	"github.com/mna/ippcode23/lang/status"
)

type xmlProgram struct {
	XMLName      xml.Name
	Language     string           `xml:"language,attr"`
	Instructions []xmlInstruction `xml:"instruction"`
}

type xmlInstruction struct {
	Order  string    `xml:"order,attr"`
	Opcode string    `xml:"opcode,attr"`
	Args   []xmlArg  `xml:",any"`
}

type xmlArg struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Value   string `xml:",chardata"`
}

// Load decodes r as an IPPcode23 XML document and returns the unsorted,
// unvalidated instruction list. XML that is not well-formed fails with
// status.Malformed; well-formed XML that doesn't match the expected schema
// (wrong root element, bad order/opcode/argument shape) fails with
// status.InvalidXML. Opcode signatures and argument kinds are NOT checked
// here, that is machine.Validate's job, run once the whole stream is
// decoded.
func Load(r io.Reader) ([]machine.Instruction, error) {
	dec := xml.NewDecoder(r)
	var doc xmlProgram
	if err := dec.Decode(&doc); err != nil {
		return nil, status.New(status.Malformed, "malformed xml: %v", err)
	}
	if doc.XMLName.Local != "program" {
		return nil, status.New(status.InvalidXML, "root element must be <program>, got <%s>", doc.XMLName.Local)
	}

	seen := make(map[uint64]bool, len(doc.Instructions))
	insns := make([]machine.Instruction, 0, len(doc.Instructions))
	for _, xi := range doc.Instructions {
		order, err := parseOrder(xi.Order)
		if err != nil {
			return nil, err
		}
		if seen[order] {
			return nil, status.New(status.InvalidXML, "duplicate instruction order %d", order)
		}
		seen[order] = true

		opcode, ok := machine.LookupOpcode(xi.Opcode)
		if !ok {
			return nil, status.New(status.InvalidXML, "order %d: unknown opcode %q", order, xi.Opcode)
		}

		args, err := decodeArgs(order, xi.Args)
		if err != nil {
			return nil, err
		}

		insns = append(insns, machine.Instruction{
			Order:  order,
			Opcode: opcode,
			Args:   args,
		})
	}
	return insns, nil
}

func parseOrder(text string) (uint64, error) {
	n, err := parseUint(text)
	if err != nil || n == 0 {
		return 0, status.New(status.InvalidXML, "invalid instruction order %q", text)
	}
	return n, nil
}

func parseUint(text string) (uint64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, status.New(status.InvalidXML, "missing numeric value")
	}
	var n uint64
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, status.New(status.InvalidXML, "invalid numeric value %q", text)
		}
		n = n*10 + uint64(r-'0')
	}
	return n, nil
}

// decodeArgs sorts an instruction's <arg1>/<arg2>/<arg3> elements into
// positional order and converts each into a machine.Operand, per spec.md
// §6's XML encoding of operands.
func decodeArgs(order uint64, raw []xmlArg) ([]machine.Operand, error) {
	byPos := map[int]xmlArg{}
	for _, a := range raw {
		pos, ok := argPosition(a.XMLName.Local)
		if !ok {
			return nil, status.New(status.InvalidXML, "order %d: unexpected element <%s>", order, a.XMLName.Local)
		}
		if _, exists := byPos[pos]; exists {
			return nil, status.New(status.InvalidXML, "order %d: duplicate arg%d", order, pos)
		}
		byPos[pos] = a
	}

	args := make([]machine.Operand, len(byPos))
	for i := 1; i <= len(byPos); i++ {
		a, ok := byPos[i]
		if !ok {
			return nil, status.New(status.InvalidXML, "order %d: arguments are not contiguously numbered from 1", order)
		}
		kind, ok := machine.LookupKind(a.Type)
		if !ok {
			return nil, status.New(status.InvalidXML, "order %d: unknown argument type %q", order, a.Type)
		}
		args[i-1] = machine.Operand{Kind: kind, Text: strings.TrimSpace(a.Value)}
	}
	return args, nil
}

func argPosition(tag string) (int, bool) {
	switch tag {
	case "arg1":
		return 1, true
	case "arg2":
		return 2, true
	case "arg3":
		return 3, true
	default:
		return 0, false
	}
}
