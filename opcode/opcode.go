// Package opcode defines DODA's internal opcode enumeration and the
// bidirectional table between it and the source IR's operation strings.
package opcode

import "fmt"

// Opcode is the fixed, closed enumeration of operations a DODA PE can
// execute. Its numeric value is the binary encoding placed in the
// instruction word's opcode field, so the order below is part of the
// hardware contract.
type Opcode int

// The 20 opcode values, in their wire encoding order.
const (
	NIL Opcode = iota
	ADD
	SUB
	MUL
	LS
	RS
	AND
	OR
	XOR
	SELECT
	CMP
	CNE
	CLT
	CLTE
	CGT
	CGTE
	LOAD
	STORE
	JUMP
	UNSUPPORTED
)

var names = [...]string{
	NIL:         "NIL",
	ADD:         "ADD",
	SUB:         "SUB",
	MUL:         "MUL",
	LS:          "LS",
	RS:          "RS",
	AND:         "AND",
	OR:          "OR",
	XOR:         "XOR",
	SELECT:      "SELECT",
	CMP:         "CMP",
	CNE:         "CNE",
	CLT:         "CLT",
	CLTE:        "CLTE",
	CGT:         "CGT",
	CGTE:        "CGTE",
	LOAD:        "LOAD",
	STORE:       "STORE",
	JUMP:        "JUMP",
	UNSUPPORTED: "UNSUPPORTED",
}

// String returns the opcode's canonical uppercase name.
func (o Opcode) String() string {
	if int(o) < 0 || int(o) >= len(names) {
		return fmt.Sprintf("Opcode(%d)", int(o))
	}
	return names[o]
}

// synonyms maps source IR operation strings (lowercase) to the internal
// opcode. Comparisons collapse signed/unsigned variants onto a single
// comparison unit, and the two right-shift variants collapse onto RS,
// because the CGRA exposes only one implementation of each.
var synonyms = map[string]Opcode{
	"nil":       NIL,
	"add":       ADD,
	"sub":       SUB,
	"mul":       MUL,
	"shl":       LS,
	"lshr":      RS,
	"ashr":      RS,
	"and":       AND,
	"or":        OR,
	"xor":       XOR,
	"select":    SELECT,
	"icmp_eq":   CMP,
	"cmp":       CMP,
	"icmp_ne":   CNE,
	"cne":       CNE,
	"icmp_slt":  CLT,
	"icmp_ult":  CLT,
	"clt":       CLT,
	"icmp_sle":  CLTE,
	"icmp_ule":  CLTE,
	"clte":      CLTE,
	"icmp_sgt":  CGT,
	"icmp_ugt":  CGT,
	"cgt":       CGT,
	"icmp_sge":  CGTE,
	"icmp_uge":  CGTE,
	"cgte":      CGTE,
	"load":      LOAD,
	"store":     STORE,
	"jump":      JUMP,
}

// Parse maps a source IR operation string to an Opcode. Unknown input
// returns UNSUPPORTED; callers are expected to treat that as fatal.
func Parse(op string) Opcode {
	if o, ok := synonyms[op]; ok {
		return o
	}
	return UNSUPPORTED
}
