package dfgtext

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/sarchlab/doda/diagnostics"
	"github.com/sarchlab/doda/dfg"
	"github.com/sarchlab/doda/opcode"
)

// ParseError reports a malformed textual dump, naming the line on
// which the scanner was positioned when it gave up.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dfgtext: line %d: %s", e.Line, e.Msg)
}

// Parse reads a textual dump produced by Dump and reconstructs a
// Mapper DFG. Unlike the original regex-based reader this is a
// token-stream parser built on text/scanner: it is tolerant of
// arbitrary whitespace and newlines inside an input block, and it
// recognizes opcode tokens case-insensitively.
//
// Each node's pe_idx and every input's pe_index are restored exactly
// as recorded in the dump, via dfg.WithOverwriteOnDuplicate-free
// direct construction in file order (which Dump always emits in
// ascending pe_index order, so the allocator reproduces the same
// indices it originally assigned).
func Parse(text string) (*dfg.MapperDFG, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(text))
	s.Mode = scanner.ScanIdents | scanner.ScanInts

	p := &tokenParser{s: &s}
	p.advance()

	d := dfg.New()
	sink := &diagnostics.Sink{}

	for p.tok != scanner.EOF {
		if err := p.parseNode(d, sink); err != nil {
			return nil, err
		}
	}

	reconstructOutputs(d)

	return d, nil
}

// reconstructOutputs rebuilds each node's consumer list from the
// source references its consumers declared, mirroring the original
// reader's third pass over get_inputs(). Dump does not print a
// node's outputs (only its inputs), so a round trip would otherwise
// lose them.
func reconstructOutputs(d *dfg.MapperDFG) {
	for _, n := range d.Nodes() {
		for _, in := range n.Inputs {
			if in.IsConst {
				continue
			}
			if producer, ok := d.GetNode(in.SourceID); ok {
				producer.AddOutput(n.ID)
			}
		}
	}
	for _, n := range d.Nodes() {
		for i := range n.Outputs {
			if consumer, ok := d.GetNode(n.Outputs[i].ConsumerID); ok {
				n.Outputs[i].ResolvedPE = consumer.PEIndex
			}
		}
	}
}

type tokenParser struct {
	s   *scanner.Scanner
	tok rune
	txt string
}

func (p *tokenParser) advance() {
	p.tok = p.s.Scan()
	p.txt = p.s.TokenText()
}

func (p *tokenParser) errf(format string, args ...any) error {
	return &ParseError{Line: p.s.Pos().Line, Msg: fmt.Sprintf(format, args...)}
}

func (p *tokenParser) expectIdent(want string) error {
	if p.tok != scanner.Ident || p.txt != want {
		return p.errf("expected %q, got %q", want, p.txt)
	}
	p.advance()
	return nil
}

func (p *tokenParser) expectRune(want rune) error {
	if p.tok != want {
		return p.errf("expected %q, got %q", string(want), p.txt)
	}
	p.advance()
	return nil
}

// ident consumes a single identifier token (a node/source id). Ids
// containing characters that are not identifier runes are not
// accepted.
func (p *tokenParser) ident() (string, error) {
	if p.tok != scanner.Ident {
		return "", p.errf("expected identifier, got %q", p.txt)
	}
	v := p.txt
	p.advance()
	return v, nil
}

// signedInt consumes an optional leading '-' followed by an integer
// literal, since text/scanner tokenizes the sign separately from
// the digits.
func (p *tokenParser) signedInt() (int64, error) {
	neg := false
	if p.tok == '-' {
		neg = true
		p.advance()
	}
	if p.tok != scanner.Int {
		return 0, p.errf("expected integer, got %q", p.txt)
	}
	var v int64
	if _, err := fmt.Sscanf(p.txt, "%d", &v); err != nil {
		return 0, p.errf("invalid integer %q: %v", p.txt, err)
	}
	p.advance()
	if neg {
		v = -v
	}
	return v, nil
}

func (p *tokenParser) parseNode(d *dfg.MapperDFG, sink *diagnostics.Sink) error {
	if err := p.expectIdent("Mapper_Node"); err != nil {
		return err
	}
	if err := p.expectRune('('); err != nil {
		return err
	}
	if err := p.expectIdent("id"); err != nil {
		return err
	}
	if err := p.expectRune(':'); err != nil {
		return err
	}
	id, err := p.ident()
	if err != nil {
		return err
	}
	if err := p.expectRune('('); err != nil {
		return err
	}
	if err := p.expectIdent("pe_idx"); err != nil {
		return err
	}
	if err := p.expectRune(':'); err != nil {
		return err
	}
	peIdx, err := p.signedInt()
	if err != nil {
		return err
	}
	if err := p.expectRune(')'); err != nil {
		return err
	}
	if err := p.expectRune(','); err != nil {
		return err
	}
	if err := p.expectIdent("op"); err != nil {
		return err
	}
	if err := p.expectRune(':'); err != nil {
		return err
	}
	opName, err := p.ident()
	if err != nil {
		return err
	}
	if err := p.expectRune(','); err != nil {
		return err
	}
	if err := p.expectIdent("initial_output_used"); err != nil {
		return err
	}
	if err := p.expectRune(':'); err != nil {
		return err
	}
	initUsed, err := p.signedInt()
	if err != nil {
		return err
	}
	if err := p.expectRune(','); err != nil {
		return err
	}
	if err := p.expectIdent("initial_output"); err != nil {
		return err
	}
	if err := p.expectRune(':'); err != nil {
		return err
	}
	initValue, err := p.signedInt()
	if err != nil {
		return err
	}
	if err := p.expectRune(','); err != nil {
		return err
	}
	if err := p.expectIdent("inputs"); err != nil {
		return err
	}
	if err := p.expectRune(':'); err != nil {
		return err
	}
	if err := p.expectRune('['); err != nil {
		return err
	}

	op := opcode.Parse(strings.ToLower(opName))
	if op == opcode.UNSUPPORTED {
		// Canonical names such as LS and RS have no lowercase synonym.
		for o := opcode.NIL; o < opcode.UNSUPPORTED; o++ {
			if strings.EqualFold(o.String(), opName) {
				op = o
				break
			}
		}
	}

	n, buildErr := d.AddNode(sink, id, op, initUsed != 0, int32(initValue))
	if buildErr != nil {
		return p.errf("node %q: %v", id, buildErr)
	}
	n.PEIndex = int(peIdx)

	for p.tok == scanner.Ident && p.txt == "type" {
		if err := p.parseInput(n); err != nil {
			return err
		}
	}

	if err := p.expectRune(']'); err != nil {
		return err
	}
	if err := p.expectRune(')'); err != nil {
		return err
	}

	return nil
}

func (p *tokenParser) parseInput(n *dfg.Node) error {
	if err := p.expectIdent("type"); err != nil {
		return err
	}
	if err := p.expectRune(':'); err != nil {
		return err
	}
	kind, err := p.ident()
	if err != nil {
		return err
	}
	if err := p.expectRune(','); err != nil {
		return err
	}
	if err := p.expectIdent("src_id"); err != nil {
		return err
	}
	if err := p.expectRune(':'); err != nil {
		return err
	}
	srcID, err := p.ident()
	if err != nil {
		return err
	}
	if err := p.expectRune('('); err != nil {
		return err
	}
	if err := p.expectIdent("pe_index"); err != nil {
		return err
	}
	if err := p.expectRune(':'); err != nil {
		return err
	}
	peIndex, err := p.signedInt()
	if err != nil {
		return err
	}
	if err := p.expectRune(')'); err != nil {
		return err
	}
	if err := p.expectRune(','); err != nil {
		return err
	}
	if err := p.expectIdent("const_value"); err != nil {
		return err
	}
	if err := p.expectRune(':'); err != nil {
		return err
	}
	constValue, err := p.signedInt()
	if err != nil {
		return err
	}

	k := dfg.InputKind(kind)
	if srcID == "const" {
		if err := n.AddConstInput(k, int32(constValue)); err != nil {
			return p.errf("node %q: %v", n.ID, err)
		}
	} else {
		if err := n.AddSourceInput(k, srcID); err != nil {
			return p.errf("node %q: %v", n.ID, err)
		}
		n.Inputs[len(n.Inputs)-1].ResolvedPE = int(peIndex)
	}

	return nil
}
