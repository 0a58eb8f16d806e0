// Package parser turns source text into the ir.Program tree (spec §4.1).
//
// The grammar this follows is the same one original_source/src/ir.rs
// expresses with a PEG (`peg::parser!`): eight recognized characters,
// everything else skipped, consecutive +/-/>/< fused into a single
// run-length instruction, [ ... ] nested arbitrarily. This package
// expresses the same rules as a single left-to-right scan instead of a
// parser-combinator grammar — the pack's idiom for lexers this small is
// a hand-written scanner, not a PEG dependency (see DESIGN.md).
package parser

import (
	"github.com/nilcount/bf/internal/bferr"
	"github.com/nilcount/bf/internal/ir"
)

// Parse scans src and returns the fused IR tree, or a bferr.ParseError
// if brackets are unbalanced.
func Parse(src []byte) (ir.Program, error) {
	p := &parser{src: src}
	body, err := p.parseSequence(false)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) && p.src[p.pos] == ']' {
		return nil, bferr.ParseError{Message: "unmatched ']'", Offset: p.pos}
	}
	return ir.Program(body), nil
}

type parser struct {
	src []byte
	pos int
}

// parseSequence consumes instructions up to EOF or, when inLoop is
// true, up to (but not including) the closing ']'. Non-instruction
// bytes are skipped silently, matching spec.md's "whitespace/comment"
// rule.
func (p *parser) parseSequence(inLoop bool) ([]ir.Instruction, error) {
	var out []ir.Instruction
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '+':
			n := p.consumeRun('+')
			out = append(out, ir.AddValN(uint8(n)))
		case '-':
			n := p.consumeRun('-')
			out = append(out, ir.SubValN(uint8(n)))
		case '>':
			n := p.consumeRun('>')
			out = append(out, ir.PtrRightN(uint32(n)))
		case '<':
			n := p.consumeRun('<')
			out = append(out, ir.PtrLeftN(uint32(n)))
		case '.':
			p.pos++
			out = append(out, ir.PutOp())
		case ',':
			p.pos++
			out = append(out, ir.GetOp())
		case '[':
			start := p.pos
			p.pos++
			body, err := p.parseSequence(true)
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) || p.src[p.pos] != ']' {
				return nil, bferr.ParseError{Message: "unmatched '['", Offset: start}
			}
			p.pos++
			out = append(out, ir.LoopOp(body))
		case ']':
			if !inLoop {
				return nil, bferr.ParseError{Message: "unmatched ']'", Offset: p.pos}
			}
			return out, nil
		default:
			// whitespace, newlines, tabs, and any other byte is a
			// comment character and is skipped silently.
			p.pos++
		}
	}
	if inLoop {
		return nil, bferr.ParseError{Message: "unterminated '['", Offset: p.pos}
	}
	return out, nil
}

// consumeRun counts and advances over a maximal run of adjacent copies
// of the given byte and returns the full length; the caller truncates
// it to uint8 for +/- (matching original_source/src/ir.rs:
// `n.len() as u8`) and widens to uint32 for >/<.
func (p *parser) consumeRun(c byte) int {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
	}
	return p.pos - start
}
