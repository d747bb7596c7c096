// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cfgexpr

import (
	"errors"
	"fmt"
	"strings"
)

const Prefix = "cfg("

var ErrInvalidExpression = errors.New("invalid cfg expression")

// Predicate is a single leaf of a cfg expression, either a bare flag (e.g. `unix`)
// or a key/value pair (e.g. `target_os = "linux"`)
type Predicate struct {
	Key   string
	Value string
	// HasValue distinguishes `feature = ""` from the bare flag `feature`
	HasValue bool
}

func (p Predicate) String() string {
	if !p.HasValue {
		return p.Key
	}
	return fmt.Sprintf("%s = %q", p.Key, p.Value)
}

type Op int

const (
	OpPredicate Op = iota
	OpAll
	OpAny
	OpNot
)

type Node struct {
	Op        Op
	Predicate Predicate
	Children  []*Node
}

func (n *Node) eval(fn func(Predicate) bool) bool {
	switch n.Op {
	case OpAll:
		for _, c := range n.Children {
			if !c.eval(fn) {
				return false
			}
		}
		return true
	case OpAny:
		for _, c := range n.Children {
			if c.eval(fn) {
				return true
			}
		}
		return false
	case OpNot:
		return !n.Children[0].eval(fn)
	default:
		return fn(n.Predicate)
	}
}

func (n *Node) String() string {
	var name string
	switch n.Op {
	case OpAll:
		name = "all"
	case OpAny:
		name = "any"
	case OpNot:
		name = "not"
	default:
		return n.Predicate.String()
	}
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		parts = append(parts, c.String())
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// Expression is a parsed `cfg(...)` target specification
type Expression struct {
	Original string
	Root     *Node
}

// Eval evaluates the expression, delegating every leaf predicate to fn
func (e *Expression) Eval(fn func(Predicate) bool) bool {
	return e.Root.eval(fn)
}

func (e *Expression) String() string {
	return Prefix + e.Root.String() + ")"
}

// IsCfg reports whether the target spec is a cfg expression rather than a bare triple
func IsCfg(spec string) bool {
	return strings.HasPrefix(spec, Prefix)
}

// Parse parses a full `cfg(...)` expression
func Parse(s string) (*Expression, error) {
	p := &parser{lex: newLexer(s)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.tok.kind != tokIdent || p.tok.text != "cfg" {
		return nil, p.errorf("expected 'cfg'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(tokOpen); err != nil {
		return nil, err
	}

	root, err := p.parseNode()
	if err != nil {
		return nil, err
	}

	if err := p.expect(tokClose); err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected trailing %s", p.tok)
	}

	return &Expression{Original: s, Root: root}, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(kind tokenKind) error {
	if p.tok.kind != kind {
		return p.errorf("expected %s, got %s", kind, p.tok)
	}
	return p.advance()
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w %q at offset %d: %s", ErrInvalidExpression, p.lex.input, p.tok.pos, fmt.Sprintf(format, args...))
}

func (p *parser) parseNode() (*Node, error) {
	if p.tok.kind != tokIdent {
		return nil, p.errorf("expected identifier, got %s", p.tok)
	}
	ident := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}

	switch p.tok.kind {
	case tokOpen:
		return p.parseFunc(ident)
	case tokEquals:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokString {
			return nil, p.errorf("expected string value for %q, got %s", ident, p.tok)
		}
		value := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Node{Op: OpPredicate, Predicate: Predicate{Key: ident, Value: value, HasValue: true}}, nil
	default:
		return &Node{Op: OpPredicate, Predicate: Predicate{Key: ident}}, nil
	}
}

func (p *parser) parseFunc(name string) (*Node, error) {
	var op Op
	switch name {
	case "all":
		op = OpAll
	case "any":
		op = OpAny
	case "not":
		op = OpNot
	default:
		return nil, p.errorf("unknown function %q", name)
	}

	// consume '('
	if err := p.advance(); err != nil {
		return nil, err
	}

	node := &Node{Op: op}
	for p.tok.kind != tokClose {
		child, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)

		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.kind != tokClose {
			return nil, p.errorf("expected ',' or ')', got %s", p.tok)
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if op == OpNot && len(node.Children) != 1 {
		return nil, p.errorf("not() takes exactly one argument, got %d", len(node.Children))
	}
	return node, nil
}
