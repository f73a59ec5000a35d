package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// rule visits one node kind. Rules decide which children are walked next.
type rule func(w *walker, n *sitter.Node)

// baseRules cover plain JavaScript: every named child is walked, and call
// expressions are reported before their children.
var baseRules = map[string]rule{
	nodeCall:    visitCall,
	nodeComment: visitNothing,
}

// markupRules add the JSX edges: element children and attribute values.
var markupRules = map[string]rule{
	nodeJSXElement:     visitElement,
	nodeJSXFragment:    visitElement,
	nodeJSXSelfClosing: visitAttributes,
	nodeJSXOpening:     visitAttributes,
	nodeJSXClosing:     visitNothing,
	nodeJSXAttribute:   visitAttribute,
	nodeJSXExpression:  visitExpressionContainer,
	nodeJSXText:        visitNothing,
}

type walker struct {
	rules  map[string]rule
	onCall func(n *sitter.Node) error
	err    error
}

func newWalker(onCall func(n *sitter.Node) error) *walker {
	rules := make(map[string]rule, len(baseRules)+len(markupRules))
	for kind, r := range baseRules {
		rules[kind] = r
	}
	for kind, r := range markupRules {
		rules[kind] = r
	}
	return &walker{rules: rules, onCall: onCall}
}

// walk stops at the first error returned by onCall.
func (w *walker) walk(n *sitter.Node) {
	if n == nil || w.err != nil {
		return
	}
	if r, ok := w.rules[n.Type()]; ok {
		r(w, n)
		return
	}
	visitChildren(w, n)
}

func visitChildren(w *walker, n *sitter.Node) {
	for _, c := range namedChildren(n) {
		w.walk(c)
	}
}

func visitNothing(*walker, *sitter.Node) {}

func visitCall(w *walker, n *sitter.Node) {
	if err := w.onCall(n); err != nil {
		w.err = err
		return
	}
	visitChildren(w, n)
}

// visitElement walks the opening tag's attributes, then the children.
func visitElement(w *walker, n *sitter.Node) {
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case nodeJSXOpening:
			visitAttributes(w, c)
		case nodeJSXClosing:
		default:
			w.walk(c)
		}
	}
}

func visitAttributes(w *walker, n *sitter.Node) {
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case nodeJSXAttribute, nodeJSXExpression:
			w.walk(c)
		}
	}
}

// visitAttribute walks the value only when it is an expression container.
func visitAttribute(w *walker, n *sitter.Node) {
	children := namedChildren(n)
	if len(children) < 2 {
		return
	}
	if value := children[len(children)-1]; value.Type() == nodeJSXExpression {
		w.walk(value)
	}
}

// visitExpressionContainer walks the embedded expression; spread attributes
// walk their argument and empty containers nothing.
func visitExpressionContainer(w *walker, n *sitter.Node) {
	for _, c := range namedChildren(n) {
		if c.Type() == nodeSpread {
			visitChildren(w, c)
			continue
		}
		w.walk(c)
	}
}
