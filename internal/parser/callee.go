package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Callee is the resolved target of a call site.
type Callee struct {
	// Name is the invoked function or method name.
	Name string
	// Args are the effective arguments, without the receiver of fn.call(ctx, ...).
	Args []*sitter.Node
}

// ResolveCallee names the function invoked by a call expression:
//
//	gettext("a")           -> gettext, ["a"]
//	i18n.gettext("a")      -> gettext, ["a"]
//	gettext.call(ctx, "a") -> gettext, ["a"]
//	i18n.t.call(ctx, "a")  -> t, ["a"]
//
// ok is false for anything that is not a plain call with an argument list.
func ResolveCallee(n *sitter.Node, src []byte) (callee Callee, ok bool) {
	if n == nil || n.Type() != nodeCall {
		return Callee{}, false
	}
	argList := n.ChildByFieldName("arguments")
	if argList == nil || argList.Type() != nodeArguments {
		return Callee{}, false
	}
	args := namedChildren(argList)

	fn := unwrapParens(n.ChildByFieldName("function"))
	if fn == nil {
		return Callee{}, false
	}

	switch fn.Type() {
	case nodeIdentifier:
		return Callee{Name: fn.Content(src), Args: args}, true
	case nodeMember:
		name := propertyName(fn, src)
		if name == "" {
			return Callee{}, false
		}
		if name != "call" {
			return Callee{Name: name, Args: args}, true
		}

		target := calleeName(unwrapParens(fn.ChildByFieldName("object")), src)
		if target == "" {
			return Callee{}, false
		}
		if len(args) > 0 {
			args = args[1:]
		}
		return Callee{Name: target, Args: args}, true
	}
	return Callee{}, false
}

func calleeName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case nodeIdentifier:
		return n.Content(src)
	case nodeMember:
		return propertyName(n, src)
	}
	return ""
}

func propertyName(member *sitter.Node, src []byte) string {
	prop := member.ChildByFieldName("property")
	if prop == nil {
		return ""
	}
	return prop.Content(src)
}
