package parser

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// Node types of the tree-sitter JavaScript grammar.
const (
	nodeComment        = "comment"
	nodeString         = "string"
	nodeBinary         = "binary_expression"
	nodeParenthesized  = "parenthesized_expression"
	nodeIdentifier     = "identifier"
	nodeMember         = "member_expression"
	nodeCall           = "call_expression"
	nodeArguments      = "arguments"
	nodeSpread         = "spread_element"
	nodeError          = "ERROR"
	nodeJSXElement     = "jsx_element"
	nodeJSXFragment    = "jsx_fragment"
	nodeJSXSelfClosing = "jsx_self_closing_element"
	nodeJSXOpening     = "jsx_opening_element"
	nodeJSXClosing     = "jsx_closing_element"
	nodeJSXAttribute   = "jsx_attribute"
	nodeJSXExpression  = "jsx_expression"
	nodeJSXText        = "jsx_text"
)

// IsString reports whether n is a string literal or a "+" concatenation of
// string literals. Parentheses are transparent.
func IsString(n *sitter.Node) bool {
	n = unwrapParens(n)
	if n == nil {
		return false
	}

	switch n.Type() {
	case nodeString:
		return true
	case nodeBinary:
		op := n.ChildByFieldName("operator")
		return op != nil && op.Type() == "+" &&
			IsString(n.ChildByFieldName("left")) &&
			IsString(n.ChildByFieldName("right"))
	}
	return false
}

// ExtractString returns the value of a node accepted by IsString.
func ExtractString(n *sitter.Node, src []byte) string {
	n = unwrapParens(n)
	if n == nil {
		return ""
	}

	switch n.Type() {
	case nodeString:
		raw := n.Content(src)
		if len(raw) < 2 {
			return ""
		}
		return unescape(raw[1 : len(raw)-1])
	case nodeBinary:
		return ExtractString(n.ChildByFieldName("left"), src) + ExtractString(n.ChildByFieldName("right"), src)
	}
	return ""
}

func unwrapParens(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == nodeParenthesized {
		inner := namedChildren(n)
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}

// namedChildren returns the named children of n, skipping comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == nodeComment {
			continue
		}
		children = append(children, c)
	}
	return children
}

// unescape decodes the escape sequences of a JavaScript string body.
func unescape(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); {
		if raw[i] != '\\' || i+1 == len(raw) {
			b.WriteByte(raw[i])
			i++
			continue
		}
		i++ // backslash

		switch c := raw[i]; c {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'v':
			b.WriteByte('\v')
			i++
		case '\r':
			// line continuation
			i++
			if i < len(raw) && raw[i] == '\n' {
				i++
			}
		case '\n':
			i++
		case 'x':
			if v, ok := parseHex(raw, i+1, 2); ok {
				b.WriteRune(rune(v))
				i += 3
			} else {
				b.WriteByte('x')
				i++
			}
		case 'u':
			r, n := unicodeEscape(raw, i)
			b.WriteRune(r)
			i += n
		default:
			if c >= '0' && c <= '7' {
				v, n := octalEscape(raw, i)
				b.WriteRune(rune(v))
				i += n
				continue
			}
			r, size := utf8.DecodeRuneInString(raw[i:])
			if r != '\u2028' && r != '\u2029' {
				b.WriteRune(r)
			}
			i += size
		}
	}
	return b.String()
}

// unicodeEscape decodes \uXXXX, \u{X...} and surrogate pairs starting at
// raw[i] == 'u'. It returns the rune and the number of bytes consumed.
func unicodeEscape(raw string, i int) (rune, int) {
	if i+1 < len(raw) && raw[i+1] == '{' {
		end := strings.IndexByte(raw[i+2:], '}')
		if end > 0 {
			if v, ok := parseHex(raw, i+2, end); ok && v <= utf8.MaxRune {
				return rune(v), end + 3
			}
		}
		return 'u', 1
	}

	v, ok := parseHex(raw, i+1, 4)
	if !ok {
		return 'u', 1
	}
	r := rune(v)
	if utf16.IsSurrogate(r) && i+10 < len(raw) && raw[i+5] == '\\' && raw[i+6] == 'u' {
		if lo, ok := parseHex(raw, i+7, 4); ok {
			if pair := utf16.DecodeRune(r, rune(lo)); pair != utf8.RuneError {
				return pair, 11
			}
		}
	}
	return r, 5
}

func octalEscape(raw string, i int) (int, int) {
	v := int(raw[i] - '0')
	n := 1
	for n < 3 && i+n < len(raw) && raw[i+n] >= '0' && raw[i+n] <= '7' {
		next := v*8 + int(raw[i+n]-'0')
		if next > 0377 {
			break
		}
		v = next
		n++
	}
	return v, n
}

func parseHex(raw string, start, length int) (int, bool) {
	if length <= 0 || start+length > len(raw) {
		return 0, false
	}
	v := 0
	for _, c := range []byte(raw[start : start+length]) {
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int(c-'A') + 10
		default:
			return 0, false
		}
		v = v*16 + d
		if v > utf8.MaxRune {
			return 0, false
		}
	}
	return v, true
}
