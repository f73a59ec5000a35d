package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCallee(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		ok       bool
		callee   string
		firstArg string
		argCount int
	}{
		{name: "identifier", src: `gettext("a")`, ok: true, callee: "gettext", firstArg: `"a"`, argCount: 1},
		{name: "member", src: `i18n.gettext("a", 1)`, ok: true, callee: "gettext", firstArg: `"a"`, argCount: 2},
		{name: "call", src: `gettext.call(this, "a")`, ok: true, callee: "gettext", firstArg: `"a"`, argCount: 1},
		{name: "member call", src: `i18n.ngettext.call(ctx, "a", "b", n)`, ok: true, callee: "ngettext", firstArg: `"a"`, argCount: 3},
		{name: "no arguments", src: `gettext()`, ok: true, callee: "gettext", argCount: 0},
		{name: "call without receiver", src: `gettext.call()`, ok: true, callee: "gettext", argCount: 0},
		{name: "computed callee", src: `fns[0]("a")`, ok: false},
		{name: "call on call result", src: `factory()("a")`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := firstOfType(parseTree(t, tt.src), nodeCall)
			require.NotNil(t, call)

			callee, ok := ResolveCallee(call, []byte(tt.src))
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.callee, callee.Name)
			require.Len(t, callee.Args, tt.argCount)
			if tt.argCount > 0 {
				assert.Equal(t, tt.firstArg, callee.Args[0].Content([]byte(tt.src)))
			}
		})
	}
}

func TestResolveCalleeRejectsOtherNodes(t *testing.T) {
	root := parseTree(t, `var x = "a";`)
	_, ok := ResolveCallee(root, []byte(`var x = "a";`))
	assert.False(t, ok)

	_, ok = ResolveCallee(nil, nil)
	assert.False(t, ok)
}
