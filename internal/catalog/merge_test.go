package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeComment(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     string
	}{
		{name: "dedupe preserves order", old: "a\nb", new: "b\nc", want: "a\nb\nc"},
		{name: "old only", old: "a", new: "", want: "a"},
		{name: "new only", old: "", new: "b", want: "b"},
		{name: "both empty", old: "", new: "", want: ""},
		{name: "drops blank lines", old: "a\n\nb", new: "\nc\n", want: "a\nb\nc"},
		{name: "identical", old: "x:1\nx:2", new: "x:1\nx:2", want: "x:1\nx:2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeComment(tt.old, tt.new))
		})
	}
}

func TestMergeComments(t *testing.T) {
	old := &Comments{Translator: "checked", Extracted: "L10n: a", Reference: "a.js:1", Flag: "fuzzy", PreviousContext: "menu"}
	incoming := &Comments{Translator: "ignored", Extracted: "L10n: b", Reference: "b.js:2", Flag: "javascript-format", Previous: "Hi"}

	got := MergeComments(old, incoming)
	assert.Equal(t, &Comments{
		Translator:      "checked",
		Extracted:       "L10n: a\nL10n: b",
		Reference:       "a.js:1\nb.js:2",
		Flag:            "fuzzy\njavascript-format",
		PreviousContext: "menu",
	}, got)

	assert.Equal(t, old, MergeComments(old, nil))
	assert.Equal(t, incoming, MergeComments(nil, incoming))
	assert.Nil(t, MergeComments(nil, nil))
}

func TestMergeTranslationKeepsTranslation(t *testing.T) {
	old := &Entry{
		MsgID:    "Hello",
		MsgStr:   []string{"Bonjour"},
		Comments: &Comments{Reference: "a.js:1"},
	}
	incoming := &Entry{
		MsgID:    "Hello",
		MsgStr:   []string{""},
		Comments: &Comments{Reference: "b.js:4"},
	}

	got := MergeTranslation(old, incoming)
	assert.Equal(t, []string{"Bonjour"}, got.MsgStr)
	assert.Equal(t, "a.js:1\nb.js:4", got.Comments.Reference)

	// inputs are untouched
	assert.Equal(t, "a.js:1", old.Comments.Reference)
	assert.Equal(t, "b.js:4", incoming.Comments.Reference)
}

func TestMergeTranslationMsgStr(t *testing.T) {
	tests := []struct {
		name     string
		old, new []string
		want     []string
	}{
		{name: "new translation wins", old: []string{"a"}, new: []string{"b"}, want: []string{"b"}},
		{name: "old translation survives", old: []string{"a"}, new: []string{""}, want: []string{"a"}},
		{name: "plural slots from new", old: []string{""}, new: []string{"", ""}, want: []string{"", ""}},
		{name: "plural slots kept", old: []string{"", ""}, new: []string{""}, want: []string{"", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeTranslation(&Entry{MsgID: "x", MsgStr: tt.old}, &Entry{MsgID: "x", MsgStr: tt.new})
			assert.Equal(t, tt.want, got.MsgStr)
		})
	}
}

func TestMergeTranslationAddsPlural(t *testing.T) {
	old := &Entry{MsgID: "file", MsgStr: []string{""}}
	incoming := &Entry{MsgID: "file", MsgIDPlural: "files", MsgStr: []string{"", ""}}

	got := MergeTranslation(old, incoming)
	assert.Equal(t, "files", got.MsgIDPlural)
	assert.Equal(t, []string{"", ""}, got.MsgStr)
}

func TestMergeTranslations(t *testing.T) {
	old := Entries{
		"kept":   {MsgID: "kept", MsgStr: []string{"gardé"}, Comments: &Comments{Reference: "old.js:1"}},
		"shared": {MsgID: "shared", MsgStr: []string{"partagé"}, Comments: &Comments{Reference: "old.js:2"}},
	}
	incoming := Entries{
		"shared": {MsgID: "shared", MsgStr: []string{""}, Comments: &Comments{Reference: "new.js:5"}},
		"added":  {MsgID: "added", MsgStr: []string{""}, Comments: &Comments{Reference: "new.js:6"}},
	}

	got := MergeTranslations(old, incoming)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"gardé"}, got["kept"].MsgStr)
	assert.Equal(t, []string{"partagé"}, got["shared"].MsgStr)
	assert.Equal(t, "old.js:2\nnew.js:5", got["shared"].Comments.Reference)
	assert.Equal(t, "new.js:6", got["added"].Comments.Reference)

	// superset of old and not aliased to either input
	for id := range old {
		assert.Contains(t, got, id)
	}
	assert.Len(t, old, 2)
	assert.Equal(t, "old.js:2", old["shared"].Comments.Reference)
	got["added"].MsgStr[0] = "changed"
	assert.Equal(t, "", incoming["added"].MsgStr[0])
}

func TestMergeTranslationsNilOld(t *testing.T) {
	got := MergeTranslations(nil, Entries{"a": {MsgID: "a", MsgStr: []string{""}}})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got["a"].MsgID)
}
