package catalog

import "strings"

// MergeComment joins two newline-separated comment blocks, old lines first,
// dropping empty and repeated lines.
func MergeComment(old, new string) string {
	if old == "" {
		return new
	}
	if new == "" {
		return old
	}

	seen := make(map[string]struct{})
	var lines []string
	for _, line := range append(strings.Split(old, "\n"), strings.Split(new, "\n")...) {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// MergeComments combines references, extracted comments and flags of both
// records. Translator comments and the previous msgid belong to the existing
// catalog and are kept from old.
func MergeComments(old, new *Comments) *Comments {
	if old == nil || new == nil {
		if old != nil {
			c := *old
			return &c
		}
		if new != nil {
			c := *new
			return &c
		}
		return nil
	}

	translator := old.Translator
	if translator == "" {
		translator = new.Translator
	}
	previous := old
	if !old.hasPrevious() {
		previous = new
	}
	return &Comments{
		Translator:      translator,
		Extracted:       MergeComment(old.Extracted, new.Extracted),
		Reference:       MergeComment(old.Reference, new.Reference),
		Flag:            MergeComment(old.Flag, new.Flag),
		Previous:        previous.Previous,
		PreviousContext: previous.PreviousContext,
		PreviousPlural:  previous.PreviousPlural,
	}
}

func (c *Comments) hasPrevious() bool {
	return c.Previous != "" || c.PreviousContext != "" || c.PreviousPlural != ""
}

// MergeTranslation overlays new on old. Existing translations survive unless
// new carries a translation of its own.
func MergeTranslation(old, new *Entry) *Entry {
	if old == nil {
		return new.Clone()
	}
	if new == nil {
		return old.Clone()
	}

	merged := old.Clone()
	if new.MsgID != "" {
		merged.MsgID = new.MsgID
	}
	if new.MsgIDPlural != "" {
		merged.MsgIDPlural = new.MsgIDPlural
	}
	merged.MsgStr = mergeMsgStr(old.MsgStr, new.MsgStr)
	merged.Comments = MergeComments(old.Comments, new.Comments)
	return merged
}

func mergeMsgStr(old, new []string) []string {
	switch {
	case translated(new):
		return append([]string(nil), new...)
	case translated(old):
		return append([]string(nil), old...)
	case len(new) >= len(old):
		return append([]string(nil), new...)
	default:
		return append([]string(nil), old...)
	}
}

func translated(msgstr []string) bool {
	for _, s := range msgstr {
		if s != "" {
			return true
		}
	}
	return false
}

// MergeTranslations folds incoming into a copy of old. Entries only present
// in old are kept; neither argument is modified.
func MergeTranslations(old, incoming Entries) Entries {
	result := old.Clone()
	if result == nil {
		result = make(Entries, len(incoming))
	}

	for id, e := range incoming {
		if existing, ok := result[id]; ok {
			result[id] = MergeTranslation(existing, e)
			continue
		}
		result[id] = e.Clone()
	}
	return result
}
