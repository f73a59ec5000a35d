// Package catalog holds the in-memory translation catalog, the rules for
// merging catalogs, and the adapter to the PO file format.
package catalog

import (
	"errors"
	"fmt"
)

// DefaultContext is the msgctxt bucket used for messages without a context.
const DefaultContext = ""

// HeaderCreationDate is the header refreshed when an existing catalog changes.
const HeaderCreationDate = "pot-creation-date"

var (
	// ErrNoCatalog reports that no usable catalog file exists at a path.
	ErrNoCatalog = errors.New("no existing catalog")
	// ErrCorrupt reports a catalog that was read but is structurally invalid.
	ErrCorrupt = errors.New("catalog is corrupt")
)

// Comments are the comment lines attached to an entry. The comment fields hold
// newline-separated lines.
type Comments struct {
	Translator string `json:"translator,omitempty"`
	Extracted  string `json:"extracted,omitempty"`
	Reference  string `json:"reference,omitempty"`
	Flag       string `json:"flag,omitempty"`
	// Previous, PreviousContext and PreviousPlural are the "#|" source
	// values a fuzzy translation was made for.
	Previous        string `json:"previous,omitempty"`
	PreviousContext string `json:"previous_context,omitempty"`
	PreviousPlural  string `json:"previous_plural,omitempty"`
}

// Entry is one translatable message.
type Entry struct {
	MsgID       string    `json:"msgid"`
	MsgIDPlural string    `json:"msgid_plural,omitempty"`
	MsgStr      []string  `json:"msgstr"`
	Comments    *Comments `json:"comments,omitempty"`
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	if e.MsgStr != nil {
		c.MsgStr = append([]string(nil), e.MsgStr...)
	}
	if e.Comments != nil {
		comments := *e.Comments
		c.Comments = &comments
	}
	return &c
}

// Entries maps msgid to entry within a single context.
type Entries map[string]*Entry

// Clone returns a deep copy of the mapping.
func (es Entries) Clone() Entries {
	if es == nil {
		return nil
	}
	c := make(Entries, len(es))
	for id, e := range es {
		c[id] = e.Clone()
	}
	return c
}

// Catalog is a full translation resource.
type Catalog struct {
	Charset string
	// Headers are keyed by lower-case header name.
	Headers map[string]string
	// HeaderComment is the translator comment block above the header entry.
	HeaderComment string
	// HeaderFlags are the "#," flags of the header entry, one per line.
	HeaderFlags string
	// Translations maps msgctxt to the entries of that context.
	Translations map[string]Entries
	// Obsolete holds "#~" entries by context. They are written back untouched.
	Obsolete map[string]Entries
}

// New returns an empty catalog with the given headers.
func New(charset string, headers map[string]string) *Catalog {
	return &Catalog{
		Charset:      charset,
		Headers:      headers,
		Translations: map[string]Entries{DefaultContext: {}},
	}
}

// Validate checks that the catalog has a usable default context.
func (c *Catalog) Validate() error {
	if c.Translations == nil {
		return fmt.Errorf("%w: missing translations", ErrCorrupt)
	}
	if c.Translations[DefaultContext] == nil {
		return fmt.Errorf("%w: missing default context", ErrCorrupt)
	}
	for ctx, entries := range c.Translations {
		for id, e := range entries {
			if e == nil || e.MsgID != id {
				return fmt.Errorf("%w: entry %q in context %q does not match its key", ErrCorrupt, id, ctx)
			}
		}
	}
	return nil
}

// Default returns the entries of the default context.
func (c *Catalog) Default() Entries {
	return c.Translations[DefaultContext]
}

// SetDefault replaces the entries of the default context.
func (c *Catalog) SetDefault(entries Entries) {
	if c.Translations == nil {
		c.Translations = make(map[string]Entries)
	}
	c.Translations[DefaultContext] = entries
}
