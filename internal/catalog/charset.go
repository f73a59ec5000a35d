package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// encodingFor resolves the encoding of a catalog charset. UTF-8 and the
// "CHARSET" placeholder of templates return nil.
func encodingFor(charset string) (encoding.Encoding, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8", "charset":
		return nil, nil
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return enc, nil
}
