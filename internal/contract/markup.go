package contract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const (
	documentHead = `<?xml version="1.0"?><data>`
	documentTail = `</data>`
)

var errTrailingContent = errors.New("unexpected content after document root")

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeText escapes s for use as element text in contract markup, so that
// decodeDocument reads back exactly s. Line breaks are kept as they are.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// decodeDocument wraps raw in a <data> root and decodes it into v.
// The decoder is strict: any mismatched tag, stray entity or content after the
// root is an error.
func decodeDocument(raw string, v any) error {
	dec := xml.NewDecoder(strings.NewReader(documentHead + raw + documentTail))
	dec.Strict = true
	if err := dec.Decode(v); err != nil {
		return err
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if cd, ok := tok.(xml.CharData); ok && len(bytes.TrimSpace(cd)) == 0 {
			continue
		}
		return errTrailingContent
	}
}
