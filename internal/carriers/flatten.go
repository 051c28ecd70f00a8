package carriers

import (
	"encoding/xml"
	"io"
	"strings"
)

// Flatten reduces an XML document to a map of slash-joined leaf paths to
// their text content, e.g. "TrackResponse/Response/ResponseStatusCode" →
// "1". Repeated leaves keep the last value; callers needing repetition use
// the typed parsers. Returns false when the payload is not well-formed XML.
func Flatten(doc string) (map[string]string, bool) {
	dec := xml.NewDecoder(strings.NewReader(doc))
	params := make(map[string]string)
	var path []string
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return params, len(path) == 0 && len(params) > 0
		}
		if err != nil {
			return nil, false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			path = append(path, t.Name.Local)
			text.Reset()
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if s := strings.TrimSpace(text.String()); s != "" {
				params[strings.Join(path, "/")] = s
			}
			path = path[:len(path)-1]
			text.Reset()
		}
	}
}
