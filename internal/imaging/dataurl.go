package imaging

import (
	"encoding/base64"
	"errors"
	"strings"
)

// The data URL is the only image interchange format that crosses the client,
// server and provider boundaries: data:<media-type>;base64,<payload>.

var errNotDataURL = errors.New("not a base64 data URL")

// ParseDataURL splits a data URL into its media type and decoded payload.
func ParseDataURL(s string) (mime string, data []byte, err error) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, errNotDataURL
	}
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return "", nil, errNotDataURL
	}
	meta := s[len("data:"):comma]
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, errNotDataURL
	}
	mime = strings.TrimSuffix(meta, ";base64")
	if mime == "" {
		mime = "application/octet-stream"
	}
	data, err = base64.StdEncoding.DecodeString(s[comma+1:])
	if err != nil {
		return "", nil, err
	}
	return mime, data, nil
}

// FormatDataURL encodes a binary blob into the canonical data URL form.
func FormatDataURL(mime string, data []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mime)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}
