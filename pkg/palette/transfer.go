package palette

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Drag payload media types.
const (
	MIMEJSON = "application/json"
	MIMEText = "text/plain"
)

// ErrMalformedPayload is returned when a drag payload cannot be decoded into
// a palette entry.
var ErrMalformedPayload = errors.New("palette: malformed drag payload")

// Transfer is a drag payload keyed by media type.
type Transfer map[string]string

// Encode serialises entry under the JSON key with a plain-text fallback.
func Encode(entry Entry) (Transfer, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("palette: encode entry %q: %w", entry.ID, err)
	}
	return Transfer{MIMEJSON: string(data), MIMEText: string(data)}, nil
}

// Decode reads the entry from the JSON key, falling back to the plain-text
// key when the JSON key is absent or empty.
func Decode(t Transfer) (Entry, error) {
	raw := strings.TrimSpace(t[MIMEJSON])
	if raw == "" {
		raw = strings.TrimSpace(t[MIMEText])
	}
	if raw == "" {
		return Entry{}, fmt.Errorf("%w: empty", ErrMalformedPayload)
	}
	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if entry.ID == "" && entry.Name == "" {
		return Entry{}, fmt.Errorf("%w: missing id and name", ErrMalformedPayload)
	}
	return entry, nil
}
