package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cursor is the opaque pagination token (pre-encoding) used by preview_records.
// Short field names keep the encoded payload small. It is serialized to
// minified JSON and encoded with URL-safe base64.
//
// Fields:
//   - v:   cursor schema version
//   - dsv: dataset snapshot version the page was cut from
//   - off: row offset from the start of the (filtered) record sequence
//   - ps:  page size in rows
//   - wk:  optional week-filter key the page was cut under
//   - iat: issued-at timestamp (unix seconds)
type Cursor struct {
	V   int    `json:"v"`
	Dsv int64  `json:"dsv"`
	Off int    `json:"off"`
	Ps  int    `json:"ps"`
	Wk  string `json:"wk,omitempty"`
	Iat int64  `json:"iat"`
}

// Encode serializes and encodes the cursor as URL-safe base64 without padding.
func Encode(c Cursor) (string, error) {
	if err := validate(&c); err != nil {
		return "", err
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode decodes a URL-safe base64 token and parses the JSON cursor.
func Decode(token string) (*Cursor, error) {
	t := strings.TrimSpace(token)
	if t == "" {
		return nil, errors.New("cursor: empty token")
	}
	data, err := base64.RawURLEncoding.DecodeString(t)
	if err != nil {
		return nil, fmt.Errorf("cursor: invalid base64: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("cursor: invalid json: %w", err)
	}
	if err := validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// validate performs structural checks and defaulting.
func validate(c *Cursor) error {
	if c.V <= 0 {
		c.V = 1
	}
	if c.Iat == 0 {
		c.Iat = time.Now().Unix()
	}
	if c.Dsv <= 0 {
		return errors.New("cursor: dsv (dataset version) required")
	}
	if c.Off < 0 {
		return errors.New("cursor: off must be >= 0")
	}
	if c.Ps <= 0 {
		return errors.New("cursor: ps must be > 0")
	}
	return nil
}

// NextOffset computes the next offset after returning n rows.
func NextOffset(curr, n int) int {
	if curr < 0 {
		curr = 0
	}
	if n <= 0 {
		return curr
	}
	return curr + n
}
