package sdk

import (
	"encoding/base64"
	"encoding/json"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Bytes is binary payload that serializes as a JSON string when it is valid
// UTF-8 and as {"base64": "..."} otherwise.
type Bytes []byte

type base64Data struct {
	Base64 string `json:"base64"`
}

// MarshalJSON implements json.Marshaler.
func (b Bytes) MarshalJSON() ([]byte, error) {
	if utf8.Valid(b) {
		return json.Marshal(string(b))
	}
	return json.Marshal(base64Data{Base64: base64.StdEncoding.EncodeToString(b)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = Bytes(s)
		return nil
	}

	var encoded base64Data
	if err := json.Unmarshal(data, &encoded); err != nil {
		return errors.Wrap(err, "bytes must be a string or a base64 object")
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded.Base64)
	if err != nil {
		return errors.Wrap(err, "invalid base64 payload")
	}
	*b = decoded
	return nil
}

// String returns the payload as text.
func (b Bytes) String() string {
	return string(b)
}
