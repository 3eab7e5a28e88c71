package connect

import (
	"github.com/goccy/go-json"
)

// CodecName is the name the JSON codec registers under. It replaces
// connect's default protobuf-JSON codec for the same content type.
const CodecName = "json"

// Codec marshals plain Go message structs as JSON.
type Codec struct{}

// Name returns the codec name.
func (Codec) Name() string { return CodecName }

// Marshal encodes a message.
func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal decodes a message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
