package explode

import (
	"encoding/json"
	"strconv"
)

// MessageTypeProgress is the discriminant of a progress update.
const MessageTypeProgress = "progress"

type progressMessage struct {
	Type     string   `json:"type"`
	Progress *float64 `json:"progress"`
}

// ParseProgressMessage decodes {"type":"progress","progress":<number>}.
// It reports false for any other shape.
func ParseProgressMessage(data []byte) (float32, bool) {
	var msg progressMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return 0, false
	}
	if msg.Type != MessageTypeProgress || msg.Progress == nil {
		return 0, false
	}
	return float32(*msg.Progress), true
}

// EncodeProgressMessage builds a progress message for v.
func EncodeProgressMessage(v float32) []byte {
	if v != v {
		v = 0
	}
	buf := make([]byte, 0, 48)
	buf = append(buf, `{"type":"progress","progress":`...)
	buf = strconv.AppendFloat(buf, float64(v), 'g', -1, 32)
	buf = append(buf, '}')
	return buf
}

// MessageTypeSelect is the discriminant of an outbound selection change.
const MessageTypeSelect = "select"

// EncodeSelectMessage builds {"type":"select","layer":<id>} for l.
// A cleared selection (LayerNone) is sent as "none".
func EncodeSelectMessage(l Layer) []byte {
	buf := make([]byte, 0, 40)
	buf = append(buf, `{"type":"select","layer":`...)
	buf = strconv.AppendQuote(buf, l.String())
	buf = append(buf, '}')
	return buf
}
