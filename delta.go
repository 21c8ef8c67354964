package lazydiff

import (
	"encoding/json"
	"fmt"
)

// Operation defines the operation of a Change segment
type Operation string

const (
	// DTContext indicates unchanged text present in both old and new strings
	DTContext = Operation(" ")
	// DTDelete is text present in the old string that is absent in the new
	DTDelete = Operation("-")
	// DTInsert is the compliment of deleting, text present only in the new
	// string
	DTInsert = Operation("+")
)

// Change is one segment of a character-level string difference. Applying
// every DTContext & DTDelete segment in order yields the old string, every
// DTContext & DTInsert segment yields the new one
type Change struct {
	// the type of change
	Type Operation `json:"type"`
	// the text this segment covers
	Text string `json:"text"`
}

// MarshalJSON implements a custom compact JSON Marshaller, encoding a change
// as a two element [type, text] array
func (c Change) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{string(c.Type), c.Text})
}

// UnmarshalJSON implements the json.Unmarshaler interface, reading the
// compact encoding produced by MarshalJSON
func (c *Change) UnmarshalJSON(data []byte) error {
	var v []string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) != 2 {
		return fmt.Errorf("change must be a [type, text] pair, got %d elements", len(v))
	}

	switch op := Operation(v[0]); op {
	case DTContext, DTDelete, DTInsert:
		c.Type = op
	default:
		return fmt.Errorf("unrecognized change type: %q", v[0])
	}
	c.Text = v[1]
	return nil
}
