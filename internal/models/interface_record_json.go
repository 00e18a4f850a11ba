package models

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON accepts exactly SelectorLength byte values. encoding/json
// would otherwise zero-pad short arrays and drop extra elements.
func (s *Selector) UnmarshalJSON(data []byte) error {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("selector: %w", err)
	}
	if len(values) != SelectorLength {
		return fmt.Errorf("selector has %d elements, want %d", len(values), SelectorLength)
	}
	for i, v := range values {
		if v < 0 || v > 0xff {
			return fmt.Errorf("selector element %d out of byte range: %d", i, v)
		}
		s[i] = byte(v)
	}
	return nil
}
