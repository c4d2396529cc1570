package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies every record. Zero means "no reference".
//
// Older saved data stores references as strings ("6") because they came
// straight out of a select element, so both forms are accepted on decode.
type ID int64

func (id ID) MarshalJSON() ([]byte, error) {
	if id == 0 {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(id), 10), nil
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}
	var f json.Number
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	n, err := f.Int64()
	if err != nil {
		fl, ferr := f.Float64()
		if ferr != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		if fl != math.Trunc(fl) || fl < math.MinInt64 || fl >= math.MaxInt64 {
			return fmt.Errorf("decode id: %s is not an integer id", f)
		}
		n = int64(fl)
	}
	*id = ID(n)
	return nil
}

// ParseID parses a path or form value. An empty string yields zero.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID(n), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
