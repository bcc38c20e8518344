package validation

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Param is a scalar request value. Clients send ids and prices both as JSON
// strings and as numbers, so both decode to the same text.
type Param string

func (p *Param) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Param(s)
		return nil
	}
	*p = Param(data)
	return nil
}

func (p Param) String() string {
	return string(p)
}

func (p Param) Empty() bool {
	return p == ""
}

func (p Param) Int64() (int64, error) {
	return strconv.ParseInt(string(p), 10, 64)
}

type field struct {
	name  string
	value Param
}

func missingFields(fields ...field) []string {
	var missing []string
	for _, f := range fields {
		if f.value.Empty() {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func requireFields(fields ...field) error {
	if missing := missingFields(fields...); len(missing) > 0 {
		return MissingParams(missing)
	}
	return nil
}
