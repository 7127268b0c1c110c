package model

import (
	"database/sql/driver"
	"encoding/json"
)

// StringList is a string slice persisted as a JSON array column.
type StringList []string

func (sl *StringList) Scan(value interface{}) error {
	if value == nil {
		*sl = StringList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		raw = []byte("[]")
	}
	if len(raw) == 0 {
		*sl = StringList{}
		return nil
	}
	return json.Unmarshal(raw, sl)
}

func (sl StringList) Value() (driver.Value, error) {
	if sl == nil {
		return "[]", nil
	}
	return json.Marshal(sl)
}

// RawJSON is an opaque JSON payload persisted verbatim, the storage
// envelope for the typed option structs (RequestOptions,
// FormTemplateOptions). Validation happens in the option types
// themselves.
type RawJSON []byte

func (j *RawJSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append(RawJSON{}, v...)
	case string:
		*j = RawJSON(v)
	}
	return nil
}

func (j RawJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

func (j RawJSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *RawJSON) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}
