package model

import (
	"reflect"
	"testing"
)

func TestStringListScanValue(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  StringList
	}{
		{"nil", nil, StringList{}},
		{"bytes", []byte(`["a","b"]`), StringList{"a", "b"}},
		{"string", `["x"]`, StringList{"x"}},
		{"empty bytes", []byte(``), StringList{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var sl StringList
			if err := sl.Scan(c.input); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if !reflect.DeepEqual(sl, c.want) {
				t.Errorf("Scan() = %v, want %v", sl, c.want)
			}
		})
	}
}

func TestStringListValueRoundTrip(t *testing.T) {
	want := StringList{"https://a.example", "https://b.example"}
	v, err := want.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	var got StringList
	if err := got.Scan(v); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}

func TestRawJSONScanValue(t *testing.T) {
	var j RawJSON
	if err := j.Scan([]byte(`{"a":1}`)); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	v, err := j.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if string(v.([]byte)) != `{"a":1}` {
		t.Errorf("Value() = %s, want %s", v, `{"a":1}`)
	}
}
