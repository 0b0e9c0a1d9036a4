package codec

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/nerrad567/homekit-mqtt/internal/catalog"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		format catalog.Format
		in     any
		want   any
	}{
		// Boolean decoding is byte-truthiness with "true" as the literal case.
		{"bool literal true", catalog.FormatBool, "true", true},
		{"bool arbitrary content", catalog.FormatBool, "ON", true},
		{"bool false text is still truthy", catalog.FormatBool, "false", true},
		{"bool zero text is still truthy", catalog.FormatBool, "0", true},
		{"bool empty", catalog.FormatBool, "", false},
		{"bool bytes", catalog.FormatBool, []byte("1"), true},
		{"bool native false", catalog.FormatBool, false, false},
		{"bool number", catalog.FormatBool, 0.0, false},
		{"bool nil", catalog.FormatBool, nil, false},

		{"float text", catalog.FormatFloat, "3.14", 3.14},
		{"float padded", catalog.FormatFloat, " 21.5\n", 21.5},
		{"float from int", catalog.FormatFloat, 7, 7.0},

		{"int text", catalog.FormatInt, "42", int64(42)},
		{"uint8 text", catalog.FormatUInt8, "1", int64(1)},
		{"int truncates float", catalog.FormatInt, 99.9, int64(99)},

		{"string passthrough", catalog.FormatString, "hello", "hello"},
		{"data passthrough", catalog.FormatData, []byte("raw"), "raw"},
		{"tlv8 opaque", catalog.FormatTLV8, "AQEA", "AQEA"},

		{"array", catalog.FormatArray, "[1,1,2,3]", []any{1.0, 1.0, 2.0, 3.0}},
		{"dictionary", catalog.FormatDictionary, `{"x":1,"y":2}`, map[string]any{"x": 1.0, "y": 2.0}},
		{"array native", catalog.FormatArray, []any{"a"}, []any{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.format, tt.in)
			if err != nil {
				t.Fatalf("Decode(%s, %#v) error = %v", tt.format, tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode(%s, %#v) = %#v, want %#v", tt.format, tt.in, got, tt.want)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		format  catalog.Format
		in      any
		wantErr error
	}{
		{"float garbage", catalog.FormatFloat, "warm", ErrConversion},
		{"int decimal text", catalog.FormatInt, "4.2", ErrConversion},
		{"array invalid json", catalog.FormatArray, "[1,", ErrConversion},
		{"array got object", catalog.FormatArray, `{"x":1}`, ErrConversion},
		{"dictionary got number", catalog.FormatDictionary, 3, ErrConversion},
		{"unknown format", catalog.Format("quaternion"), "1", ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.format, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		format catalog.Format
		in     any
		want   any
	}{
		{"bool stays native", catalog.FormatBool, true, true},
		{"bool from number", catalog.FormatBool, int64(0), false},
		{"float", catalog.FormatFloat, 21.5, "21.5"},
		{"float whole", catalog.FormatFloat, 30.0, "30"},
		{"int", catalog.FormatInt, int64(42), "42"},
		{"uint8 from float", catalog.FormatUInt8, 3.0, "3"},
		{"string from float", catalog.FormatString, 0.5, "0.5"},
		{"string", catalog.FormatString, "Lamp", "Lamp"},
		{"tlv8 opaque", catalog.FormatTLV8, "AQEA", "AQEA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.format, tt.in)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode(%s, %#v) = %#v, want %#v", tt.format, tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode_ArrayIsValidJSON(t *testing.T) {
	got, err := Encode(catalog.FormatArray, []any{1, 1, 2, 3})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	s, ok := got.(string)
	if !ok {
		t.Fatalf("Encode() returned %T, want string", got)
	}
	var back []int
	if err := json.Unmarshal([]byte(s), &back); err != nil {
		t.Fatalf("Encode() produced invalid JSON %q: %v", s, err)
	}
	if !reflect.DeepEqual(back, []int{1, 1, 2, 3}) {
		t.Errorf("round trip = %v", back)
	}
}

func TestEncode_Errors(t *testing.T) {
	if _, err := Encode(catalog.FormatInt, "many"); !errors.Is(err, ErrConversion) {
		t.Errorf("Encode(int, many) error = %v, want ErrConversion", err)
	}
	if _, err := Encode(catalog.FormatDictionary, map[string]any{"f": func() {}}); !errors.Is(err, ErrConversion) {
		t.Errorf("Encode(dictionary, func) error = %v, want ErrConversion", err)
	}
	if _, err := Encode(catalog.Format("quaternion"), 1); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Encode(unknown) error = %v, want ErrUnknownFormat", err)
	}
}

// Values produced by Decode and rendered by Text come back unchanged.
func TestDecodeTextRoundTrip(t *testing.T) {
	tests := []struct {
		format catalog.Format
		wire   string
	}{
		{catalog.FormatFloat, "3.14"},
		{catalog.FormatInt, "42"},
		{catalog.FormatString, "hello"},
		{catalog.FormatArray, "[1,1,2,3]"},
		{catalog.FormatDictionary, `{"x":1,"y":2}`},
		{catalog.FormatBool, "true"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			v, err := Decode(tt.format, tt.wire)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			enc, err := Encode(tt.format, v)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if got := Text(enc); got != tt.wire {
				t.Errorf("round trip %q -> %q", tt.wire, got)
			}
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{true, "true"},
		{false, "false"},
		{0.5, "0.5"},
		{float32(2.5), "2.5"},
		{int64(-3), "-3"},
		{"ON", "ON"},
		{[]byte("OFF"), "OFF"},
		{[]any{1.0, "a"}, `[1,"a"]`},
	}

	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
