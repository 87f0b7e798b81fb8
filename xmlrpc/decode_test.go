package xmlrpc

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func responseDoc(inner string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<methodResponse><params><param>` + inner + `</param></params></methodResponse>`)
}

// TestUnmarshal_Scalars verifies decoding of every scalar wire type.
func TestUnmarshal_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  any
	}{
		{"string", "<value><string>hello</string></value>", "hello"},
		{"untyped is string", "<value>plain</value>", "plain"},
		{"int", "<value><int>42</int></value>", 42},
		{"i4", "<value><i4>-7</i4></value>", -7},
		{"i8", "<value><i8>1700000000</i8></value>", 1700000000},
		{"boolean true", "<value><boolean>1</boolean></value>", true},
		{"boolean false", "<value><boolean>0</boolean></value>", false},
		{"double", "<value><double>1.5</double></value>", 1.5},
		{"nil", "<value><nil/></value>", nil},
		{"base64", "<value><base64>aGVsbG8=</base64></value>", []byte("hello")},
		{
			"base64 with line breaks",
			"<value><base64>aGVs\nbG8=</base64></value>",
			[]byte("hello"),
		},
		{
			"dateTime",
			"<value><dateTime.iso8601>20240102T10:20:30</dateTime.iso8601></value>",
			time.Date(2024, 1, 2, 10, 20, 30, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unmarshal(responseDoc(tt.value))
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

// TestUnmarshal_Struct verifies decoding an array of structs the way page
// listings arrive.
func TestUnmarshal_Struct(t *testing.T) {
	doc := responseDoc(`<value><array><data>` +
		`<value><struct>` +
		`<member><name>id</name><value><string>wiki:start</string></value></member>` +
		`<member><name>rev</name><value><int>1700000000</int></value></member>` +
		`<member><name>size</name><value><int>120</int></value></member>` +
		`</struct></value>` +
		`</data></array></value>`)

	got, err := Unmarshal(doc)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	items, ok := got.([]any)
	if !ok {
		t.Fatalf("got %T, want []any", got)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	entry, ok := items[0].(map[string]any)
	if !ok {
		t.Fatalf("item is %T, want map[string]any", items[0])
	}
	if entry["id"] != "wiki:start" {
		t.Errorf("id = %v, want wiki:start", entry["id"])
	}
	if entry["rev"] != 1700000000 {
		t.Errorf("rev = %v, want 1700000000", entry["rev"])
	}
	if entry["size"] != 120 {
		t.Errorf("size = %v, want 120", entry["size"])
	}
}

// TestUnmarshal_Fault verifies faults become *Fault errors with code and
// message preserved verbatim.
func TestUnmarshal_Fault(t *testing.T) {
	doc := []byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<methodResponse><fault><value><struct>` +
		`<member><name>faultCode</name><value><int>121</int></value></member>` +
		`<member><name>faultString</name><value><string>The requested page does not exist</string></value></member>` +
		`</struct></value></fault></methodResponse>`)

	result, err := Unmarshal(doc)
	if err == nil {
		t.Fatal("expected fault error")
	}
	if result != nil {
		t.Errorf("result = %v, want nil on fault", result)
	}

	fault, ok := AsFault(err)
	if !ok {
		t.Fatalf("error is %T, want *Fault", err)
	}
	if fault.Code != 121 {
		t.Errorf("Code = %d, want 121", fault.Code)
	}
	if fault.Message != "The requested page does not exist" {
		t.Errorf("Message = %q, want server string verbatim", fault.Message)
	}
}

// TestUnmarshal_LeadingBlankLine verifies tolerance for the blank line
// some older servers emit before the XML declaration.
func TestUnmarshal_LeadingBlankLine(t *testing.T) {
	doc := append([]byte("\n\n  "), responseDoc("<value><string>ok</string></value>")...)

	got, err := Unmarshal(doc)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %v, want ok", got)
	}
}

// TestUnmarshal_EmptyBody verifies an empty response decodes to nil; some
// mutations reply with an empty body on success.
func TestUnmarshal_EmptyBody(t *testing.T) {
	for _, body := range []string{"", "   ", "\n\r\n\t"} {
		got, err := Unmarshal([]byte(body))
		if err != nil {
			t.Errorf("Unmarshal(%q) failed: %v", body, err)
		}
		if got != nil {
			t.Errorf("Unmarshal(%q) = %v, want nil", body, got)
		}
	}
}

// TestUnmarshal_NoParams verifies a response without params decodes to nil.
func TestUnmarshal_NoParams(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?><methodResponse><params></params></methodResponse>`)

	got, err := Unmarshal(doc)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

// TestUnmarshal_Garbage verifies malformed XML is reported as a parse
// error, not a fault.
func TestUnmarshal_Garbage(t *testing.T) {
	_, err := Unmarshal([]byte("<html><body>gateway timeout</body>"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if IsFault(err) {
		t.Error("parse error should not be a fault")
	}
	if !strings.Contains(err.Error(), "parse response") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestParseDate verifies both timestamp forms the server emits.
func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			"compact form",
			"20240102T10:20:30",
			time.Date(2024, 1, 2, 10, 20, 30, 0, time.UTC),
		},
		{
			"dashed form with zone",
			"2024-01-02T10:20:30+0000",
			time.Date(2024, 1, 2, 10, 20, 30, 0, time.UTC),
		},
		{
			// The zone suffix is dropped, not applied; the wall clock is
			// taken as-is.
			"dashed form with non-utc zone",
			"2024-01-02T10:20:30+0200",
			time.Date(2024, 1, 2, 10, 20, 30, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if err != nil {
				t.Fatalf("ParseDate(%q) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestParseDate_Invalid verifies unparseable input is rejected.
func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "notadate", "2024-01-02"} {
		if _, err := ParseDate(input); err == nil {
			t.Errorf("ParseDate(%q) succeeded, want error", input)
		}
	}
}

// TestUnmarshal_FaultWithoutStruct verifies a malformed fault body still
// surfaces as a Fault rather than being swallowed.
func TestUnmarshal_FaultWithoutStruct(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?>` +
		`<methodResponse><fault><value><string>broken</string></value></fault></methodResponse>`)

	_, err := Unmarshal(doc)
	if err == nil {
		t.Fatal("expected fault error")
	}

	fault, ok := AsFault(err)
	if !ok {
		t.Fatalf("error is %T, want *Fault", err)
	}
	if fault.Message != "broken" {
		t.Errorf("Message = %q, want broken", fault.Message)
	}
}
