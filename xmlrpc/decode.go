package xmlrpc

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// methodResponse mirrors the wire shape of an XML-RPC response document.
type methodResponse struct {
	XMLName xml.Name   `xml:"methodResponse"`
	Params  []xmlValue `xml:"params>param>value"`
	Fault   *xmlValue  `xml:"fault>value"`
}

type xmlValue struct {
	Raw      string     `xml:",chardata"`
	String   *string    `xml:"string"`
	Int      *string    `xml:"int"`
	I4       *string    `xml:"i4"`
	I8       *string    `xml:"i8"`
	Boolean  *string    `xml:"boolean"`
	Double   *string    `xml:"double"`
	DateTime *string    `xml:"dateTime.iso8601"`
	Base64   *string    `xml:"base64"`
	Struct   *xmlStruct `xml:"struct"`
	Array    *xmlArray  `xml:"array"`
	Nil      *xmlEmpty  `xml:"nil"`
}

type xmlStruct struct {
	Members []xmlMember `xml:"member"`
}

type xmlMember struct {
	Name  string   `xml:"name"`
	Value xmlValue `xml:"value"`
}

type xmlArray struct {
	Values []xmlValue `xml:"data>value"`
}

type xmlEmpty struct{}

// Unmarshal parses a methodResponse document and returns the decoded
// result. A declared fault is returned as a *Fault error.
//
// Two server quirks are tolerated: a blank line before the XML declaration
// (emitted by older releases) is trimmed, and a body that is empty after
// trimming decodes to a nil result (some mutations reply with an empty
// body on success).
func Unmarshal(data []byte) (any, error) {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return nil, nil
	}

	var resp methodResponse
	if err := xml.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("xmlrpc: parse response: %w", err)
	}

	if resp.Fault != nil {
		return nil, decodeFault(resp.Fault)
	}
	if len(resp.Params) == 0 {
		return nil, nil
	}
	return decodeValue(&resp.Params[0])
}

// decodeFault converts a fault value into a *Fault error.
func decodeFault(v *xmlValue) error {
	decoded, err := decodeValue(v)
	if err != nil {
		return fmt.Errorf("xmlrpc: parse fault: %w", err)
	}

	members, ok := decoded.(map[string]any)
	if !ok {
		return &Fault{Message: fmt.Sprint(decoded)}
	}

	fault := &Fault{}
	if code, ok := members["faultCode"].(int); ok {
		fault.Code = code
	}
	if msg, ok := members["faultString"].(string); ok {
		fault.Message = msg
	}
	return fault
}

// decodeValue converts a wire value into its Go representation: string,
// int, bool, float64, time.Time, []byte, []any, map[string]any, or nil.
func decodeValue(v *xmlValue) (any, error) {
	switch {
	case v.Nil != nil:
		return nil, nil
	case v.String != nil:
		return *v.String, nil
	case v.Int != nil:
		return parseInt(*v.Int)
	case v.I4 != nil:
		return parseInt(*v.I4)
	case v.I8 != nil:
		return parseInt(*v.I8)
	case v.Boolean != nil:
		return parseBool(*v.Boolean)
	case v.Double != nil:
		f, err := strconv.ParseFloat(strings.TrimSpace(*v.Double), 64)
		if err != nil {
			return nil, fmt.Errorf("xmlrpc: parse double %q: %w", *v.Double, err)
		}
		return f, nil
	case v.DateTime != nil:
		return ParseDate(strings.TrimSpace(*v.DateTime))
	case v.Base64 != nil:
		return parseBase64(*v.Base64)
	case v.Struct != nil:
		members := make(map[string]any, len(v.Struct.Members))
		for i := range v.Struct.Members {
			m := &v.Struct.Members[i]
			decoded, err := decodeValue(&m.Value)
			if err != nil {
				return nil, err
			}
			members[strings.TrimSpace(m.Name)] = decoded
		}
		return members, nil
	case v.Array != nil:
		items := make([]any, 0, len(v.Array.Values))
		for i := range v.Array.Values {
			decoded, err := decodeValue(&v.Array.Values[i])
			if err != nil {
				return nil, err
			}
			items = append(items, decoded)
		}
		return items, nil
	default:
		// An untyped value is a string.
		return v.Raw, nil
	}
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("xmlrpc: parse int %q: %w", s, err)
	}
	return n, nil
}

func parseBool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	default:
		return false, fmt.Errorf("xmlrpc: parse boolean %q", s)
	}
}

// parseBase64 decodes base64 content, tolerating the line breaks some
// encoders insert.
func parseBase64(s string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)

	data, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: decode base64: %w", err)
	}
	return data, nil
}

// ParseDate parses the two timestamp forms the server emits: the compact
// 20060102T15:04:05 form and a 24-character 2006-01-02T15:04:05+0000 form
// whose zone suffix is dropped before parsing. The result is in UTC.
func ParseDate(s string) (time.Time, error) {
	layout := DateFormat
	value := s
	if len(s) == 24 {
		layout = "2006-01-02T15:04:05"
		value = s[:19]
	}

	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("xmlrpc: parse date %q: %w", s, err)
	}
	return t, nil
}
