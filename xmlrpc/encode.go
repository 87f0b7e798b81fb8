package xmlrpc

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// DateFormat is the compact ISO-8601 form the protocol uses on the wire.
const DateFormat = "20060102T15:04:05"

// Marshal builds a methodCall document for method with the given params.
//
// Supported parameter types: nil, string, bool, int/int32/int64, float64,
// time.Time, []byte (sent as base64), []string, []any, and map[string]any
// (sent as a struct with members sorted by name so output is
// deterministic; the server keys members by name).
func Marshal(method string, params ...any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<methodCall><methodName>")
	escapeTo(&buf, method)
	buf.WriteString("</methodName><params>")
	for _, p := range params {
		buf.WriteString("<param>")
		if err := writeValue(&buf, p); err != nil {
			return nil, err
		}
		buf.WriteString("</param>")
	}
	buf.WriteString("</params></methodCall>")
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	buf.WriteString("<value>")
	switch t := v.(type) {
	case nil:
		buf.WriteString("<nil/>")
	case string:
		buf.WriteString("<string>")
		escapeTo(buf, t)
		buf.WriteString("</string>")
	case bool:
		if t {
			buf.WriteString("<boolean>1</boolean>")
		} else {
			buf.WriteString("<boolean>0</boolean>")
		}
	case int:
		writeInt(buf, int64(t))
	case int32:
		writeInt(buf, int64(t))
	case int64:
		writeInt(buf, t)
	case float64:
		buf.WriteString("<double>")
		buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		buf.WriteString("</double>")
	case time.Time:
		buf.WriteString("<dateTime.iso8601>")
		buf.WriteString(t.Format(DateFormat))
		buf.WriteString("</dateTime.iso8601>")
	case []byte:
		buf.WriteString("<base64>")
		buf.WriteString(base64.StdEncoding.EncodeToString(t))
		buf.WriteString("</base64>")
	case []string:
		buf.WriteString("<array><data>")
		for _, e := range t {
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteString("</data></array>")
	case []any:
		buf.WriteString("<array><data>")
		for _, e := range t {
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteString("</data></array>")
	case map[string]any:
		names := make([]string, 0, len(t))
		for name := range t {
			names = append(names, name)
		}
		sort.Strings(names)
		buf.WriteString("<struct>")
		for _, name := range names {
			buf.WriteString("<member><name>")
			escapeTo(buf, name)
			buf.WriteString("</name>")
			if err := writeValue(buf, t[name]); err != nil {
				return err
			}
			buf.WriteString("</member>")
		}
		buf.WriteString("</struct>")
	default:
		return fmt.Errorf("xmlrpc: unsupported parameter type %T", v)
	}
	buf.WriteString("</value>")
	return nil
}

func writeInt(buf *bytes.Buffer, n int64) {
	buf.WriteString("<int>")
	buf.WriteString(strconv.FormatInt(n, 10))
	buf.WriteString("</int>")
}

// escapeTo XML-escapes s into buf. Writes to a bytes.Buffer cannot fail.
func escapeTo(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}
