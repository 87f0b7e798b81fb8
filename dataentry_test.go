package dokuwiki

import (
	"errors"
	"reflect"
	"testing"
)

const personPage = `====== Carol ======

Some introduction text.

---- dataentry person ----
name      : Carol Danvers
email_mail: carol@example.com # work address
tags      : staff, pilot
name      : duplicate ignored
----

More text after the block.
`

// TestParseDataentry verifies block extraction, comment stripping and
// first-wins duplicate handling.
func TestParseDataentry(t *testing.T) {
	entry, err := ParseDataentry(personPage)
	if err != nil {
		t.Fatalf("ParseDataentry failed: %v", err)
	}

	want := map[string]string{
		"name":       "Carol Danvers",
		"email_mail": "carol@example.com",
		"tags":       "staff, pilot",
	}
	if !reflect.DeepEqual(entry, want) {
		t.Errorf("entry = %#v, want %#v", entry, want)
	}
}

// TestParseDataentryFields verifies source order and name extraction.
func TestParseDataentryFields(t *testing.T) {
	name, fields, err := ParseDataentryFields(personPage)
	if err != nil {
		t.Fatalf("ParseDataentryFields failed: %v", err)
	}

	if name != "person" {
		t.Errorf("name = %q, want person", name)
	}
	wantKeys := []string{"name", "email_mail", "tags", "name"}
	if len(fields) != len(wantKeys) {
		t.Fatalf("got %d fields, want %d", len(fields), len(wantKeys))
	}
	for i, key := range wantKeys {
		if fields[i].Key != key {
			t.Errorf("field %d key = %q, want %q", i, fields[i].Key, key)
		}
	}
	if fields[3].Value != "duplicate ignored" {
		t.Errorf("duplicate field value = %q, want kept in order", fields[3].Value)
	}
}

// TestParseDataentry_NoBlock verifies the sentinel for plain pages.
func TestParseDataentry_NoBlock(t *testing.T) {
	_, err := ParseDataentry("====== Plain ======\n\nNo data here.\n")
	if !errors.Is(err, ErrNoDataentry) {
		t.Errorf("error = %v, want ErrNoDataentry", err)
	}
}

// TestParseDataentry_UnnamedBlock verifies a block without a name parses.
func TestParseDataentry_UnnamedBlock(t *testing.T) {
	name, fields, err := ParseDataentryFields("---- dataentry ----\nkey:value\n----\n")
	if err != nil {
		t.Fatalf("ParseDataentryFields failed: %v", err)
	}
	if name != "" {
		t.Errorf("name = %q, want empty", name)
	}
	if len(fields) != 1 || fields[0].Key != "key" || fields[0].Value != "value" {
		t.Errorf("fields = %+v", fields)
	}
}

// TestFormatDataentry verifies the rendered block shape.
func TestFormatDataentry(t *testing.T) {
	got := FormatDataentry("person", []DataentryField{
		{Key: "name", Value: "Carol Danvers"},
		{Key: "tags", Value: "staff, pilot"},
	})

	want := "---- dataentry person ----\nname:Carol Danvers\ntags:staff, pilot\n----"
	if got != want {
		t.Errorf("FormatDataentry = %q, want %q", got, want)
	}
}

// TestFormatDataentry_Roundtrip verifies a rendered block parses back.
func TestFormatDataentry_Roundtrip(t *testing.T) {
	fields := []DataentryField{
		{Key: "type", Value: "server"},
		{Key: "os", Value: "debian"},
	}
	name, parsed, err := ParseDataentryFields(FormatDataentry("host", fields))
	if err != nil {
		t.Fatalf("parsing rendered block: %v", err)
	}
	if name != "host" {
		t.Errorf("name = %q, want host", name)
	}
	if !reflect.DeepEqual(parsed, fields) {
		t.Errorf("fields = %+v, want %+v", parsed, fields)
	}
}

// TestStripDataentry verifies the text around the block survives.
func TestStripDataentry(t *testing.T) {
	got := StripDataentry(personPage)

	want := `====== Carol ======

Some introduction text.


More text after the block.
`
	if got != want {
		t.Errorf("StripDataentry = %q, want %q", got, want)
	}
}

// TestStripDataentry_NoBlock verifies content without a block passes
// through.
func TestStripDataentry_NoBlock(t *testing.T) {
	content := "====== Plain ======\n\nNo data here.\n"
	if got := StripDataentry(content); got != content {
		t.Errorf("StripDataentry = %q, want unchanged content", got)
	}
}

// TestStripDataentry_NoTerminator verifies an unterminated block is left
// alone rather than eating the rest of the page.
func TestStripDataentry_NoTerminator(t *testing.T) {
	content := "intro\n---- dataentry person ----\nname:Carol\nno terminator here\n"
	if got := StripDataentry(content); got != content {
		t.Errorf("StripDataentry = %q, want unchanged content", got)
	}
}
