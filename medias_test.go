package dokuwiki

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/smnsjas/go-dokuwiki/xmlrpc"
)

// TestMedias_List verifies attachment listing and its argument shape.
func TestMedias_List(t *testing.T) {
	client, rpc := newTestClient(func(string, []any) (any, error) {
		return []any{
			map[string]any{"id": "wiki:logo.png", "size": 4096, "lastModified": 1700000000, "isimg": true, "writable": true, "perms": 8},
		}, nil
	})

	medias, err := client.Medias.List(context.Background(), "wiki")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(medias) != 1 {
		t.Fatalf("got %d medias, want 1", len(medias))
	}
	if medias[0].ID != "wiki:logo.png" || !medias[0].IsImage || medias[0].Perms != PermUpload {
		t.Errorf("unexpected media: %+v", medias[0])
	}
	if !medias[0].LastModified.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("LastModified = %v, want unix 1700000000", medias[0].LastModified)
	}

	call := rpc.lastCall(t)
	if call.method != "wiki.getAttachments" {
		t.Errorf("method = %q, want wiki.getAttachments", call.method)
	}
	if len(call.params) != 2 {
		t.Fatalf("params = %v, want namespace and options", call.params)
	}
	if !reflect.DeepEqual(call.params[1], map[string]any{}) {
		t.Errorf("options = %#v, want empty map", call.params[1])
	}
}

// TestMedias_Changes verifies the no-changes fault reads as empty.
func TestMedias_Changes(t *testing.T) {
	client, rpc := newTestClient(func(string, []any) (any, error) {
		return nil, &xmlrpc.Fault{Code: 321, Message: "There are no changes in the specified timeframe"}
	})

	changes, err := client.Medias.Changes(context.Background(), time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("Changes failed: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("changes = %v, want empty", changes)
	}
	if rpc.lastCall(t).method != "wiki.getRecentMediaChanges" {
		t.Errorf("method = %q, want wiki.getRecentMediaChanges", rpc.lastCall(t).method)
	}
}

// TestMedias_Get verifies binary payload handling for both server shapes.
func TestMedias_Get(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	tests := []struct {
		name   string
		result any
	}{
		{"binary", payload},
		{"base64 text", "iVBORw0K"},
		{"base64 text with line breaks", "iVBO\r\nRw0K"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, rpc := newTestClient(func(string, []any) (any, error) {
				return tt.result, nil
			})

			data, err := client.Medias.Get(context.Background(), "wiki:logo.png")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !bytes.Equal(data, payload) {
				t.Errorf("data = %v, want %v", data, payload)
			}
			if rpc.lastCall(t).method != "wiki.getAttachment" {
				t.Errorf("method = %q, want wiki.getAttachment", rpc.lastCall(t).method)
			}
		})
	}
}

// TestMedias_Get_BadPayload verifies a nonsense payload is rejected.
func TestMedias_Get_BadPayload(t *testing.T) {
	client, _ := newTestClient(func(string, []any) (any, error) {
		return 42, nil
	})

	if _, err := client.Medias.Get(context.Background(), "wiki:logo.png"); err == nil {
		t.Error("expected error for integer payload")
	}
}

// TestMedias_Download verifies the fetched file lands on disk under the
// media's basename.
func TestMedias_Download(t *testing.T) {
	content := []byte("media bytes")
	client, _ := newTestClient(func(string, []any) (any, error) {
		return content, nil
	})

	dir := t.TempDir()
	path, err := client.Medias.Download(context.Background(), "wiki:images:logo.png", dir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if path != filepath.Join(dir, "logo.png") {
		t.Errorf("path = %q, want %q", path, filepath.Join(dir, "logo.png"))
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("file content = %q, want %q", got, content)
	}
}

// TestMedias_Download_ExistingFile verifies an existing local file stops
// the call before any transfer happens.
func TestMedias_Download_ExistingFile(t *testing.T) {
	client, rpc := newTestClient(func(string, []any) (any, error) {
		return []byte("remote"), nil
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	if err := os.WriteFile(path, []byte("local"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := client.Medias.Download(context.Background(), "wiki:logo.png", dir)
	if !errors.Is(err, ErrFileExists) {
		t.Fatalf("error = %v, want ErrFileExists", err)
	}
	if rpc.callCount() != 0 {
		t.Errorf("made %d calls, want none before the local check", rpc.callCount())
	}

	got, _ := os.ReadFile(path)
	if string(got) != "local" {
		t.Errorf("file content = %q, want untouched local content", got)
	}
}

// TestMedias_Download_Overwrite verifies WithOverwrite replaces the file.
func TestMedias_Download_Overwrite(t *testing.T) {
	client, _ := newTestClient(func(string, []any) (any, error) {
		return []byte("remote"), nil
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	if err := os.WriteFile(path, []byte("local"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := client.Medias.Download(context.Background(), "wiki:logo.png", dir, WithOverwrite())
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	data, _ := os.ReadFile(got)
	if string(data) != "remote" {
		t.Errorf("file content = %q, want %q", data, "remote")
	}
}

// TestMedias_Download_Filename verifies WithFilename renames the target.
func TestMedias_Download_Filename(t *testing.T) {
	client, _ := newTestClient(func(string, []any) (any, error) {
		return []byte("x"), nil
	})

	dir := t.TempDir()
	path, err := client.Medias.Download(context.Background(), "wiki:logo.png", dir, WithFilename("site-logo.png"))
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if filepath.Base(path) != "site-logo.png" {
		t.Errorf("path = %q, want site-logo.png basename", path)
	}
}

// TestMedias_Download_CreatesDirectory verifies missing directories are
// created on the way.
func TestMedias_Download_CreatesDirectory(t *testing.T) {
	client, _ := newTestClient(func(string, []any) (any, error) {
		return []byte("x"), nil
	})

	dir := filepath.Join(t.TempDir(), "exports", "media")
	if _, err := client.Medias.Download(context.Background(), "wiki:logo.png", dir); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "logo.png")); err != nil {
		t.Errorf("downloaded file missing: %v", err)
	}
}

// TestMedias_Info verifies attachment metadata decoding.
func TestMedias_Info(t *testing.T) {
	modified := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	client, rpc := newTestClient(func(string, []any) (any, error) {
		return map[string]any{"size": 4096, "lastModified": modified}, nil
	})

	info, err := client.Medias.Info(context.Background(), "wiki:logo.png")
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.Size != 4096 || !info.LastModified.Equal(modified) {
		t.Errorf("unexpected info: %+v", info)
	}
	if rpc.lastCall(t).method != "wiki.getAttachmentInfo" {
		t.Errorf("method = %q, want wiki.getAttachmentInfo", rpc.lastCall(t).method)
	}
}

// TestMedias_Set verifies uploads carry the payload and overwrite flag.
func TestMedias_Set(t *testing.T) {
	client, rpc := newTestClient(nil)

	data := []byte{1, 2, 3}
	if err := client.Medias.Set(context.Background(), "wiki:logo.png", data, true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	call := rpc.lastCall(t)
	if call.method != "wiki.putAttachment" {
		t.Errorf("method = %q, want wiki.putAttachment", call.method)
	}
	if len(call.params) != 3 {
		t.Fatalf("params = %v, want media, data and options", call.params)
	}
	if !bytes.Equal(call.params[1].([]byte), data) {
		t.Errorf("payload = %v, want %v", call.params[1], data)
	}
	if !reflect.DeepEqual(call.params[2], map[string]any{"ow": true}) {
		t.Errorf("options = %#v, want {ow: true}", call.params[2])
	}
}

// TestMedias_Add verifies the local file is read and uploaded.
func TestMedias_Add(t *testing.T) {
	client, rpc := newTestClient(nil)

	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, []byte("image data"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := client.Medias.Add(context.Background(), "wiki:logo.png", path, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	call := rpc.lastCall(t)
	if call.method != "wiki.putAttachment" {
		t.Errorf("method = %q, want wiki.putAttachment", call.method)
	}
	if string(call.params[1].([]byte)) != "image data" {
		t.Errorf("payload = %q, want file content", call.params[1])
	}
	if !reflect.DeepEqual(call.params[2], map[string]any{"ow": false}) {
		t.Errorf("options = %#v, want {ow: false}", call.params[2])
	}
}

// TestMedias_Add_MissingFile verifies a missing source file fails without
// a call.
func TestMedias_Add_MissingFile(t *testing.T) {
	client, rpc := newTestClient(nil)

	err := client.Medias.Add(context.Background(), "wiki:logo.png", filepath.Join(t.TempDir(), "absent.png"), false)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if rpc.callCount() != 0 {
		t.Errorf("made %d calls, want none", rpc.callCount())
	}
}

// TestMedias_Delete verifies the delete command.
func TestMedias_Delete(t *testing.T) {
	client, rpc := newTestClient(nil)

	if err := client.Medias.Delete(context.Background(), "wiki:logo.png"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	call := rpc.lastCall(t)
	if call.method != "wiki.deleteAttachment" {
		t.Errorf("method = %q, want wiki.deleteAttachment", call.method)
	}
	if len(call.params) != 1 || call.params[0] != "wiki:logo.png" {
		t.Errorf("params = %v, want the media id", call.params)
	}
}

// TestMediaBasename verifies basename extraction for both separators.
func TestMediaBasename(t *testing.T) {
	tests := []struct {
		media string
		want  string
	}{
		{"wiki:images:logo.png", "logo.png"},
		{"wiki/images/logo.png", "logo.png"},
		{"wiki:images/logo.png", "logo.png"},
		{"logo.png", "logo.png"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := mediaBasename(tt.media); got != tt.want {
			t.Errorf("mediaBasename(%q) = %q, want %q", tt.media, got, tt.want)
		}
	}
}
