package dokuwiki

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smnsjas/go-dokuwiki/metrics"
	"github.com/smnsjas/go-dokuwiki/xmlrpc"
)

// Medias groups the media (attachment) commands of a wiki session. It is
// accessible from the Medias field of a Client.
type Medias struct {
	c *Client
}

// DownloadOption configures a Download call.
type DownloadOption func(*downloadConfig)

type downloadConfig struct {
	filename  string
	overwrite bool
}

// WithFilename stores the downloaded media under name instead of the
// basename derived from its wiki id.
func WithFilename(name string) DownloadOption {
	return func(cfg *downloadConfig) {
		cfg.filename = name
	}
}

// WithOverwrite lets Download replace an existing local file.
func WithOverwrite() DownloadOption {
	return func(cfg *downloadConfig) {
		cfg.overwrite = true
	}
}

// Changes returns the media files changed since the given time. The
// server reports an empty timeframe as a fault; that comes back as an
// empty slice instead.
func (m *Medias) Changes(ctx context.Context, since time.Time) ([]MediaChange, error) {
	result, err := m.c.Send(ctx, "wiki.getRecentMediaChanges", since.Unix())
	if err != nil {
		if f, ok := xmlrpc.AsFault(err); ok && f.IsNoChanges() {
			return nil, nil
		}
		return nil, err
	}

	items := structList(result)
	changes := make([]MediaChange, 0, len(items))
	for _, item := range items {
		changes = append(changes, mediaChangeFromMap(item))
	}
	return changes, nil
}

// List returns the media files under namespace ("/" for the whole wiki).
// Valid options are WithDepth, WithHash, WithSkipACL and WithPattern.
func (m *Medias) List(ctx context.Context, namespace string, opts ...Option) ([]MediaItem, error) {
	result, err := m.c.Send(ctx, "wiki.getAttachments", namespace, options(opts))
	if err != nil {
		return nil, err
	}

	items := structList(result)
	medias := make([]MediaItem, 0, len(items))
	for _, item := range items {
		medias = append(medias, mediaItemFromMap(item))
	}
	return medias, nil
}

// Get returns the binary content of media. Nothing is written to disk;
// use Download for that.
func (m *Medias) Get(ctx context.Context, media string) ([]byte, error) {
	result, err := m.c.Send(ctx, "wiki.getAttachment", media)
	if err != nil {
		return nil, err
	}

	data, err := mediaBytes(result)
	if err != nil {
		return nil, err
	}
	metrics.RecordDownload(len(data))
	return data, nil
}

// Download fetches media and writes it under dir, creating the directory
// when needed. It returns the path of the written file. Unless
// WithOverwrite is given, an existing local file fails the call before
// anything is fetched, and the file is never touched.
func (m *Medias) Download(ctx context.Context, media, dir string, opts ...DownloadOption) (string, error) {
	var cfg downloadConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	filename := cfg.filename
	if filename == "" {
		filename = mediaBasename(media)
	}
	path := filepath.Join(dir, filename)

	// Check locally before going to the wiki so a doomed call does not
	// transfer the file at all.
	if !cfg.overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s", ErrFileExists, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("dokuwiki: stat %s: %w", path, err)
		}
	}

	data, err := m.Get(ctx, media)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("dokuwiki: create %s: %w", dir, err)
	}
	if err := writeFile(path, data, cfg.overwrite); err != nil {
		return "", err
	}
	return path, nil
}

// Info returns metadata for media.
func (m *Medias) Info(ctx context.Context, media string) (*MediaInfo, error) {
	result, err := m.c.Send(ctx, "wiki.getAttachmentInfo", media)
	if err != nil {
		return nil, err
	}

	mm, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("dokuwiki: unexpected attachment info result %T", result)
	}
	info := mediaInfoFromMap(mm)
	return &info, nil
}

// Set uploads data as media. With overwrite false the server rejects the
// call when the media already exists.
func (m *Medias) Set(ctx context.Context, media string, data []byte, overwrite bool) error {
	_, err := m.c.Send(ctx, "wiki.putAttachment", media, data, map[string]any{
		"ow": overwrite,
	})
	if err != nil {
		return err
	}
	metrics.RecordUpload(len(data))
	return nil
}

// Add uploads the local file at path as media.
func (m *Medias) Add(ctx context.Context, media, path string, overwrite bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("dokuwiki: read %s: %w", path, err)
	}
	return m.Set(ctx, media, data, overwrite)
}

// Delete removes media from the wiki. The server refuses when the media
// is still referenced by a page.
func (m *Medias) Delete(ctx context.Context, media string) error {
	_, err := m.c.Send(ctx, "wiki.deleteAttachment", media)
	return err
}

// mediaBytes normalizes an attachment payload. Current servers send a
// typed base64 value; some older ones send the base64 text as a plain
// string.
func mediaBytes(result any) ([]byte, error) {
	switch v := result.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(v), ""))
		if err != nil {
			return nil, fmt.Errorf("dokuwiki: attachment payload is neither binary nor base64 text: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("dokuwiki: unexpected attachment result %T", result)
	}
}

// mediaBasename returns the last segment of a media id, accepting both
// colon and slash separators.
func mediaBasename(media string) string {
	s := strings.ReplaceAll(media, "/", ":")
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// writeFile writes data to path. Without overwrite it insists on creating
// the file, so a file that appeared since the existence check still fails
// instead of being clobbered.
func writeFile(path string, data []byte, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		}
		return fmt.Errorf("dokuwiki: create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("dokuwiki: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("dokuwiki: write %s: %w", path, err)
	}
	return nil
}
