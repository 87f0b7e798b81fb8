package dokuwiki

import (
	"strconv"
	"time"
)

// PageItem is one entry of a namespace page listing.
type PageItem struct {
	// ID is the page identifier (colon-separated namespaces).
	ID string

	// Rev is the revision timestamp of the current version.
	Rev int

	// Mtime is the last modification time.
	Mtime time.Time

	// Size is the page size in bytes.
	Size int

	// Hash is the content hash, present when the listing was requested
	// with WithHash.
	Hash string
}

// PageChange is one entry of a recent-changes query.
type PageChange struct {
	Name         string
	Author       string
	LastModified time.Time
	Version      int
}

// SearchResult is one ranked match of a full-text search.
type SearchResult struct {
	ID      string
	Score   int
	Rev     int
	Mtime   time.Time
	Size    int
	Snippet string
	Title   string
}

// PageVersion is one entry of a page's revision history.
type PageVersion struct {
	User     string
	IP       string
	Type     string
	Summary  string
	Modified time.Time
	Version  int
}

// PageInfo is the metadata of a single page revision.
type PageInfo struct {
	Name         string
	LastModified time.Time
	Author       string
	Version      int
}

// Link is one link found in a page.
type Link struct {
	// Type is "local" or "extern".
	Type string

	// Page is the link target.
	Page string

	// Href is the resolved URL.
	Href string
}

// LockResult reports the outcome of a two-list lock command per page.
type LockResult struct {
	Locked     []string
	LockFail   []string
	Unlocked   []string
	UnlockFail []string
}

// MediaItem is one entry of a namespace media listing.
type MediaItem struct {
	ID           string
	Size         int
	LastModified time.Time
	IsImage      bool
	Writable     bool
	Perms        int
}

// MediaChange is one entry of a recent media changes query.
type MediaChange struct {
	Name         string
	Author       string
	LastModified time.Time
	Version      int
}

// MediaInfo is the metadata of a single attachment.
type MediaInfo struct {
	Size         int
	LastModified time.Time
}

// Decode helpers. Servers disagree on scalar typing across versions
// (ints arriving as strings and vice versa), so the getters tolerate the
// wobble and zero-value missing keys.

func asString(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

func asInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(v)
		return n
	case float64:
		return int(v)
	}
	return 0
}

func asBool(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case int:
		return v != 0
	}
	return false
}

func asTime(m map[string]any, key string) time.Time {
	switch v := m[key].(type) {
	case time.Time:
		return v
	case int:
		return time.Unix(int64(v), 0).UTC()
	}
	return time.Time{}
}

// resultString coerces a scalar result that some servers type as int.
func resultString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	}
	return "", false
}

// resultInt coerces a scalar result that some servers type as string.
func resultInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case string:
		n, err := strconv.Atoi(t)
		return n, err == nil
	}
	return 0, false
}

func resultBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case int:
		return t != 0, true
	}
	return false, false
}

// structList coerces a decoded array-of-structs result.
func structList(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// stringList coerces a decoded array-of-strings result.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func pageItemFromMap(m map[string]any) PageItem {
	return PageItem{
		ID:    asString(m, "id"),
		Rev:   asInt(m, "rev"),
		Mtime: asTime(m, "mtime"),
		Size:  asInt(m, "size"),
		Hash:  asString(m, "hash"),
	}
}

func pageChangeFromMap(m map[string]any) PageChange {
	return PageChange{
		Name:         asString(m, "name"),
		Author:       asString(m, "author"),
		LastModified: asTime(m, "lastModified"),
		Version:      asInt(m, "version"),
	}
}

func searchResultFromMap(m map[string]any) SearchResult {
	return SearchResult{
		ID:      asString(m, "id"),
		Score:   asInt(m, "score"),
		Rev:     asInt(m, "rev"),
		Mtime:   asTime(m, "mtime"),
		Size:    asInt(m, "size"),
		Snippet: asString(m, "snippet"),
		Title:   asString(m, "title"),
	}
}

func pageVersionFromMap(m map[string]any) PageVersion {
	return PageVersion{
		User:     asString(m, "user"),
		IP:       asString(m, "ip"),
		Type:     asString(m, "type"),
		Summary:  asString(m, "sum"),
		Modified: asTime(m, "modified"),
		Version:  asInt(m, "version"),
	}
}

func pageInfoFromMap(m map[string]any) PageInfo {
	return PageInfo{
		Name:         asString(m, "name"),
		LastModified: asTime(m, "lastModified"),
		Author:       asString(m, "author"),
		Version:      asInt(m, "version"),
	}
}

func linkFromMap(m map[string]any) Link {
	return Link{
		Type: asString(m, "type"),
		Page: asString(m, "page"),
		Href: asString(m, "href"),
	}
}

func lockResultFromMap(m map[string]any) LockResult {
	return LockResult{
		Locked:     stringList(m["locked"]),
		LockFail:   stringList(m["lockfail"]),
		Unlocked:   stringList(m["unlocked"]),
		UnlockFail: stringList(m["unlockfail"]),
	}
}

func mediaItemFromMap(m map[string]any) MediaItem {
	return MediaItem{
		ID:           asString(m, "id"),
		Size:         asInt(m, "size"),
		LastModified: asTime(m, "lastModified"),
		IsImage:      asBool(m, "isimg"),
		Writable:     asBool(m, "writable"),
		Perms:        asInt(m, "perms"),
	}
}

func mediaChangeFromMap(m map[string]any) MediaChange {
	return MediaChange{
		Name:         asString(m, "name"),
		Author:       asString(m, "author"),
		LastModified: asTime(m, "lastModified"),
		Version:      asInt(m, "version"),
	}
}

func mediaInfoFromMap(m map[string]any) MediaInfo {
	return MediaInfo{
		Size:         asInt(m, "size"),
		LastModified: asTime(m, "lastModified"),
	}
}
