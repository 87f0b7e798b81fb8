package dokuwiki

import (
	"context"
	"fmt"
	"time"

	"github.com/smnsjas/go-dokuwiki/xmlrpc"
)

// Pages groups the page commands of a wiki session. It is accessible from
// the Pages field of a Client.
type Pages struct {
	c *Client
}

// List returns the pages under namespace ("/" for the whole wiki). Valid
// options are WithDepth, WithHash and WithSkipACL.
func (p *Pages) List(ctx context.Context, namespace string, opts ...Option) ([]PageItem, error) {
	result, err := p.c.Send(ctx, "dokuwiki.getPagelist", namespace, options(opts))
	if err != nil {
		return nil, err
	}

	items := structList(result)
	pages := make([]PageItem, 0, len(items))
	for _, m := range items {
		pages = append(pages, pageItemFromMap(m))
	}
	return pages, nil
}

// Changes returns the pages changed since the given time. The server
// reports an empty timeframe as a fault; that comes back as an empty
// slice instead.
func (p *Pages) Changes(ctx context.Context, since time.Time) ([]PageChange, error) {
	result, err := p.c.Send(ctx, "wiki.getRecentChanges", since.Unix())
	if err != nil {
		if f, ok := xmlrpc.AsFault(err); ok && f.IsNoChanges() {
			return nil, nil
		}
		return nil, err
	}

	items := structList(result)
	changes := make([]PageChange, 0, len(items))
	for _, m := range items {
		changes = append(changes, pageChangeFromMap(m))
	}
	return changes, nil
}

// Search runs a full-text search and returns the matches ranked as the
// server provides them.
func (p *Pages) Search(ctx context.Context, query string) ([]SearchResult, error) {
	result, err := p.c.Send(ctx, "dokuwiki.search", query)
	if err != nil {
		return nil, err
	}

	items := structList(result)
	results := make([]SearchResult, 0, len(items))
	for _, m := range items {
		results = append(results, searchResultFromMap(m))
	}
	return results, nil
}

// Versions returns a page of the revision history of page; offset selects
// the pagination window.
func (p *Pages) Versions(ctx context.Context, page string, offset int) ([]PageVersion, error) {
	result, err := p.c.Send(ctx, "wiki.getPageVersions", page, offset)
	if err != nil {
		return nil, err
	}

	items := structList(result)
	versions := make([]PageVersion, 0, len(items))
	for _, m := range items {
		versions = append(versions, pageVersionFromMap(m))
	}
	return versions, nil
}

// Info returns metadata for page. Version 0 selects the current revision;
// any other value selects the revision with that timestamp.
func (p *Pages) Info(ctx context.Context, page string, version int) (*PageInfo, error) {
	var (
		result any
		err    error
	)
	if version != 0 {
		result, err = p.c.Send(ctx, "wiki.getPageInfoVersion", page, version)
	} else {
		result, err = p.c.Send(ctx, "wiki.getPageInfo", page)
	}
	if err != nil {
		return nil, err
	}

	m, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("dokuwiki: unexpected page info result %T", result)
	}
	info := pageInfoFromMap(m)
	return &info, nil
}

// Get returns the raw wikitext of page. Version 0 selects the current
// revision; any other value selects the revision with that timestamp.
func (p *Pages) Get(ctx context.Context, page string, version int) (string, error) {
	var (
		result any
		err    error
	)
	if version != 0 {
		result, err = p.c.Send(ctx, "wiki.getPageVersion", page, version)
	} else {
		result, err = p.c.Send(ctx, "wiki.getPage", page)
	}
	if err != nil {
		return "", err
	}

	s, ok := resultString(result)
	if !ok {
		return "", fmt.Errorf("dokuwiki: unexpected page content result %T", result)
	}
	return s, nil
}

// HTML returns the rendered HTML of page, with the same version selection
// as Get.
func (p *Pages) HTML(ctx context.Context, page string, version int) (string, error) {
	var (
		result any
		err    error
	)
	if version != 0 {
		result, err = p.c.Send(ctx, "wiki.getPageHTMLVersion", page, version)
	} else {
		result, err = p.c.Send(ctx, "wiki.getPageHTML", page)
	}
	if err != nil {
		return "", err
	}

	s, ok := resultString(result)
	if !ok {
		return "", fmt.Errorf("dokuwiki: unexpected page html result %T", result)
	}
	return s, nil
}

// Append appends content to page; the server handles the concatenation.
// Valid options are WithSummary and WithMinor.
func (p *Pages) Append(ctx context.Context, page, content string, opts ...Option) error {
	_, err := p.c.Send(ctx, "dokuwiki.appendPage", page, content, options(opts))
	return err
}

// Set replaces (or creates) the content of page. Valid options are
// WithSummary and WithMinor.
func (p *Pages) Set(ctx context.Context, page, content string, opts ...Option) error {
	_, err := p.c.Send(ctx, "wiki.putPage", page, content, options(opts))
	return err
}

// Delete removes page by writing empty content; deletion is a server-side
// convention, not a distinct command.
func (p *Pages) Delete(ctx context.Context, page string) error {
	return p.Set(ctx, page, "")
}

// Locks issues the two-list lock command and reports the outcome for each
// page. Lock and Unlock are sugar over it.
func (p *Pages) Locks(ctx context.Context, lock, unlock []string) (*LockResult, error) {
	result, err := p.c.Send(ctx, "dokuwiki.setLocks", map[string]any{
		"lock":   lock,
		"unlock": unlock,
	})
	if err != nil {
		return nil, err
	}

	m, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("dokuwiki: unexpected setLocks result %T", result)
	}
	lr := lockResultFromMap(m)
	return &lr, nil
}

// Lock locks page for the authenticated user.
func (p *Pages) Lock(ctx context.Context, page string) error {
	result, err := p.Locks(ctx, []string{page}, []string{})
	if err != nil {
		return err
	}
	if len(result.LockFail) > 0 {
		return ErrLockFailed
	}
	return nil
}

// Unlock releases the lock on page.
func (p *Pages) Unlock(ctx context.Context, page string) error {
	result, err := p.Locks(ctx, []string{}, []string{page})
	if err != nil {
		return err
	}
	if len(result.UnlockFail) > 0 {
		return ErrUnlockFailed
	}
	return nil
}

// Permission returns the authenticated user's permission level for page
// (see the Perm constants).
func (p *Pages) Permission(ctx context.Context, page string) (int, error) {
	result, err := p.c.Send(ctx, "wiki.aclCheck", page)
	if err != nil {
		return 0, err
	}

	n, ok := resultInt(result)
	if !ok {
		return 0, fmt.Errorf("dokuwiki: unexpected aclCheck result %T", result)
	}
	return n, nil
}

// Links returns all links contained in page.
func (p *Pages) Links(ctx context.Context, page string) ([]Link, error) {
	result, err := p.c.Send(ctx, "wiki.listLinks", page)
	if err != nil {
		return nil, err
	}

	items := structList(result)
	links := make([]Link, 0, len(items))
	for _, m := range items {
		links = append(links, linkFromMap(m))
	}
	return links, nil
}

// Backlinks returns the pages linking to page.
func (p *Pages) Backlinks(ctx context.Context, page string) ([]string, error) {
	result, err := p.c.Send(ctx, "wiki.getBackLinks", page)
	if err != nil {
		return nil, err
	}
	return stringList(result), nil
}
