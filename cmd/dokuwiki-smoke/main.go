// Command dokuwiki-smoke exercises a live wiki end to end: it writes,
// reads, locks and deletes throwaway pages and media under the smoke:
// namespace and reports a pass/fail line per operation.
//
// Configuration comes from the DOKUWIKI_* environment variables. The
// account needs edit, upload and delete permission on the smoke:
// namespace. Artifacts are removed afterwards unless --keep is given.
//
// Usage:
//
//	export DOKUWIKI_URL=https://wiki.example.com
//	export DOKUWIKI_USER=editor
//	export DOKUWIKI_PASSWORD=secret
//	dokuwiki-smoke --rounds 3
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/smnsjas/go-dokuwiki"
)

type step struct {
	name string
	err  error
	took time.Duration
}

func main() {
	keep := pflag.Bool("keep", false, "keep the smoke pages and media on the wiki")
	rounds := pflag.Int("rounds", 1, "number of sweep repetitions")
	timeout := pflag.Duration("timeout", 2*time.Minute, "timeout per round")
	pflag.Parse()

	cfg, err := dokuwiki.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !cfg.HasCredentials() {
		fmt.Fprintln(os.Stderr, "Error: DOKUWIKI_URL, DOKUWIKI_USER and DOKUWIKI_PASSWORD must be set")
		os.Exit(1)
	}

	fmt.Printf("Connecting to %s as %s...\n", cfg.URL, cfg.Username)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	client, err := dokuwiki.New(ctx, cfg)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Connected!")

	failed := 0
	start := time.Now()
	for round := 1; round <= *rounds; round++ {
		if *rounds > 1 {
			fmt.Printf("--- Round %d/%d ---\n", round, *rounds)
		}

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		steps := runSweep(ctx, client, *keep)
		cancel()

		for _, s := range steps {
			if s.err != nil {
				failed++
				fmt.Printf("%-16s FAIL  %v\n", s.name, s.err)
			} else {
				fmt.Printf("%-16s OK    %s\n", s.name, s.took.Round(time.Millisecond))
			}
		}
	}

	fmt.Println("---------------------------------------------------")
	if failed > 0 {
		fmt.Printf("%d operation(s) failed after %s.\n", failed, time.Since(start).Round(time.Millisecond))
		os.Exit(1)
	}
	fmt.Printf("All operations passed in %s.\n", time.Since(start).Round(time.Millisecond))
}

// runSweep runs one full operation sweep against throwaway artifacts.
// Steps keep going after a failure so one broken operation does not
// hide the state of the rest.
func runSweep(ctx context.Context, c *dokuwiki.Client, keep bool) []step {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	page := fmt.Sprintf("smoke:page_%s", id)
	media := fmt.Sprintf("smoke:media_%s.txt", id)
	content := fmt.Sprintf("====== Smoke %s ======\n\nWritten by dokuwiki-smoke.\n", id)
	payload := []byte("smoke payload " + id)

	var steps []step
	run := func(name string, fn func() error) {
		begin := time.Now()
		steps = append(steps, step{name: name, err: fn(), took: time.Since(begin)})
	}

	run("version", func() error {
		_, err := c.Version(ctx)
		return err
	})
	run("time", func() error {
		_, err := c.Time(ctx)
		return err
	})
	run("page put", func() error {
		return c.Pages.Set(ctx, page, content, dokuwiki.WithSummary("smoke sweep"))
	})
	run("page get", func() error {
		got, err := c.Pages.Get(ctx, page, 0)
		if err != nil {
			return err
		}
		if got != content {
			return fmt.Errorf("content mismatch: got %d bytes, wrote %d", len(got), len(content))
		}
		return nil
	})
	run("page info", func() error {
		info, err := c.Pages.Info(ctx, page, 0)
		if err != nil {
			return err
		}
		if info.Name != page {
			return fmt.Errorf("info names %q, want %q", info.Name, page)
		}
		return nil
	})
	run("page append", func() error {
		return c.Pages.Append(ctx, page, "\nAppended line.\n", dokuwiki.WithMinor())
	})
	run("page lock", func() error {
		return c.Pages.Lock(ctx, page)
	})
	run("page unlock", func() error {
		return c.Pages.Unlock(ctx, page)
	})
	run("page list", func() error {
		pages, err := c.Pages.List(ctx, "smoke")
		if err != nil {
			return err
		}
		for _, p := range pages {
			if p.ID == page {
				return nil
			}
		}
		return fmt.Errorf("%s missing from namespace listing", page)
	})
	run("changes", func() error {
		_, err := c.Pages.Changes(ctx, time.Now().Add(-time.Hour))
		return err
	})
	run("acl check", func() error {
		perm, err := c.Pages.Permission(ctx, page)
		if err != nil {
			return err
		}
		if perm < dokuwiki.PermEdit {
			return fmt.Errorf("permission %d below edit", perm)
		}
		return nil
	})
	run("media put", func() error {
		return c.Medias.Set(ctx, media, payload, true)
	})
	run("media get", func() error {
		got, err := c.Medias.Get(ctx, media)
		if err != nil {
			return err
		}
		if !bytes.Equal(got, payload) {
			return fmt.Errorf("payload mismatch: got %d bytes, wrote %d", len(got), len(payload))
		}
		return nil
	})
	run("media info", func() error {
		info, err := c.Medias.Info(ctx, media)
		if err != nil {
			return err
		}
		if info.Size != len(payload) {
			return fmt.Errorf("size %d, want %d", info.Size, len(payload))
		}
		return nil
	})

	if keep {
		fmt.Printf("Keeping %s and %s.\n", page, media)
		return steps
	}
	run("media delete", func() error {
		return c.Medias.Delete(ctx, media)
	})
	run("page delete", func() error {
		return c.Pages.Delete(ctx, page)
	})
	return steps
}
