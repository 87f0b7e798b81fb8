// Command dokuctl is an operator CLI for the XML-RPC API of a DokuWiki
// instance.
//
// The wiki URL and credentials come from flags, a YAML config file or
// the DOKUWIKI_* environment variables. Password can be provided via:
//   - --password flag (least secure, visible in process list)
//   - DOKUWIKI_PASSWORD environment variable (recommended)
//   - stdin prompt (if neither flag nor env var is set)
//
// Usage:
//
//	dokuctl [flags] <command> [args]
//
// Commands:
//
//	info                       server version, title and time
//	get <page>                 print page wikitext
//	put <page> [file]          write page from file or stdin
//	append <page> [file]       append to page from file or stdin
//	delete <page>              delete page
//	list [namespace]           list pages
//	search <query>             full-text search
//	changes <window>           pages changed in the window (e.g. 48h)
//	lock <page>...             lock pages
//	unlock <page>...           unlock pages
//	acl-check <page>           effective permission for the account
//	media-list [namespace]     list media files
//	media-get <media> [dir]    download media
//	media-put <media> <file>   upload media
//	media-delete <media>       delete media
//	struct-get <page>          structured data recorded on page
//
// Examples:
//
//	export DOKUWIKI_URL=https://wiki.example.com
//	export DOKUWIKI_USER=editor
//	export DOKUWIKI_PASSWORD=secret
//	dokuctl info
//	dokuctl get wiki:start
//	dokuctl put wiki:start updated.txt --summary "refresh intro"
//	dokuctl --config staging.yaml search "installation"
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/smnsjas/go-dokuwiki"
	wikilog "github.com/smnsjas/go-dokuwiki/internal/log"
	"github.com/smnsjas/go-dokuwiki/tracing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dokuctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		url        string
		user       string
		password   string
		authType   string
		timeout    time.Duration
		insecure   bool
		configPath string
		logLevel   string
		logFile    string
		jsonLogs   bool
		summary    string
		minor      bool
		force      bool
	)

	flagSet := pflag.NewFlagSet("dokuctl", pflag.ContinueOnError)
	flagSet.StringVar(&url, "url", "", "wiki base URL (or DOKUWIKI_URL)")
	flagSet.StringVar(&user, "user", "", "username (or DOKUWIKI_USER)")
	flagSet.StringVar(&password, "password", "", "password (use DOKUWIKI_PASSWORD instead)")
	flagSet.StringVar(&authType, "auth", "", "auth type: basic, ntlm or cookie")
	flagSet.DurationVar(&timeout, "timeout", 0, "per-call timeout (e.g. 30s)")
	flagSet.BoolVar(&insecure, "insecure", false, "skip TLS certificate verification")
	flagSet.StringVar(&configPath, "config", "", "YAML config file")
	flagSet.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.StringVar(&logFile, "log-file", "", "write logs to this file (rotated) instead of stderr")
	flagSet.BoolVar(&jsonLogs, "json", false, "log in JSON instead of text")
	flagSet.StringVar(&summary, "summary", "", "edit summary for put and append")
	flagSet.BoolVar(&minor, "minor", false, "mark the edit as minor")
	flagSet.BoolVar(&force, "force", false, "overwrite existing files and media")

	flagSet.Usage = func() { usage(flagSet) }
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	args := flagSet.Args()
	if len(args) == 0 {
		usage(flagSet)
		return fmt.Errorf("command required")
	}

	// Environment first, then config file, then explicit flags.
	cfg, err := dokuwiki.LoadConfig()
	if err != nil {
		return err
	}
	if configPath != "" {
		if err := applyConfigFile(&cfg, configPath); err != nil {
			return err
		}
	}
	if flagSet.Changed("url") {
		cfg.URL = url
	}
	if flagSet.Changed("user") {
		cfg.Username = user
	}
	if flagSet.Changed("password") {
		cfg.Password = password
	}
	if flagSet.Changed("auth") {
		at, err := dokuwiki.ParseAuthType(authType)
		if err != nil {
			return err
		}
		cfg.AuthType = at
	}
	if flagSet.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flagSet.Changed("insecure") {
		cfg.InsecureSkipVerify = insecure
	}

	logger, closeLogs, err := newLogger(logLevel, logFile, jsonLogs)
	if err != nil {
		return err
	}
	if closeLogs != nil {
		defer closeLogs.Close()
	}
	cfg.Logger = logger

	if cfg.Password == "" {
		cfg.Password = promptPassword()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	shutdown, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer func() { _ = shutdown(ctx) }()

	client, err := dokuwiki.New(ctx, cfg)
	if err != nil {
		return err
	}

	command, args := args[0], args[1:]
	opts := editOptions(summary, minor)
	switch command {
	case "info":
		return cmdInfo(ctx, client)
	case "get":
		return cmdGet(ctx, client, args)
	case "put":
		return cmdPut(ctx, client, args, opts)
	case "append":
		return cmdAppend(ctx, client, args, opts)
	case "delete":
		return cmdDelete(ctx, client, args)
	case "list":
		return cmdList(ctx, client, args)
	case "search":
		return cmdSearch(ctx, client, args)
	case "changes":
		return cmdChanges(ctx, client, args)
	case "lock":
		return cmdLocks(ctx, client, args, nil)
	case "unlock":
		return cmdLocks(ctx, client, nil, args)
	case "acl-check":
		return cmdACLCheck(ctx, client, args)
	case "media-list":
		return cmdMediaList(ctx, client, args)
	case "media-get":
		return cmdMediaGet(ctx, client, args, force)
	case "media-put":
		return cmdMediaPut(ctx, client, args, force)
	case "media-delete":
		return cmdMediaDelete(ctx, client, args)
	case "struct-get":
		return cmdStructGet(ctx, client, args)
	default:
		return fmt.Errorf("unknown command %q (run dokuctl --help)", command)
	}
}

func usage(flagSet *pflag.FlagSet) {
	fmt.Fprintln(os.Stderr, "Usage: dokuctl [flags] <command> [args]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  info, get, put, append, delete, list, search, changes,")
	fmt.Fprintln(os.Stderr, "  lock, unlock, acl-check, media-list, media-get, media-put,")
	fmt.Fprintln(os.Stderr, "  media-delete, struct-get")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprint(os.Stderr, flagSet.FlagUsages())
}

// fileConfig is the YAML shape accepted by --config. Timeout is a
// duration string so "30s" works.
type fileConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Auth     string `yaml:"auth"`
	Timeout  string `yaml:"timeout"`
	Insecure bool   `yaml:"insecure"`
}

func applyConfigFile(cfg *dokuwiki.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.URL != "" {
		cfg.URL = fc.URL
	}
	if fc.Username != "" {
		cfg.Username = fc.Username
	}
	if fc.Password != "" {
		cfg.Password = fc.Password
	}
	if fc.Auth != "" {
		at, err := dokuwiki.ParseAuthType(fc.Auth)
		if err != nil {
			return err
		}
		cfg.AuthType = at
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("parse config %s: timeout: %w", path, err)
		}
		cfg.Timeout = d
	}
	if fc.Insecure {
		cfg.InsecureSkipVerify = true
	}
	return nil
}

func newLogger(level, file string, jsonLogs bool) (*slog.Logger, io.Closer, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "", "warn":
		lvl = slog.LevelWarn
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		return nil, nil, fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", level)
	}

	var w io.Writer = os.Stderr
	var closer io.Closer
	if file != "" {
		rf, err := wikilog.NewRotatingFile(file, 10<<20, 3)
		if err != nil {
			return nil, nil, err
		}
		w = rf
		closer = rf
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if jsonLogs {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(wikilog.NewRedactingHandler(handler)), closer, nil
}

// promptPassword reads a password without echo on a terminal, or a
// plain line when stdin is piped.
func promptPassword() string {
	fmt.Fprint(os.Stderr, "Password: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		passBytes, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return ""
		}
		return string(passBytes)
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func editOptions(summary string, minor bool) []dokuwiki.Option {
	var opts []dokuwiki.Option
	if summary != "" {
		opts = append(opts, dokuwiki.WithSummary(summary))
	}
	if minor {
		opts = append(opts, dokuwiki.WithMinor())
	}
	return opts
}

// readContent returns the content for put/append: the named file when
// given, stdin otherwise.
func readContent(args []string) (string, error) {
	if len(args) > 1 {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func cmdInfo(ctx context.Context, c *dokuwiki.Client) error {
	version, err := c.Version(ctx)
	if err != nil {
		return err
	}
	title, err := c.Title(ctx)
	if err != nil {
		return err
	}
	serverTime, err := c.Time(ctx)
	if err != nil {
		return err
	}
	apiVersion, err := c.XMLRPCVersion(ctx)
	if err != nil {
		return err
	}
	rpcVersion, err := c.RPCVersionSupported(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Title:       %s\n", title)
	fmt.Printf("Version:     %s\n", version)
	fmt.Printf("Time:        %s\n", dokuwiki.UTCToLocal(serverTime).Format(time.RFC3339))
	fmt.Printf("API version: %s\n", apiVersion)
	fmt.Printf("RPC version: %d\n", rpcVersion)
	return nil
}

func cmdGet(ctx context.Context, c *dokuwiki.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dokuctl get <page>")
	}
	content, err := c.Pages.Get(ctx, args[0], 0)
	if err != nil {
		return err
	}
	fmt.Print(content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Println()
	}
	return nil
}

func cmdPut(ctx context.Context, c *dokuwiki.Client, args []string, opts []dokuwiki.Option) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dokuctl put <page> [file]")
	}
	content, err := readContent(args)
	if err != nil {
		return err
	}
	if err := c.Pages.Set(ctx, args[0], content, opts...); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", args[0])
	return nil
}

func cmdAppend(ctx context.Context, c *dokuwiki.Client, args []string, opts []dokuwiki.Option) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dokuctl append <page> [file]")
	}
	content, err := readContent(args)
	if err != nil {
		return err
	}
	if err := c.Pages.Append(ctx, args[0], content, opts...); err != nil {
		return err
	}
	fmt.Printf("Appended to %s\n", args[0])
	return nil
}

func cmdDelete(ctx context.Context, c *dokuwiki.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dokuctl delete <page>")
	}
	if err := c.Pages.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func cmdList(ctx context.Context, c *dokuwiki.Client, args []string) error {
	namespace := ""
	if len(args) > 0 {
		namespace = args[0]
	}
	pages, err := c.Pages.List(ctx, namespace)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PAGE\tSIZE\tMODIFIED")
	for _, p := range pages {
		fmt.Fprintf(w, "%s\t%d\t%s\n", p.ID, p.Size, dokuwiki.UTCToLocal(p.Mtime).Format(time.RFC3339))
	}
	return w.Flush()
}

func cmdSearch(ctx context.Context, c *dokuwiki.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dokuctl search <query>")
	}
	results, err := c.Pages.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PAGE\tSCORE\tTITLE")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.ID, r.Score, r.Title)
	}
	return w.Flush()
}

func cmdChanges(ctx context.Context, c *dokuwiki.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dokuctl changes <window> (e.g. 48h)")
	}
	window, err := time.ParseDuration(args[0])
	if err != nil {
		return fmt.Errorf("invalid window %q: %w", args[0], err)
	}

	changes, err := c.Pages.Changes(ctx, time.Now().Add(-window))
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Println("No changes.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PAGE\tAUTHOR\tMODIFIED")
	for _, ch := range changes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ch.Name, ch.Author, dokuwiki.UTCToLocal(ch.LastModified).Format(time.RFC3339))
	}
	return w.Flush()
}

func cmdLocks(ctx context.Context, c *dokuwiki.Client, lock, unlock []string) error {
	if len(lock) == 0 && len(unlock) == 0 {
		return fmt.Errorf("usage: dokuctl lock|unlock <page>...")
	}
	result, err := c.Pages.Locks(ctx, lock, unlock)
	if err != nil {
		return err
	}

	for _, p := range result.Locked {
		fmt.Printf("Locked %s\n", p)
	}
	for _, p := range result.Unlocked {
		fmt.Printf("Unlocked %s\n", p)
	}
	for _, p := range result.LockFail {
		fmt.Fprintf(os.Stderr, "Failed to lock %s\n", p)
	}
	for _, p := range result.UnlockFail {
		fmt.Fprintf(os.Stderr, "Failed to unlock %s\n", p)
	}
	if len(result.LockFail) > 0 || len(result.UnlockFail) > 0 {
		return fmt.Errorf("%d page(s) failed", len(result.LockFail)+len(result.UnlockFail))
	}
	return nil
}

func cmdACLCheck(ctx context.Context, c *dokuwiki.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dokuctl acl-check <page>")
	}
	perm, err := c.Pages.Permission(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%d (%s)\n", perm, permName(perm))
	return nil
}

func permName(perm int) string {
	switch {
	case perm >= dokuwiki.PermDelete:
		return "delete"
	case perm >= dokuwiki.PermUpload:
		return "upload"
	case perm >= dokuwiki.PermCreate:
		return "create"
	case perm >= dokuwiki.PermEdit:
		return "edit"
	case perm >= dokuwiki.PermRead:
		return "read"
	default:
		return "none"
	}
}

func cmdMediaList(ctx context.Context, c *dokuwiki.Client, args []string) error {
	namespace := ""
	if len(args) > 0 {
		namespace = args[0]
	}
	medias, err := c.Medias.List(ctx, namespace)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MEDIA\tSIZE\tMODIFIED")
	for _, m := range medias {
		fmt.Fprintf(w, "%s\t%d\t%s\n", m.ID, m.Size, dokuwiki.UTCToLocal(m.LastModified).Format(time.RFC3339))
	}
	return w.Flush()
}

func cmdMediaGet(ctx context.Context, c *dokuwiki.Client, args []string, force bool) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dokuctl media-get <media> [dir]")
	}
	dir := "."
	if len(args) > 1 {
		dir = args[1]
	}

	var opts []dokuwiki.DownloadOption
	if force {
		opts = append(opts, dokuwiki.WithOverwrite())
	}
	path, err := c.Medias.Download(ctx, args[0], dir, opts...)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

func cmdMediaPut(ctx context.Context, c *dokuwiki.Client, args []string, force bool) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: dokuctl media-put <media> <file>")
	}
	if err := c.Medias.Add(ctx, args[0], args[1], force); err != nil {
		return err
	}
	fmt.Printf("Uploaded %s\n", args[0])
	return nil
}

func cmdMediaDelete(ctx context.Context, c *dokuwiki.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dokuctl media-delete <media>")
	}
	if err := c.Medias.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func cmdStructGet(ctx context.Context, c *dokuwiki.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dokuctl struct-get <page>")
	}
	data, err := c.Structs.GetData(ctx, args[0], "", 0)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		fmt.Println("No structured data.")
		return nil
	}

	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
