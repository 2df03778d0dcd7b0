// Command hunkstage inspects diffs and blame output of a git repository and
// stages, unstages or discards individual hunks and lines.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/hunkstage"
	"github.com/fwojciec/hunkstage/chroma"
	hfs "github.com/fwojciec/hunkstage/fs"
	"github.com/fwojciec/hunkstage/git"
	"github.com/fwojciec/hunkstage/gitdiff"
	"github.com/fwojciec/hunkstage/jsonl"
	hlipgloss "github.com/fwojciec/hunkstage/lipgloss"
	"github.com/fwojciec/hunkstage/unidiff"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
)

const usage = `usage: hunkstage [flags] <command> [args]

commands:
  diff [--cached] [--rev R] [-U n] <path>        print the parsed diff as JSON
  diff -                                         parse a multi-file diff read from stdin
  blame [-L s,e] [--rev R] [--json] <path>       annotate lines with their last commit
  stage <path> [hunk[:line,...]]...              stage hunks or lines of the working tree
  unstage <path> [hunk[:line,...]]...            unstage hunks or lines of the index
  discard <path> [hunk[:line,...]]...            revert hunks or lines in the working tree
  apply [--cached] [--reverse] [--stat] [file]   apply a patch read from file or stdin
  batch <requests.jsonl>                         apply independent patches concurrently

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	stop()
	os.Exit(code)
}

// run resolves configuration from flags, the environment and the config
// file, then hands the remaining arguments to an App.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(stderr, "hunkstage: load .env: %v\n", err)
			return 1
		}
	}

	fset := flag.NewFlagSet("hunkstage", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.Usage = func() {
		fmt.Fprint(stderr, usage)
		fset.PrintDefaults()
	}
	configPath := fset.String("config", "", "config file (default "+hfs.DefaultConfigPath()+")")
	gitBin := fset.String("git", "", "git binary")
	dir := fset.String("C", "", "run as if started in this directory")
	logLevel := fset.String("log-level", "", "debug, info, warn or error")
	color := fset.String("color", "auto", "auto, always or never")
	if err := fset.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := LoadConfig(*configPath, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "hunkstage: %s\n", hunkstage.ErrorMessage(err))
		return 1
	}
	if *gitBin != "" {
		cfg.GitBin = *gitBin
	}
	if *dir != "" {
		cfg.Dir = *dir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "hunkstage: %s\n", hunkstage.ErrorMessage(err))
		return 2
	}

	renderer, err := NewRenderer(stdout, *color)
	if err != nil {
		fmt.Fprintf(stderr, "hunkstage: %v\n", err)
		return 2
	}
	theme := hlipgloss.DefaultTheme()
	opts := []hlipgloss.Option{hlipgloss.WithTheme(theme)}
	if *color != "never" {
		tokenizer, err := chroma.NewTokenizer(chroma.StyleFromPalette(theme.Palette()))
		if err != nil {
			fmt.Fprintf(stderr, "hunkstage: %v\n", err)
			return 1
		}
		opts = append(opts, hlipgloss.WithTokenizer(tokenizer))
	}

	app := &App{
		Client:    git.NewClient(cfg, NewLogger(cfg, stderr)),
		Parser:    unidiff.NewParser(),
		Validator: gitdiff.NewValidator(),
		Reporter:  hlipgloss.NewReporter(renderer, opts...),
		Loader:    jsonl.NewLoader(),
		Stdin:     stdin,
		Stdout:    stdout,
		Stderr:    stderr,
	}
	return app.Run(ctx, fset.Args())
}

// NewRenderer returns a lipgloss renderer for w honoring the color mode.
func NewRenderer(w io.Writer, mode string) (*lipgloss.Renderer, error) {
	switch mode {
	case "auto":
		return lipgloss.NewRenderer(w), nil
	case "always":
		r := lipgloss.NewRenderer(w)
		r.SetColorProfile(termenv.TrueColor)
		return r, nil
	case "never":
		return lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii)), nil
	default:
		return nil, fmt.Errorf("unknown color mode %q", mode)
	}
}

// App runs one hunkstage command.
type App struct {
	Client    hunkstage.Client
	Parser    *unidiff.Parser
	Validator *gitdiff.Validator
	Reporter  *hlipgloss.Reporter
	Loader    *jsonl.Loader

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// usageError marks a command line that cannot be acted on.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// Run executes the command named by args[0] and returns the process exit
// code: 0 on success, 1 on failure, 2 on a usage error.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.Stderr, usage)
		return 2
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "diff":
		err = a.diff(ctx, rest)
	case "blame":
		err = a.blame(ctx, rest)
	case "stage", "unstage", "discard":
		err = a.selection(ctx, cmd, rest)
	case "apply":
		err = a.apply(ctx, rest)
	case "batch":
		err = a.batch(ctx, rest)
	default:
		err = usagef("unknown command %q", cmd)
	}
	return a.exit(err)
}

func (a *App) exit(err error) int {
	var uerr *usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &uerr):
		fmt.Fprintf(a.Stderr, "hunkstage: %s\n", uerr.msg)
		return 2
	case errors.Is(err, flag.ErrHelp):
		return 0
	default:
		_ = a.Reporter.Result(a.Stderr, hunkstage.Failure(err))
		return 1
	}
}

func (a *App) flags(name string) *flag.FlagSet {
	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	fset.SetOutput(a.Stderr)
	return fset
}

// parse parses args and wraps flag errors as usage errors.
func parse(fset *flag.FlagSet, args []string) error {
	if err := fset.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usagef("%s: %v", fset.Name(), err)
	}
	return nil
}

func (a *App) diff(ctx context.Context, args []string) error {
	fset := a.flags("diff")
	cached := fset.Bool("cached", false, "diff the index against HEAD")
	rev := fset.String("rev", "", "show the change made by this commit")
	unified := fset.Int("U", 0, "lines of context")
	if err := parse(fset, args); err != nil {
		return err
	}
	if fset.NArg() != 1 {
		return usagef("diff: expected one path")
	}
	path := fset.Arg(0)
	if path == "-" {
		if *cached || *rev != "" {
			return usagef("diff: --cached and --rev need a path")
		}
		return a.diffInput()
	}

	var (
		file hunkstage.FileDiff
		err  error
	)
	if *rev != "" {
		file, err = a.Client.Show(ctx, hunkstage.ShowRequest{Rev: *rev, Path: path})
	} else {
		file, err = a.Client.Diff(ctx, hunkstage.DiffRequest{Path: path, Cached: *cached, ContextLines: *unified})
	}
	if err != nil && hunkstage.ErrorCode(err) != hunkstage.EMALFORMED {
		return err
	}

	enc := json.NewEncoder(a.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(file); encErr != nil {
		return encErr
	}
	return err
}

// diffInput parses every file of a diff read from stdin. Files that parse
// are printed even when others are malformed.
func (a *App) diffInput() error {
	text, err := hfs.ReadInput("-", a.Stdin)
	if err != nil {
		return err
	}
	files, err := a.Parser.ParseAll(text)

	enc := json.NewEncoder(a.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(files); encErr != nil {
		return encErr
	}
	return err
}

func (a *App) blame(ctx context.Context, args []string) error {
	fset := a.flags("blame")
	lines := fset.String("L", "", "line range s,e")
	rev := fset.String("rev", "", "annotate the file as of this revision")
	asJSON := fset.Bool("json", false, "write one JSON object per line")
	if err := parse(fset, args); err != nil {
		return err
	}
	if fset.NArg() != 1 {
		return usagef("blame: expected one path")
	}
	start, end, err := ParseRange(*lines)
	if err != nil {
		return err
	}
	path := fset.Arg(0)

	blamed, err := a.Client.Blame(ctx, hunkstage.BlameRequest{Path: path, Rev: *rev, Start: start, End: end})
	if err != nil {
		return err
	}
	if *asJSON {
		w := jsonl.NewWriter(a.Stdout)
		for _, l := range blamed {
			if err := w.Write(l); err != nil {
				return err
			}
		}
		return nil
	}
	return a.Reporter.Blame(a.Stdout, chroma.Language(path), blamed)
}

func (a *App) selection(ctx context.Context, cmd string, args []string) error {
	if len(args) == 0 {
		return usagef("%s: expected a path", cmd)
	}
	path := args[0]

	file, err := a.Client.Diff(ctx, hunkstage.DiffRequest{Path: path, Cached: cmd == "unstage"})
	if err != nil {
		return err
	}
	if len(file.Hunks) == 0 {
		return hunkstage.Errorf(hunkstage.EINVALID, "%s: no changes in %s", cmd, path)
	}
	sel := hunkstage.SelectAll(file)
	if len(args) > 1 {
		if sel, err = ParseSelection(args[1:]); err != nil {
			return err
		}
	}

	var res hunkstage.Result
	switch cmd {
	case "stage":
		res = a.Client.StageSelection(ctx, file, sel)
	case "unstage":
		res = a.Client.UnstageSelection(ctx, file, sel)
	default:
		res = a.Client.DiscardSelection(ctx, file, sel)
	}
	if err := res.Err(); err != nil {
		return err
	}
	return a.Reporter.Result(a.Stdout, res)
}

func (a *App) apply(ctx context.Context, args []string) error {
	fset := a.flags("apply")
	cached := fset.Bool("cached", false, "apply to the index only")
	reverse := fset.Bool("reverse", false, "apply the patch in reverse")
	statOnly := fset.Bool("stat", false, "print what the patch changes without applying it")
	if err := parse(fset, args); err != nil {
		return err
	}
	if fset.NArg() > 1 {
		return usagef("apply: expected at most one patch file")
	}

	patch, err := hfs.ReadInput(fset.Arg(0), a.Stdin)
	if err != nil {
		return err
	}
	stats, err := a.Validator.Stat(patch)
	if err != nil {
		return err
	}
	if *statOnly {
		return a.Reporter.Stats(a.Stdout, stats)
	}

	res := a.Client.Apply(ctx, patch, hunkstage.ApplyOptions{Cached: *cached, Reverse: *reverse})
	if err := res.Err(); err != nil {
		return err
	}
	if err := a.Reporter.Result(a.Stdout, res); err != nil {
		return err
	}
	return a.Reporter.Stats(a.Stdout, stats)
}

func (a *App) batch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usagef("batch: expected one requests file")
	}

	var (
		reqs []hunkstage.ApplyRequest
		err  error
	)
	if args[0] == "-" {
		reqs, err = a.Loader.Read(a.Stdin)
	} else {
		reqs, err = a.Loader.Load(args[0])
	}
	if err != nil {
		return err
	}

	results, applyErr := a.Client.ApplyAll(ctx, reqs)
	if err := jsonl.NewWriter(a.Stdout).WriteResults(results); err != nil {
		return err
	}
	if applyErr != nil {
		// The message lists every failed request.
		return &hunkstage.Error{Code: hunkstage.ErrorCode(applyErr), Op: "batch", Message: applyErr.Error(), Err: applyErr}
	}
	return nil
}

// ParseSelection parses hunk specs of the form "2" (every change of hunk 2)
// or "2:1,4" (lines 1 and 4 of hunk 2). Hunk and line indices are zero- and
// one-based respectively, matching Hunk.Lines where index 0 is the header.
// A whole-hunk spec wins over line specs for the same hunk.
func ParseSelection(specs []string) (hunkstage.Selection, error) {
	sel := hunkstage.Selection{}
	whole := map[int]bool{}
	for _, spec := range specs {
		hunkPart, linePart, hasLines := strings.Cut(spec, ":")
		h, err := strconv.Atoi(hunkPart)
		if err != nil || h < 0 {
			return nil, usagef("invalid hunk %q", spec)
		}
		if !hasLines {
			whole[h] = true
			continue
		}
		for _, field := range strings.Split(linePart, ",") {
			l, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, usagef("invalid line %q in %q", field, spec)
			}
			sel[h] = append(sel[h], l)
		}
	}
	for h, lines := range sel {
		slices.Sort(lines)
		sel[h] = slices.Compact(lines)
	}
	for h := range whole {
		sel[h] = nil
	}
	return sel, nil
}

// ParseRange parses "s,e", "s," or ",e" into 1-based bounds, zero meaning
// open. An empty string selects the whole file.
func ParseRange(s string) (start, end int, err error) {
	if s == "" {
		return 0, 0, nil
	}
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, usagef("invalid line range %q: expected s,e", s)
	}
	if a != "" {
		if start, err = strconv.Atoi(a); err != nil {
			return 0, 0, usagef("invalid line range %q", s)
		}
	}
	if b != "" {
		if end, err = strconv.Atoi(b); err != nil {
			return 0, 0, usagef("invalid line range %q", s)
		}
	}
	return start, end, nil
}
