// Package main is the entry point for the caret command.
//
// caret loads an HTML document, binds a selection controller to its
// editing root and reports where a document range lands: the native
// boundaries, its bounding rectangle and the scroll offsets needed to
// bring it into view.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/blot"
	"github.com/dshills/caret/internal/config"
	"github.com/dshills/caret/internal/config/loader"
	"github.com/dshills/caret/internal/dom"
	"github.com/dshills/caret/internal/event"
	"github.com/dshills/caret/internal/event/events"
	"github.com/dshills/caret/internal/logging"
	"github.com/dshills/caret/internal/selection"
	"github.com/dshills/caret/internal/tick"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage marks invalid command line input.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	root       string
	logLevel   string
	index      int
	length     int
	format     string
	scroll     bool
	printHTML  bool
	file       string
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stdout, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts == nil {
		return 0
	}

	if err := execute(opts, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stdout, stderr io.Writer) (*options, error) {
	var opts options
	var showVersion bool

	fs := flag.NewFlagSet("caret", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", loader.GetEnvOrDefault("CARET_CONFIG", ""), "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", loader.GetEnvOrDefault("CARET_CONFIG", ""), "Path to configuration file (shorthand)")
	fs.StringVar(&opts.root, "root", "", "XPath query selecting the editing root")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.IntVar(&opts.index, "index", 0, "Selection index")
	fs.IntVar(&opts.length, "length", 0, "Selection length")
	fs.StringVar(&opts.format, "format", "", "Apply a format at a collapsed selection (name or name=value)")
	fs.BoolVar(&opts.scroll, "scroll", false, "Scroll the selection into view")
	fs.BoolVar(&opts.printHTML, "html", false, "Print the editing root after the run")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "caret - map document ranges onto an HTML editing surface\n\n")
		fmt.Fprintf(stderr, "Usage: caret [options] file.html\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  caret -index 3 page.html              Place a caret at index 3\n")
		fmt.Fprintf(stderr, "  caret -index 3 -length 4 page.html    Select four characters\n")
		fmt.Fprintf(stderr, "  caret -index 3 -format bold -html page.html\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if showVersion {
		fmt.Fprintf(stdout, "caret %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return nil, nil
	}

	if opts.logLevel != "" && !logging.ValidLevel(opts.logLevel) {
		return nil, fmt.Errorf("%w: invalid log level %q (must be debug, info, warn, or error)", errUsage, opts.logLevel)
	}
	if opts.index < 0 || opts.length < 0 {
		return nil, fmt.Errorf("%w: index and length must not be negative", errUsage)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("%w: expected exactly one HTML file", errUsage)
	}
	opts.file = fs.Arg(0)

	return &opts, nil
}

func execute(opts *options, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.root != "" {
		cfg.Document.Root = opts.root
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Logger(stderr)
	if cfg.Source != "" {
		logger.Debug("loaded config from %s", cfg.Source)
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := dom.Parse(f, cfg.DocumentOptions(logger)...)
	if err != nil {
		return err
	}

	bus := event.NewBus(event.WithLogger(logger))
	sched := tick.New()
	tree := blot.NewScroll(doc, bus, blot.WithLogger(logger))

	ctrl, err := selection.New(tree, doc, bus, sched, cfg.SelectionOptions(logger)...)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	sub, err := event.Subscribe(bus, events.TopicSelectionChange, func(_ context.Context, e event.Event[events.SelectionChange]) error {
		fmt.Fprintf(stdout, "selection-change: %s -> %s (%s)\n", formatRange(e.Payload.OldRange), formatRange(e.Payload.Range), e.Payload.Source)
		return nil
	})
	if err != nil {
		return err
	}
	defer bus.Unsubscribe(sub)

	ctrl.SetRange(&selection.Range{Index: opts.index, Length: opts.length}, false, events.SourceAPI)

	if opts.format != "" {
		name, value := parseFormat(opts.format)
		ctrl.Format(name, value)
	}
	sched.Drain()
	if n := sched.Pending(); n > 0 {
		logger.Warn("discarding %d deferred tasks that kept rescheduling", n)
		sched.Invalidate()
	}

	r := ctrl.Range()
	fmt.Fprintf(stdout, "range: %s\n", formatRange(r))
	if native := ctrl.NativeRange(); native != nil {
		fmt.Fprintf(stdout, "native: %s -> %s\n",
			describe(native.StartContainer, native.StartOffset),
			describe(native.EndContainer, native.EndOffset))
	}
	if r != nil {
		if b, ok := ctrl.Bounds(r.Index, r.Length); ok {
			fmt.Fprintf(stdout, "bounds: top=%g left=%g width=%g height=%g\n", b.Top, b.Left, b.Width, b.Height)
		}
	}

	if opts.scroll {
		comps, err := ctrl.ScrollIntoView()
		if err != nil {
			return fmt.Errorf("scroll into view: %w", err)
		}
		for _, c := range comps {
			fmt.Fprintf(stdout, "scroll: %s top=%g left=%g\n", describe(c.Element, -1), c.Top, c.Left)
		}
	}

	if opts.printHTML {
		fmt.Fprintln(stdout, dom.InnerHTML(doc.Root()))
	}
	return nil
}

// parseFormat splits name=value. A bare name means true.
func parseFormat(s string) (string, any) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return name, true
	}
	switch value {
	case "true":
		return name, true
	case "false":
		return name, false
	}
	return name, value
}

func formatRange(r *selection.Range) string {
	if r == nil {
		return "none"
	}
	return r.String()
}

func describe(n *html.Node, offset int) string {
	var name string
	switch {
	case n == nil:
		return "nil"
	case n.Type == html.TextNode:
		name = fmt.Sprintf("#text %q", n.Data)
	default:
		name = "<" + n.Data + ">"
	}
	if offset < 0 {
		return name
	}
	return fmt.Sprintf("%s@%d", name, offset)
}
