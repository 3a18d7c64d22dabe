// Package main is the command-line front end for the textstore engine.
// It loads a document, optionally applies a YAML edit script, and writes
// the result.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/textstore/internal/engine"
	"github.com/dshills/textstore/internal/engine/buffer"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	editsPath string
	eol       string
	readOnly  bool
	stats     bool
	undo      bool
	files     []string
}

func run() int {
	opts := parseFlags()

	doc, err := load(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.editsPath != "" {
		if err := applyScript(doc, opts.editsPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.undo {
		for doc.CanUndo() {
			if err := doc.Undo(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: undo: %v\n", err)
				return 1
			}
		}
	}

	if _, err := io.Copy(os.Stdout, doc.Snapshot(true)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: write: %v\n", err)
		return 1
	}

	if opts.stats {
		printStats(doc)
	}
	return 0
}

func load(opts options) (*engine.Document, error) {
	docOpts := []engine.Option{}
	switch opts.eol {
	case "lf":
		docOpts = append(docOpts, engine.WithEOL(engine.EOLSequenceLF))
	case "crlf":
		docOpts = append(docOpts, engine.WithEOL(engine.EOLSequenceCRLF))
	case "auto":
	default:
		return nil, fmt.Errorf("invalid -eol %q (must be auto, lf, or crlf)", opts.eol)
	}
	if opts.readOnly {
		docOpts = append(docOpts, engine.WithReadOnly())
	}

	if len(opts.files) == 0 {
		return engine.NewFromReader(os.Stdin, docOpts...)
	}
	f, err := os.Open(opts.files[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return engine.NewFromReader(f, docOpts...)
}

// scriptPosition is a 1-based line/column in the YAML edit script.
type scriptPosition struct {
	Line   int `yaml:"line"`
	Column int `yaml:"column"`
}

// scriptEdit is one edit in the script. All edits in a script apply as a
// single atomic batch against the pre-edit document.
type scriptEdit struct {
	Op    string         `yaml:"op"`
	Start scriptPosition `yaml:"start"`
	End   scriptPosition `yaml:"end"`
	Text  string         `yaml:"text"`
}

type script struct {
	Group string       `yaml:"group"`
	Edits []scriptEdit `yaml:"edits"`
}

func applyScript(doc *engine.Document, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	ops := make([]engine.EditOperation, 0, len(sc.Edits))
	for i, e := range sc.Edits {
		op, err := toOperation(e)
		if err != nil {
			return fmt.Errorf("%s: edit %d: %w", path, i+1, err)
		}
		ops = append(ops, op)
	}

	if sc.Group != "" {
		doc.BeginUndoGroup(sc.Group)
		defer doc.EndUndoGroup()
	}
	_, err = doc.ApplyEdits(ops, false)
	return err
}

func toOperation(e scriptEdit) (engine.EditOperation, error) {
	start := buffer.NewPosition(e.Start.Line, e.Start.Column)
	end := buffer.NewPosition(e.End.Line, e.End.Column)
	switch e.Op {
	case "insert":
		return buffer.NewInsert(start, e.Text), nil
	case "delete":
		return buffer.NewDelete(buffer.Range{Start: start, End: end}), nil
	case "replace":
		return buffer.NewReplace(buffer.Range{Start: start, End: end}, e.Text), nil
	default:
		return engine.EditOperation{}, fmt.Errorf("unknown op %q (must be insert, delete, or replace)", e.Op)
	}
}

func printStats(doc *engine.Document) {
	fmt.Fprintf(os.Stderr, "bytes:      %d\n", doc.Length())
	fmt.Fprintf(os.Stderr, "lines:      %d\n", doc.LineCount())
	fmt.Fprintf(os.Stderr, "eol:        %s\n", doc.EOL())
	fmt.Fprintf(os.Stderr, "bom:        %t\n", doc.BOM() != "")
	fmt.Fprintf(os.Stderr, "undo units: %d\n", doc.UndoCount())
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.editsPath, "edits", "", "Path to YAML edit script")
	flag.StringVar(&opts.editsPath, "e", "", "Path to YAML edit script (shorthand)")
	flag.StringVar(&opts.eol, "eol", "auto", "Line ending for ambiguous input (auto, lf, crlf)")
	flag.BoolVar(&opts.readOnly, "readonly", false, "Reject all edits")
	flag.BoolVar(&opts.readOnly, "R", false, "Reject all edits (shorthand)")
	flag.BoolVar(&opts.stats, "stats", false, "Print document statistics to stderr")
	flag.BoolVar(&opts.undo, "undo", false, "Undo every applied edit before writing (round-trip check)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "textstore - piece-tree text storage engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: textstore [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Reads from stdin when no file is given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  textstore file.txt                 Normalize and echo a file\n")
		fmt.Fprintf(os.Stderr, "  textstore -e edits.yaml file.txt   Apply an edit script\n")
		fmt.Fprintf(os.Stderr, "  textstore -e edits.yaml -undo f    Verify edits invert cleanly\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("textstore %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.files = flag.Args()
	return opts
}
