// Command luther runs a table-driven lexical scanner against a source
// file, or a manifest of several, per SPEC_FULL.md. Flag handling and
// logging setup are grounded on aretext's root main.go.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/luther-lang/luther/internal/appconfig"
	"github.com/luther-lang/luther/internal/batch"
	"github.com/luther-lang/luther/internal/scan"
	"github.com/luther-lang/luther/internal/sink"
	"github.com/luther-lang/luther/internal/tokendump"
)

var logpath = flag.String("log", "", "log to file")
var noconfig = flag.Bool("noconfig", false, "force default configuration")
var batchManifest = flag.String("batch", "", "run every definition/source/output triple listed in this manifest file")
var explain = flag.Bool("explain", false, "print a column-aligned token dump to stderr instead of writing the output file")

func main() {
	flag.Usage = printUsage
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds | log.Llongfile)
	log.SetOutput(io.Discard) // until the real destination is known below

	cfg, err := appconfig.LoadOrCreate(*noconfig)
	if err != nil {
		exitWithError(err)
	}

	logDestination := *logpath
	if logDestination == "" && cfg.LogVerbose {
		logDestination, err = appconfig.DefaultLogPath()
		if err != nil {
			exitWithError(err)
		}
	}
	if logDestination != "" {
		if dir := filepath.Dir(logDestination); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				exitWithError(err)
			}
		}
		logFile, err := os.Create(logDestination)
		if err != nil {
			exitWithError(err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(io.Discard)
	}

	if *batchManifest != "" {
		runBatch(cfg, *batchManifest)
		return
	}

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}

	definitionPath, sourcePath, outputPath := flag.Arg(0), flag.Arg(1), flag.Arg(2)
	if err := runOne(cfg, definitionPath, sourcePath, outputPath); err != nil {
		exitWithError(err)
	}
}

func printUsage() {
	f := flag.CommandLine.Output()
	fmt.Fprintf(f, "Usage: %s [options...] definition source output\n", os.Args[0])
	flag.PrintDefaults()
}

// runOne loads a scanner definition, tokenizes a source file, and writes
// the result, either to outputPath (spec.md §5 line format) or, with
// -explain, as a column-aligned debug table on stderr.
func runOne(cfg appconfig.Config, definitionPath, sourcePath, outputPath string) error {
	log.Printf("definition: %q, source: %q, output: %q\n", definitionPath, sourcePath, outputPath)

	definitionFile, err := os.Open(definitionPath)
	if err != nil {
		return &scan.DefinitionError{Path: definitionPath, Reason: err.Error()}
	}
	defer definitionFile.Close()

	scanner, err := scan.LoadScannerDefinition(definitionPath, definitionFile, openDfaFile)
	if err != nil {
		return err
	}

	if cfg.HexCaseInsensitive {
		log.Printf("hex-case-insensitive parsing enabled\n")
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return &scan.SourceReadError{Path: sourcePath, Cause: err}
	}

	tokenizer := scan.NewTokenizer(scanner)

	if *explain {
		return explainTokens(tokenizer, source)
	}

	out, err := sink.Create(outputPath)
	if err != nil {
		return err
	}
	if err := tokenizer.TokenizeAll(source, out); err != nil {
		out.Abandon()
		return err
	}
	return out.Commit()
}

// explainTokens collects every emitted token as a tokendump.Record directly
// off the tokenizer's Emit callback and prints them as an aligned table,
// rather than writing and re-parsing the spec's line format.
func explainTokens(tokenizer *scan.Tokenizer, source []byte) error {
	var records []tokendump.Record
	err := tokenizer.Tokenize(source, func(tokenID, payload string, line, column int) error {
		records = append(records, tokendump.Record{
			TokenID: tokenID,
			Payload: payload,
			Line:    line,
			Column:  column,
		})
		return nil
	})
	if err != nil {
		return err
	}
	return tokendump.Write(os.Stderr, records)
}

func runBatch(cfg appconfig.Config, manifestPath string) {
	manifestFile, err := os.Open(manifestPath)
	if err != nil {
		exitWithError(errors.Wrapf(err, "opening batch manifest %q", manifestPath))
	}
	defer manifestFile.Close()

	lines, err := batch.ParseManifest(manifestFile)
	if err != nil {
		exitWithError(err)
	}

	results := batch.Run(lines, func(l batch.Line) error {
		return runOne(cfg,
			resolveBatchPath(cfg, l.Definition),
			resolveBatchPath(cfg, l.Source),
			resolveBatchPath(cfg, l.Output))
	})

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "manifest line %d: %v\n", r.Line.Num, r.Err)
		}
	}
	if failures > 0 {
		os.Exit(1)
	}
}

// resolveBatchPath joins a manifest-relative path under cfg.DefaultBatchRoot.
// Absolute paths and an unset DefaultBatchRoot pass through unchanged.
func resolveBatchPath(cfg appconfig.Config, path string) string {
	if cfg.DefaultBatchRoot == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.DefaultBatchRoot, path)
}

func openDfaFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	var exitCoder scan.ExitCoder
	if errors.As(err, &exitCoder) {
		os.Exit(exitCoder.ExitCode())
	}
	os.Exit(1)
}
