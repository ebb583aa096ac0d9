package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/valirator"
	"github.com/reoring/valirator/internal/config"
	"github.com/reoring/valirator/internal/logger"
	"github.com/reoring/valirator/rules"
	"github.com/reoring/valirator/schema"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "valirator: %v\n", err)
		os.Exit(exitUsage)
	}
	a := newApp(cfg, os.Stdin, os.Stdout, os.Stderr)
	os.Exit(a.run(context.Background(), os.Args[1:]))
}

type app struct {
	cfg    config.Config
	log    *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp(cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) *app {
	level, _ := config.ParseLevel(cfg.LogLevel)
	log := logger.New(
		logger.WithLevel(level),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithOutput(stderr),
		logger.WithAttr(slog.String("app", "valirator")),
	)
	return &app{cfg: cfg, log: log, stdin: stdin, stdout: stdout, stderr: stderr}
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		a.usage()
		return exitUsage
	}
	switch args[0] {
	case "inspect":
		return a.inspectCmd(args[1:])
	case "check":
		return a.checkCmd(ctx, args[1:])
	default:
		a.usage()
		return exitUsage
	}
}

func (a *app) usage() {
	fmt.Fprintln(a.stderr, "valirator CLI\n\nUsage:\n  valirator inspect [-first] [-include-empty] [-exclude k1,k2] [-o json|yaml] RESULT_FILE\n  valirator check -require f1,f2 [-o json|yaml] DOCUMENT\n\nNotes:\n  - RESULT_FILE is a JSON or YAML tree of bool leaves (true = failed rule).\n  - Use - to read JSON from stdin.")
}

// report is the document printed by both subcommands.
type report struct {
	Valid      bool              `json:"valid" yaml:"valid"`
	Errors     *valirator.Result `json:"errors" yaml:"errors"`
	FirstError *firstError       `json:"firstError,omitempty" yaml:"firstError,omitempty"`
	Issues     []valirator.Issue `json:"issues" yaml:"issues"`
}

type firstError struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

func buildReport(res *valirator.Result, first, includeEmpty bool, exclude []string) report {
	rep := report{
		Valid:  res.IsValid(),
		Issues: []valirator.Issue(res.Issues()),
	}
	if first {
		rep.Errors = res.GetFirstErrors(includeEmpty)
	} else {
		rep.Errors = res.GetErrors(includeEmpty)
	}
	if rep.Issues == nil {
		rep.Issues = []valirator.Issue{}
	}
	if e, ok := res.GetFirstError(exclude...); ok {
		rep.FirstError = &firstError{Key: e.Key(), Value: e.Value()}
	}
	return rep
}

func (a *app) inspectCmd(args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var first, includeEmpty bool
	var excludeCSV, out string
	fs.BoolVar(&first, "first", false, "report only the first leaf per node (GetFirstErrors)")
	fs.BoolVar(&includeEmpty, "include-empty", false, "keep passing leaves and empty nodes")
	fs.StringVar(&excludeCSV, "exclude", "", "comma-separated keys skipped when picking the first error")
	fs.StringVar(&out, "o", a.cfg.Output, "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	path := fs.Arg(0)
	res, err := a.loadResult(path)
	if err != nil {
		a.log.Error("load result", slog.String("file", path), slog.Any("error", err))
		return exitUsage
	}
	a.log.Debug("loaded result", slog.String("file", path), slog.Int("keys", res.Len()))

	rep := buildReport(res, first, includeEmpty, splitCSV(excludeCSV))
	if err := a.write(out, rep); err != nil {
		a.log.Error("write report", slog.Any("error", err))
		return exitUsage
	}
	if !rep.Valid {
		return exitInvalid
	}
	return exitOK
}

func (a *app) checkCmd(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var requireCSV, out string
	var failFast bool
	fs.StringVar(&requireCSV, "require", "", "comma-separated top-level fields that must be present and non-null")
	fs.StringVar(&out, "o", a.cfg.Output, "output format: json or yaml")
	fs.BoolVar(&failFast, "fail-fast", false, "stop at the first failed rule of each value")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 || requireCSV == "" {
		fs.Usage()
		return exitUsage
	}
	path := fs.Arg(0)
	doc, err := a.loadDocument(path)
	if err != nil {
		a.log.Error("load document", slog.String("file", path), slog.Any("error", err))
		return exitUsage
	}

	b := schema.New()
	for _, name := range splitCSV(requireCSV) {
		b.Field(name, schema.New().Rule("required", true).Build())
	}
	reg := rules.NewRegistry().MustRegister("required", requiredRule)

	res, err := schema.Validate(ctx, b.Build(), doc,
		schema.WithRegistry(reg),
		schema.WithLogger(a.log),
		schema.WithFailFast(failFast),
	)
	if err != nil {
		a.log.Error("validate", slog.Any("error", err))
		return exitUsage
	}

	rep := buildReport(res, true, false, nil)
	if err := a.write(out, rep); err != nil {
		a.log.Error("write report", slog.Any("error", err))
		return exitUsage
	}
	if !rep.Valid {
		return exitInvalid
	}
	return exitOK
}

// requiredRule passes unless param is true and the value is absent or null.
func requiredRule(value, param any) (bool, error) {
	want, ok := param.(bool)
	if !ok {
		return false, fmt.Errorf("required: param must be bool, got %T", param)
	}
	if !want {
		return true, nil
	}
	return value != nil, nil
}

func (a *app) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(a.stdin)
	}
	return os.ReadFile(path)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func (a *app) loadResult(path string) (*valirator.Result, error) {
	data, err := a.readInput(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		var res valirator.Result
		if err := yaml.Unmarshal(data, &res); err != nil {
			return nil, err
		}
		return &res, nil
	}
	return valirator.DecodeJSON(bytes.NewReader(data))
}

func (a *app) loadDocument(path string) (any, error) {
	data, err := a.readInput(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if isYAML(path) {
		err = yaml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

var errUnknownOutput = errors.New("unknown output format")

func (a *app) write(format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		b = append(b, '\n')
		_, err = a.stdout.Write(b)
		return err
	default:
		return fmt.Errorf("%w: %q", errUnknownOutput, format)
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
