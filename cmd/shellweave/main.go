package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shellweave/shellweave/internal/codegen"
	"github.com/shellweave/shellweave/internal/diagram"
	"github.com/shellweave/shellweave/internal/expressions"
	"github.com/shellweave/shellweave/internal/logging"
	"github.com/shellweave/shellweave/internal/validation"
	"github.com/shellweave/shellweave/pkg/graph"
	weavemcp "github.com/shellweave/shellweave/pkg/mcp"
)

const usage = `shellweave: block-graph to PowerShell script generator

Usage:
  shellweave generate [file|-]   Generate a script from a snapshot document
  shellweave validate [file|-]   Validate a snapshot document
  shellweave diagram  [file|-]   Render a Mermaid preview of the graph
  shellweave mcp                 Serve the engine over MCP (stdio)
  shellweave version             Print version
`

func main() {
	cfg := loadConfig()
	logger := newLogger(cfg)

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "generate":
		err = runGenerate(args[1:], cfg, logger)
	case "validate":
		err = runValidate(args[1:])
	case "diagram":
		err = runDiagram(args[1:])
	case "mcp":
		err = runMCP(logger)
	case "version":
		printVersion()
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "shellweave: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(logging.NewCorrelationHandler(inner))
}

// readDocument loads the snapshot document from the named file, or from
// stdin when the argument is missing or "-".
func readDocument(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func runGenerate(args []string, cfg Config, logger *slog.Logger) error {
	doc, err := readDocument(args)
	if err != nil {
		return err
	}

	v, err := validation.New()
	if err != nil {
		return err
	}
	result, err := v.ValidateDocument(doc)
	if err != nil {
		return err
	}
	for _, issue := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", issue.Path, issue.Message)
	}
	if !result.Valid() {
		for _, issue := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %s: %s\n", issue.Path, issue.Message)
		}
		return fmt.Errorf("snapshot has %d validation errors", len(result.Errors))
	}

	snap, err := graph.ParseDocument(doc)
	if err != nil {
		return err
	}

	resolver, err := expressions.NewResolver()
	if err != nil {
		return err
	}

	gen := codegen.New(
		codegen.WithLogger(logger),
		codegen.WithResolver(resolver),
		codegen.WithIndent(cfg.Indent),
	)
	res := gen.Generate(context.Background(), snap)

	for _, issue := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", issue.Path, issue.Message)
	}

	out := os.Stdout
	if cfg.OutPath != "" {
		f, err := os.Create(cfg.OutPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if _, err := io.WriteString(out, res.Script); err != nil {
		return err
	}

	if strings.HasPrefix(res.Script, "# shellweave: cycle detected") {
		return fmt.Errorf("generation aborted: dependency cycle")
	}
	return nil
}

func runValidate(args []string) error {
	doc, err := readDocument(args)
	if err != nil {
		return err
	}

	v, err := validation.New()
	if err != nil {
		return err
	}
	result, err := v.ValidateDocument(doc)
	if err != nil {
		return err
	}

	for _, issue := range result.Warnings {
		fmt.Printf("warning: %s: %s\n", issue.Path, issue.Message)
	}
	for _, issue := range result.Errors {
		fmt.Printf("error: %s: %s\n", issue.Path, issue.Message)
	}
	if !result.Valid() {
		return fmt.Errorf("snapshot has %d validation errors", len(result.Errors))
	}
	fmt.Println("snapshot is valid")
	return nil
}

func runDiagram(args []string) error {
	doc, err := readDocument(args)
	if err != nil {
		return err
	}

	snap, err := graph.ParseDocument(doc)
	if err != nil {
		return err
	}

	model, err := diagram.Build(snap)
	if err != nil {
		return err
	}
	fmt.Print(diagram.RenderMermaid(model))
	return nil
}

func runMCP(logger *slog.Logger) error {
	v, err := validation.New()
	if err != nil {
		return err
	}
	resolver, err := expressions.NewResolver()
	if err != nil {
		return err
	}

	srv := weavemcp.NewWeaveServer(weavemcp.WeaveServerDeps{
		Validator: v,
		Resolver:  resolver,
		Logger:    logger,
	})
	return srv.Serve(context.Background())
}
