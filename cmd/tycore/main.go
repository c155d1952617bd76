package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/tycore/internal/config"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/evaluator"
	"github.com/funvibe/tycore/internal/modules"
	"github.com/funvibe/tycore/internal/parser"
	"github.com/funvibe/tycore/internal/pipeline"
	"github.com/funvibe/tycore/internal/symbols"
)

const usage = `Usage: tycore [-config file] [-debug] <command> [args]

Commands:
  dir            list every builtin name and its type
  lookup NAME    show what NAME resolves to
  eval SRC       evaluate constant chunks separated by ';', e.g. "X = 2; X * 3"
`

type palette struct {
	name, err, reset string
}

func newPalette(out *os.File) palette {
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		return palette{name: "\033[36m", err: "\033[31m", reset: "\033[0m"}
	}
	return palette{}
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout io.Writer, stderr io.Writer) int {
	configPath := ""
	debugMode := false
	var args []string
	for i := 0; i < len(argv); i++ {
		switch arg := argv[i]; arg {
		case "-config", "--config":
			if i+1 >= len(argv) {
				fmt.Fprint(stderr, usage)
				return 2
			}
			i++
			configPath = argv[i]
		case "-debug", "--debug":
			debugMode = true
		case "-help", "--help", "help":
			fmt.Fprint(stdout, usage)
			return 0
		default:
			args = append(args, arg)
		}
	}
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	if debugMode {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	logger := cfg.NewLogger()

	sess, err := newSession(&cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	builtins, mod := sess.builtins, sess.module
	logger.Debug("session started", "session", sess.cache.Session().String())

	pal := palette{}
	if f, ok := stdout.(*os.File); ok {
		pal = newPalette(f)
	}

	switch args[0] {
	case "dir":
		for _, nv := range builtins.Dir() {
			fmt.Fprintf(stdout, "%s%s%s: %s\n", pal.name, nv.Name, pal.reset, nv.Info.Type)
		}
		return 0
	case "lookup":
		if len(args) != 2 {
			fmt.Fprint(stderr, usage)
			return 2
		}
		vi, err := mod.GetVarInfo(args[1])
		if err != nil {
			printErrors(stderr, pal, err)
			return 1
		}
		fmt.Fprintf(stdout, "%s%s%s: %s\n", pal.name, args[1], pal.reset, vi)
		return 0
	case "eval":
		if len(args) < 2 {
			fmt.Fprint(stderr, usage)
			return 2
		}
		pipe := pipeline.New(&parser.ParserProcessor{}, &evaluator.EvalProcessor{})
		ctx := pipe.Run(pipeline.NewContext(strings.Join(args[1:], " "), mod))
		if err := ctx.Err(); err != nil {
			printErrors(stderr, pal, err)
			return 1
		}
		fmt.Fprintln(stdout, ctx.Value)
		return 0
	}
	fmt.Fprintf(stderr, "unknown command %q\n", args[0])
	fmt.Fprint(stderr, usage)
	return 2
}

// session is one cache with its builtins and the main module on top.
type session struct {
	cache    *modules.SharedCache
	builtins *symbols.Context
	module   *symbols.Context
}

func newSession(cfg *config.Config, logger *slog.Logger) (*session, error) {
	cache := modules.NewSession(cfg, logger)
	builtins, ok := cache.BuiltinsCtx()
	if !ok {
		return nil, errors.New("no builtins module")
	}
	return &session{
		cache:    cache,
		builtins: builtins,
		module:   symbols.NewModule(config.MainModuleName, cache, cfg),
	}, nil
}

func printErrors(w io.Writer, pal palette, err error) {
	errs := diagnostics.AsErrors(err)
	if len(errs) == 0 {
		fmt.Fprintf(w, "%s%s%s\n", pal.err, err, pal.reset)
		return
	}
	for _, d := range errs {
		fmt.Fprintf(w, "%s- %s%s\n", pal.err, d.Error(), pal.reset)
	}
}
