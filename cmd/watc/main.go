// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"watc/internal/config"
	"watc/internal/decls"
	"watc/internal/emit"
	cerrors "watc/internal/errors"
	"watc/internal/frontend"
	"watc/internal/peephole"
	"watc/internal/render"
	"watc/internal/trace"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: watc <file.wsrc>")
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	cfg := config.Default()
	if v := os.Getenv("WATC_NO_OPTIMIZE"); v != "" {
		cfg.Optimize = false
	}
	if err := cfg.Validate(); err != nil {
		color.Red("invalid configuration: %s", err)
		os.Exit(1)
	}

	prog, err := frontend.Parse(path, string(source))
	if err != nil {
		frontend.ReportParseError(string(source), err)
		os.Exit(1)
	}

	fns, err := frontend.ConvertProgram(prog, cfg)
	if err != nil {
		color.Red("%s", err)
		os.Exit(1)
	}

	table := decls.NewMemTable()
	oracle := decls.NewOracle()
	errs := cerrors.NewRecorder()
	var tr trace.Sink
	if cfg.Trace != config.TraceSilent {
		tr = trace.NewRecorder()
	}

	var functions []render.Function
	for _, fn := range fns {
		b := emit.CompileFunction(fn, table, oracle, errs, tr)
		if cfg.Optimize {
			peephole.Optimize(b)
		}
		functions = append(functions, render.Function{
			Name:       fn.Name,
			ParamCount: len(fn.Params),
			Builder:    b,
		})
	}

	if errs.HasErrors() {
		reporter := cerrors.NewReporter(string(source))
		fmt.Print(reporter.FormatAll(errs))
		os.Exit(1)
	}

	fmt.Println(render.Module(functions))

	if rec, ok := tr.(*trace.Recorder); ok {
		for _, ev := range rec.Events {
			fmt.Fprintf(os.Stderr, "%s[%s] %s%s\n", trace.Indent(ev.Depth), ev.Category, trace.Indent(0), ev.Payload)
		}
	}

	color.Green("compiled %s: %d function(s)", path, len(functions))
}
