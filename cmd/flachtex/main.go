package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"flachtex/internal/cliopts"
	"flachtex/internal/diag"
	"flachtex/internal/envelope"
	"flachtex/internal/expand"
	"flachtex/internal/filefinder"
	"flachtex/pkg/registry"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var o cliopts.Options
	var useChangesPrefix bool

	root := &cobra.Command{
		Use:           "flachtex <path>",
		Short:         "Flatten a LaTeX document tree into one traceable string",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			o.RootPath = posArgs[0]
			return nil
		},
	}
	var flags *pflag.FlagSet = root.Flags()
	flags.BoolVar(&o.ToJSON, "to_json", false, "emit the JSON envelope instead of raw flattened text")
	flags.BoolVar(&o.Attach, "attach", false, "include raw source contents under \"sources\" (requires --to_json)")
	flags.BoolVar(&o.RemoveComments, "comments", false, "strip LaTeX line comments")
	flags.BoolVar(&o.RemoveComments, "remove_comments", false, "alias of --comments")
	flags.BoolVar(&o.EnableChanges, "changes", false, "rewrite changes-package \\added/\\deleted/\\replaced markup")
	flags.BoolVar(&useChangesPrefix, "changes_prefix", false, "use the changes package's alternate \"ch\" command prefix")
	flags.BoolVar(&o.EnableTodos, "todos", false, "remove \\todo{...} markup")
	flags.BoolVar(&o.EnableNewcmd, "newcommand", false, "expand \\newcommand/\\renewcommand call sites")
	flags.StringVar(&o.LogLevel, "log-level", "info", "logger level: debug, info, warn, error")
	flags.StringVar(&o.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (disabled when empty)")
	flags.BoolVar(&o.Status, "status", true, "print run progress to stderr")

	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}
	if useChangesPrefix {
		o.ChangesPrefix = "ch"
	}
	if err := cliopts.Validate(o); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return diag.ExitCode(diag.Classify(err))
	}

	return execute(o)
}

func execute(o cliopts.Options) int {
	start := time.Now()
	corrID := uuid.NewString()
	logger := diag.NewLogger(corrID, o.LogLevel)
	defer logger.Close()

	if o.MetricsAddr != "" {
		go func() {
			if err := diag.ServeMetrics(o.MetricsAddr); err != nil {
				logger.Warn("metrics", "metrics server exited", map[string]string{"err": err.Error()})
			}
		}()
	}

	term := diag.NewTerminal(os.Stderr, o.Status)
	diag.SetTerminal(term)
	defer diag.SetTerminal(nil)
	if term != nil {
		term.RunStart(o.RootPath)
	}

	finder := filefinder.New(afero.NewOsFs(), o.RootPath)
	rootID, content, err := finder.ReadRoot()
	if err != nil {
		return fail(logger, term, start, err)
	}

	ropts := registry.Options{
		EnableComments: o.RemoveComments,
		EnableChanges:  o.EnableChanges,
		ChangesPrefix:  o.ChangesPrefix,
		EnableTodos:    o.EnableTodos,
	}
	exp := expand.New(
		finder,
		registry.SkipRules(ropts),
		registry.ImportRules(),
		registry.SubstitutionRules(ropts),
		expand.Options{EnableNewcmd: o.EnableNewcmd},
		logger,
	)

	t := logger.Start("expand", "run")
	ts, structure, err := exp.Expand(rootID, content)
	if err != nil {
		return fail(logger, term, start, err)
	}
	t.Finish("run", int64(len(structure)))

	var out []byte
	if o.ToJSON {
		doc := envelope.Build(ts, structure, o.Attach)
		out, err = envelope.Marshal(doc)
		if err != nil {
			return fail(logger, term, start, err)
		}
		out = append(out, '\n')
	} else {
		out = append(ts.Bytes(), '\n')
	}
	if _, err := os.Stdout.Write(out); err != nil {
		return fail(logger, term, start, err)
	}

	diag.IncOp("expand", "finish", "success")
	diag.ObserveDuration("expand", "finish", time.Since(start).Milliseconds())
	if term != nil {
		term.RunFinish(true, len(structure))
	}
	return 0
}

func fail(logger *diag.Logger, term *diag.Terminal, start time.Time, err error) int {
	code := diag.Classify(err)
	logger.Error("expand", string(code), err.Error())
	diag.IncOp("expand", "finish", "error")
	diag.IncError("expand", string(code))
	fmt.Fprintln(os.Stderr, err)
	if term != nil {
		term.RunFinish(false, 0)
	}
	return diag.ExitCode(code)
}
