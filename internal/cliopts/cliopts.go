// Package cliopts is the command-line surface's flat flag struct. Each
// invocation is hermetic: no environment variables are consulted and no
// state persists between runs, so there is no layered config file/env/CLI
// merge here, unlike the pipeline this command line was adapted from.
package cliopts

import (
	"flachtex/pkg/ferrors"
)

// Options holds every flag the CLI accepts, already parsed and validated.
type Options struct {
	RootPath string

	ToJSON         bool
	Attach         bool
	RemoveComments bool

	EnableChanges bool
	ChangesPrefix string
	EnableTodos   bool
	EnableNewcmd  bool

	LogLevel    string
	MetricsAddr string
	Status      bool
}

// Validate enforces the handful of cross-flag constraints the flag parser
// itself cannot express.
func Validate(o Options) error {
	if o.RootPath == "" {
		return ferrors.NewInvalidArgs("missing root path argument")
	}
	if o.Attach && !o.ToJSON {
		return ferrors.NewInvalidArgs("--attach requires --to_json")
	}
	return nil
}
