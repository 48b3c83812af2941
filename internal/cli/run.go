package cli

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/dshills/bumpdiff/internal/action"
	"github.com/dshills/bumpdiff/internal/config"
	"github.com/dshills/bumpdiff/internal/logging"
	"github.com/dshills/bumpdiff/internal/output"
	"github.com/dshills/bumpdiff/internal/redact"
)

// reporter prints failures without leaking secrets.
type reporter struct {
	actions  *output.Actions
	redactor *redact.Redactor
	stderr   io.Writer
}

func (r *reporter) report(err error) {
	r.actions.Error(r.redactor.String(err.Error()))
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(r.stderr, "Hint: %s\n", r.redactor.String(hint))
	}
}

func (a *app) run(cmd *cobra.Command, command string, args []string) error {
	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return err
	}
	if len(args) == 1 {
		v.Set(config.KeyFile, args[0])
	}
	if command != "" {
		v.Set(config.KeyCommand, command)
	}
	in := config.Load(v)

	actions := output.NewActions(a.stdout)
	rep := &reporter{actions: actions, redactor: redact.New(in.Secrets()...), stderr: a.stderr}
	for _, s := range rep.redactor.Values() {
		actions.Mask(s)
	}

	logger, err := logging.New(a.stderr, in.LogLevel)
	if err != nil {
		a.fail(rep, err, ExitUsageError)
		return nil
	}
	if err := in.Validate(); err != nil {
		a.fail(rep, err, ExitUsageError)
		return nil
	}

	ev, err := a.deps.detectEvent()
	if err != nil {
		a.fail(rep, err, ExitFailure)
		return nil
	}
	logger.Debug("Detected run context", "event", ev.Name, "repo", ev.Owner+"/"+ev.Repo, "pr", ev.PRNumber)

	runner := &action.Runner{
		Inputs:   in,
		Event:    ev,
		Bump:     a.deps.newBump(in),
		Git:      a.deps.newGit(logger),
		Comments: a.deps.newComments(in, ev, logger),
		Actions:  actions,
		Logger:   logger,
	}

	report, err := runner.Run(cmd.Context())
	if report != nil {
		if werr := output.WriteReport(a.stdout, report, in.Format); werr != nil {
			logger.Error("Writing report", "err", werr)
		}
	}
	if err != nil {
		code := ExitFailure
		if usageErr(err) {
			code = ExitUsageError
		}
		a.fail(rep, err, code)
		return nil
	}
	return nil
}
