package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/dshills/bumpdiff/internal/action"
	"github.com/dshills/bumpdiff/internal/bump"
	"github.com/dshills/bumpdiff/internal/comment"
	"github.com/dshills/bumpdiff/internal/config"
	"github.com/dshills/bumpdiff/internal/gitctx"
	"github.com/dshills/bumpdiff/internal/github"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess    = 0
	ExitFailure    = 1
	ExitUsageError = 2
)

// deps builds the collaborators of a run.
type deps struct {
	detectEvent func() (github.Event, error)
	newBump     func(in config.Inputs) action.BumpAPI
	newGit      func(logger *log.Logger) action.BaseRestorer
	newComments func(in config.Inputs, ev github.Event, logger *log.Logger) action.CommentsFunc
}

var defaultDeps = deps{
	detectEvent: github.DetectEvent,
	newBump: func(in config.Inputs) action.BumpAPI {
		return bump.NewClient(in.BumpURL, in.Token, config.UserAgent)
	},
	newGit: func(logger *log.Logger) action.BaseRestorer {
		return gitctx.NewCheckout(".", logger)
	},
	newComments: func(in config.Inputs, ev github.Event, logger *log.Logger) action.CommentsFunc {
		return func(ctx context.Context) (comment.API, error) {
			c, err := github.NewClient(ctx, github.Options{
				Token:     in.GitHubToken,
				APIURL:    in.GitHubAPIURL,
				UserAgent: config.UserAgent,
				Owner:     ev.Owner,
				Repo:      ev.Repo,
				Logger:    logger,
			})
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	},
}

// Run executes the command line and returns an exit code.
func Run() int {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr, defaultDeps)
}

// app holds the state of one invocation.
type app struct {
	deps     deps
	stdout   io.Writer
	stderr   io.Writer
	exitCode int
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	a := &app{deps: d, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return a.exitCode
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bumpdiff [file]",
		Short: "Deploy, preview and diff API documentation on Bump.sh",
		Long: "bumpdiff runs one Bump.sh documentation command. Without a subcommand it runs " +
			"the command named by the `command` action input, deploy by default.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "", args)
		},
	}
	addInputFlags(root)

	root.AddCommand(
		a.commandCmd(config.CommandDeploy, "Deploy a new documentation version"),
		a.commandCmd(config.CommandDryRun, "Validate a deploy without publishing it"),
		a.commandCmd(config.CommandValidate, "Deprecated alias of dry-run"),
		a.commandCmd(config.CommandPreview, "Create a temporary public preview"),
		a.commandCmd(config.CommandDiff, "Comment the API diff on the pull request"),
		a.versionCmd(),
	)
	return root
}

func (a *app) commandCmd(name, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " [file]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, name, args)
		},
	}
	if name == config.CommandValidate {
		cmd.Deprecated = "use dry-run instead"
	}
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print bumpdiff version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "bumpdiff version %s\n", version)
		},
	}
}

func addInputFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("file", "", "API definition file (default \"api-contract.yml\")")
	f.String("doc", "", "Documentation slug or id")
	f.String("hub", "", "Hub slug or id")
	f.String("branch", "", "Documentation branch")
	f.String("overlay", "", "Overlay files to apply (comma-separated)")
	f.String("token", "", "Bump.sh documentation or hub token")
	f.String("expires", "", "Expiration date of the diff preview")
	f.Bool("fail-on-breaking", false, "Fail when the diff contains a breaking change")
	f.String("github-token", "", "Token used to comment on the pull request")
	f.String("bump-url", "", "Bump.sh API base URL")
	f.String("github-api-url", "", "GitHub REST API base URL")
	f.String("format", "", "Local output format (text, json, markdown)")
	f.String("log-level", "", "Log level (debug, info, warn, error)")
}

// fail reports err and records the exit code.
func (a *app) fail(r *reporter, err error, code int) {
	r.report(err)
	a.exitCode = code
}

// usageErr reports whether err comes from invalid inputs.
func usageErr(err error) bool {
	for _, target := range []error{
		config.ErrUnknownCommand,
		config.ErrUnknownFormat,
		config.ErrMissingFile,
		config.ErrMissingToken,
		config.ErrMissingDocOrHub,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
