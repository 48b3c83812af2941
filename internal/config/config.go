package config

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// UserAgent identifies the action to the Bump.sh and GitHub APIs.
const UserAgent = "bump-github-action"

// Commands understood by the action.
const (
	CommandDeploy   = "deploy"
	CommandDryRun   = "dry-run"
	CommandValidate = "validate"
	CommandPreview  = "preview"
	CommandDiff     = "diff"
)

// Commands lists every accepted command value.
var Commands = []string{CommandDeploy, CommandDryRun, CommandValidate, CommandPreview, CommandDiff}

// Formats lists the accepted local output formats.
var Formats = []string{"text", "json", "markdown"}

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUnknownFormat   = errors.New("unknown format")
	ErrMissingFile     = errors.New("an API definition file is required")
	ErrMissingToken    = errors.New("a Bump.sh token is required")
	ErrMissingDocOrHub = errors.New("a documentation or hub is required")
)

// Keys of the resolved inputs.
const (
	KeyFile           = "file"
	KeyDoc            = "doc"
	KeyHub            = "hub"
	KeyBranch         = "branch"
	KeyOverlay        = "overlay"
	KeyToken          = "token"
	KeyCommand        = "command"
	KeyExpires        = "expires"
	KeyFailOnBreaking = "fail_on_breaking"
	KeyGitHubToken    = "github_token"
	KeyBumpURL        = "bump_url"
	KeyGitHubAPIURL   = "github_api_url"
	KeyFormat         = "format"
	KeyLogLevel       = "log_level"
)

// Inputs is the resolved configuration of one action run.
type Inputs struct {
	File           string
	Doc            string
	Hub            string
	Branch         string
	Overlays       []string
	Token          string
	Command        string
	Expires        string
	FailOnBreaking bool
	GitHubToken    string
	BumpURL        string
	GitHubAPIURL   string
	Format         string
	LogLevel       string
}

// Default returns Inputs with all defaults applied.
func Default() Inputs {
	return Inputs{
		File:         "api-contract.yml",
		Command:      CommandDeploy,
		BumpURL:      "https://bump.sh",
		GitHubAPIURL: "https://api.github.com",
		Format:       "text",
		LogLevel:     "info",
	}
}

// binding ties a key to its flag and environment variables, first match wins.
type binding struct {
	key  string
	flag string
	env  []string
}

var bindings = []binding{
	{KeyFile, "file", []string{"INPUT_FILE"}},
	{KeyDoc, "doc", []string{"INPUT_DOC"}},
	{KeyHub, "hub", []string{"INPUT_HUB"}},
	{KeyBranch, "branch", []string{"INPUT_BRANCH"}},
	{KeyOverlay, "overlay", []string{"INPUT_OVERLAY"}},
	{KeyToken, "token", []string{"INPUT_TOKEN", "BUMP_TOKEN"}},
	{KeyCommand, "", []string{"INPUT_COMMAND"}},
	{KeyExpires, "expires", []string{"INPUT_EXPIRES"}},
	{KeyFailOnBreaking, "fail-on-breaking", []string{"INPUT_FAIL_ON_BREAKING"}},
	{KeyGitHubToken, "github-token", []string{"INPUT_GITHUB-TOKEN", "INPUT_GITHUB_TOKEN", "GITHUB_TOKEN"}},
	{KeyBumpURL, "bump-url", []string{"BUMP_URL"}},
	{KeyGitHubAPIURL, "github-api-url", []string{"GITHUB_API_URL"}},
	{KeyFormat, "format", []string{"INPUT_FORMAT"}},
	{KeyLogLevel, "log-level", []string{"INPUT_LOG_LEVEL"}},
}

// NewViper returns a viper instance with defaults, environment bindings and
// every flag of flags that matches a known input.
func NewViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyFile, d.File)
	v.SetDefault(KeyCommand, d.Command)
	v.SetDefault(KeyBumpURL, d.BumpURL)
	v.SetDefault(KeyGitHubAPIURL, d.GitHubAPIURL)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyFailOnBreaking, false)

	for _, b := range bindings {
		args := append([]string{b.key}, b.env...)
		if err := v.BindEnv(args...); err != nil {
			return nil, errors.Wrapf(err, "binding environment for %s", b.key)
		}
		if flags == nil || b.flag == "" {
			continue
		}
		if f := flags.Lookup(b.flag); f != nil {
			if err := v.BindPFlag(b.key, f); err != nil {
				return nil, errors.Wrapf(err, "binding flag --%s", b.flag)
			}
		}
	}
	return v, nil
}

// Load reads the merged inputs from v.
func Load(v *viper.Viper) Inputs {
	return Inputs{
		File:           strings.TrimSpace(v.GetString(KeyFile)),
		Doc:            strings.TrimSpace(v.GetString(KeyDoc)),
		Hub:            strings.TrimSpace(v.GetString(KeyHub)),
		Branch:         strings.TrimSpace(v.GetString(KeyBranch)),
		Overlays:       SplitComma(v.GetString(KeyOverlay)),
		Token:          v.GetString(KeyToken),
		Command:        strings.TrimSpace(v.GetString(KeyCommand)),
		Expires:        strings.TrimSpace(v.GetString(KeyExpires)),
		FailOnBreaking: v.GetBool(KeyFailOnBreaking),
		GitHubToken:    v.GetString(KeyGitHubToken),
		BumpURL:        strings.TrimSpace(v.GetString(KeyBumpURL)),
		GitHubAPIURL:   strings.TrimSpace(v.GetString(KeyGitHubAPIURL)),
		Format:         strings.TrimSpace(v.GetString(KeyFormat)),
		LogLevel:       strings.TrimSpace(v.GetString(KeyLogLevel)),
	}
}

// Validate checks the inputs required by the selected command.
func (in Inputs) Validate() error {
	if !slices.Contains(Commands, in.Command) {
		return errors.WithHintf(errors.Wrapf(ErrUnknownCommand, "%q", in.Command),
			"valid commands are %s", strings.Join(Commands, ", "))
	}
	if !slices.Contains(Formats, in.Format) {
		return errors.WithHintf(errors.Wrapf(ErrUnknownFormat, "%q", in.Format),
			"valid formats are %s", strings.Join(Formats, ", "))
	}
	if in.File == "" {
		return ErrMissingFile
	}
	if !in.NeedsDocument() {
		return nil
	}
	if in.Token == "" {
		return errors.WithHint(errors.Wrapf(ErrMissingToken, "for %s", in.Command),
			"set the token input from a repository secret")
	}
	if in.Doc == "" && in.Hub == "" {
		return errors.Wrapf(ErrMissingDocOrHub, "for %s", in.Command)
	}
	return nil
}

// NeedsDocument reports whether the command targets an existing
// documentation and therefore requires credentials.
func (in Inputs) NeedsDocument() bool {
	switch in.Command {
	case CommandDeploy, CommandDryRun, CommandValidate:
		return true
	}
	return false
}

// SplitComma splits a comma-separated list, trimming whitespace and
// dropping empty parts.
func SplitComma(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Secrets returns the credential values that must never be printed.
func (in Inputs) Secrets() []string {
	var out []string
	for _, s := range []string{in.Token, in.GitHubToken} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
