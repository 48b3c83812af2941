package config

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, b := range bindings {
		for _, e := range b.env {
			t.Setenv(e, "")
		}
	}
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("file", "", "")
	fs.String("doc", "", "")
	fs.String("token", "", "")
	fs.String("overlay", "", "")
	fs.Bool("fail-on-breaking", false, "")
	fs.String("format", "", "")
	return fs
}

func TestDefault(t *testing.T) {
	clearEnv(t)
	v, err := NewViper(nil)
	require.NoError(t, err)

	in := Load(v)
	assert.Equal(t, Default(), in)
	assert.Equal(t, "api-contract.yml", in.File)
	assert.Equal(t, CommandDeploy, in.Command)
	assert.Equal(t, "https://bump.sh", in.BumpURL)
	assert.False(t, in.FailOnBreaking)
}

func TestLoadFromActionInputs(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_FILE", "openapi.yml")
	t.Setenv("INPUT_DOC", "my-doc")
	t.Setenv("INPUT_HUB", "my-hub")
	t.Setenv("INPUT_BRANCH", "v2")
	t.Setenv("INPUT_OVERLAY", "a.yml, b.yml")
	t.Setenv("INPUT_TOKEN", "secret")
	t.Setenv("INPUT_COMMAND", "diff")
	t.Setenv("INPUT_FAIL_ON_BREAKING", "true")
	t.Setenv("INPUT_GITHUB-TOKEN", "ghs_token")

	v, err := NewViper(nil)
	require.NoError(t, err)
	in := Load(v)

	assert.Equal(t, "openapi.yml", in.File)
	assert.Equal(t, "my-doc", in.Doc)
	assert.Equal(t, "my-hub", in.Hub)
	assert.Equal(t, "v2", in.Branch)
	assert.Equal(t, []string{"a.yml", "b.yml"}, in.Overlays)
	assert.Equal(t, "secret", in.Token)
	assert.Equal(t, CommandDiff, in.Command)
	assert.True(t, in.FailOnBreaking)
	assert.Equal(t, "ghs_token", in.GitHubToken)
}

func TestLoadFallbackEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BUMP_TOKEN", "from-bump")
	t.Setenv("GITHUB_TOKEN", "from-github")
	t.Setenv("BUMP_URL", "https://staging.bump.sh")

	v, err := NewViper(nil)
	require.NoError(t, err)
	in := Load(v)

	assert.Equal(t, "from-bump", in.Token)
	assert.Equal(t, "from-github", in.GitHubToken)
	assert.Equal(t, "https://staging.bump.sh", in.BumpURL)
}

func TestActionInputBeatsFallbackEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_TOKEN", "from-input")
	t.Setenv("BUMP_TOKEN", "from-bump")

	v, err := NewViper(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-input", Load(v).Token)
}

func TestFlagsBeatEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_FILE", "env.yml")
	t.Setenv("INPUT_DOC", "env-doc")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--file", "flag.yml", "--fail-on-breaking", "--overlay", "o.yml"}))

	v, err := NewViper(fs)
	require.NoError(t, err)
	in := Load(v)

	assert.Equal(t, "flag.yml", in.File)
	assert.Equal(t, "env-doc", in.Doc, "unset flag falls back to env")
	assert.True(t, in.FailOnBreaking)
	assert.Equal(t, []string{"o.yml"}, in.Overlays)
}

func TestUnsetFlagKeepsDefault(t *testing.T) {
	clearEnv(t)
	fs := testFlags()
	require.NoError(t, fs.Parse(nil))

	v, err := NewViper(fs)
	require.NoError(t, err)
	in := Load(v)

	assert.Equal(t, "api-contract.yml", in.File)
	assert.Equal(t, "text", in.Format)
}

func TestValidate(t *testing.T) {
	valid := func() Inputs {
		in := Default()
		in.Doc = "my-doc"
		in.Token = "secret"
		return in
	}

	tests := []struct {
		name    string
		mutate  func(*Inputs)
		wantErr error
	}{
		{"valid deploy", func(*Inputs) {}, nil},
		{"hub only", func(in *Inputs) { in.Doc, in.Hub = "", "my-hub" }, nil},
		{"unknown command", func(in *Inputs) { in.Command = "publish" }, ErrUnknownCommand},
		{"unknown format", func(in *Inputs) { in.Format = "sarif" }, ErrUnknownFormat},
		{"missing file", func(in *Inputs) { in.File = "" }, ErrMissingFile},
		{"missing token", func(in *Inputs) { in.Token = "" }, ErrMissingToken},
		{"missing doc and hub", func(in *Inputs) { in.Doc = "" }, ErrMissingDocOrHub},
		{"dry-run needs token", func(in *Inputs) { in.Command, in.Token = CommandDryRun, "" }, ErrMissingToken},
		{"diff without credentials", func(in *Inputs) { in.Command, in.Token, in.Doc = CommandDiff, "", "" }, nil},
		{"preview without credentials", func(in *Inputs) { in.Command, in.Token, in.Doc = CommandPreview, "", "" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestValidateHints(t *testing.T) {
	in := Default()
	in.Command = "publish"
	err := in.Validate()
	require.Error(t, err)
	assert.Contains(t, errors.GetAllHints(err)[0], "deploy, dry-run, validate, preview, diff")
}

func TestSplitComma(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", nil},
		{"single value", "foo", []string{"foo"}},
		{"multiple values", "a,b,c", []string{"a", "b", "c"}},
		{"whitespace trimmed", " a , b , c ", []string{"a", "b", "c"}},
		{"empty parts skipped", "a,,b", []string{"a", "b"}},
		{"all empty", ",,,", nil},
		{"trailing comma", "a,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitComma(tt.input))
		})
	}
}

func TestSecrets(t *testing.T) {
	in := Default()
	assert.Empty(t, in.Secrets())

	in.Token = "a"
	in.GitHubToken = "b"
	assert.Equal(t, []string{"a", "b"}, in.Secrets())
}
