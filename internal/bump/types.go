package bump

// DiffResult is a computed API diff. An empty Markdown means the change has no
// structural impact, only content.
type DiffResult struct {
	ID        string `json:"id"`
	Markdown  string `json:"markdown,omitempty"`
	PublicURL string `json:"public_url,omitempty"`
	Breaking  bool   `json:"breaking"`
}

// Target names the documentation an operation applies to. Doc and Hub may
// be empty depending on the operation.
type Target struct {
	Doc    string
	Hub    string
	Branch string
}

// Definition is an API definition read from disk, with the overlays to apply
// on top of it.
type Definition struct {
	Path     string
	Content  string
	Overlays []string
}

// DeployRequest describes a deploy or a dry-run validation.
type DeployRequest struct {
	Target     Target
	Definition Definition
}

// DiffRequest describes a diff. Without a Previous definition the diff is
// computed against the deployed documentation of Target.
type DiffRequest struct {
	Target   Target
	Previous *Definition
	Current  Definition
	Expires  string
}

// Version is a deployed (or validated) documentation version.
type Version struct {
	ID           string `json:"id"`
	DocPublicURL string `json:"doc_public_url,omitempty"`
}

// Preview is a temporary public rendering of a definition.
type Preview struct {
	ID        string `json:"id"`
	PublicURL string `json:"public_url"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type versionPayload struct {
	Documentation           string   `json:"documentation,omitempty"`
	Hub                     string   `json:"hub,omitempty"`
	BranchName              string   `json:"branch_name,omitempty"`
	AutoCreateDocumentation bool     `json:"auto_create_documentation,omitempty"`
	Definition              string   `json:"definition"`
	Overlays                []string `json:"overlays,omitempty"`
	Unpublished             bool     `json:"unpublished,omitempty"`
	ExpiresAt               string   `json:"expires_at,omitempty"`
}

type diffPayload struct {
	PreviousDefinition string   `json:"previous_definition"`
	PreviousOverlays   []string `json:"previous_overlays,omitempty"`
	Definition         string   `json:"definition"`
	Overlays           []string `json:"overlays,omitempty"`
	ExpiresAt          string   `json:"expires_at,omitempty"`
}

type previewPayload struct {
	Definition string   `json:"definition"`
	Overlays   []string `json:"overlays,omitempty"`
}

// diffResponse is a polled diff. /diffs answers with the plain field names,
// unpublished /versions with diff_ prefixed ones.
type diffResponse struct {
	ID            string `json:"id"`
	Markdown      string `json:"markdown"`
	PublicURL     string `json:"public_url"`
	Breaking      bool   `json:"breaking"`
	DiffMarkdown  string `json:"diff_markdown"`
	DiffSummary   string `json:"diff_summary"`
	DiffPublicURL string `json:"diff_public_url"`
	DiffBreaking  bool   `json:"diff_breaking"`
}

// result maps the response onto a DiffResult, or nil when it carries no diff.
func (r diffResponse) result() *DiffResult {
	res := DiffResult{
		ID:        r.ID,
		Markdown:  firstNonEmpty(r.Markdown, r.DiffMarkdown, r.DiffSummary),
		PublicURL: firstNonEmpty(r.PublicURL, r.DiffPublicURL),
		Breaking:  r.Breaking || r.DiffBreaking,
	}
	if res.Markdown == "" && res.PublicURL == "" && !res.Breaking {
		return nil
	}
	return &res
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type createdResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
