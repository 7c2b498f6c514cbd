package integrations

// Request descriptors for proxy calls. They are validated and discarded per call.

// BranchRequest describes a branch to create from the tip of Base.
type BranchRequest struct {
	Owner     string
	Repo      string
	Base      string // defaults to "main"
	NewBranch string
}

// FileUpsertRequest describes a single create-or-update of a repository file.
type FileUpsertRequest struct {
	Owner   string
	Repo    string
	Path    string
	Branch  string
	Message string // commit message; defaults to "Update {path}"
	Content string
	// ContentEncoded marks Content as already base64 encoded.
	ContentEncoded bool
}

// CommitFile is one entry of a commit_files call.
type CommitFile struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Message  string `json:"message,omitempty"`
	Encoding string `json:"encoding,omitempty"` // "base64" if Content is already encoded
}

// PullRequestRequest describes a pull request to open.
type PullRequestRequest struct {
	Owner string
	Repo  string
	Head  string
	Base  string // defaults to "main"
	Title string
	Body  string
}

// DeployRequest describes an image deploy on the deploy platform.
type DeployRequest struct {
	AppName  string
	Image    string
	Strategy string // defaults to "IMMEDIATE"
}
