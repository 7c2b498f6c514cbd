package integrations

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"serena-mcp/internal/credentials"
	"serena-mcp/internal/integrations/upstream"
	"serena-mcp/internal/models"
	integration_models "serena-mcp/internal/models/integrations"
)

const (
	// DefaultGithubAPIURL is the public GitHub REST API.
	DefaultGithubAPIURL = "https://api.github.com"
	// DefaultBaseBranch is used when a call doesn't name a base branch.
	DefaultBaseBranch = "main"

	githubAPIVersion = "2022-11-28"
	userAgent        = "serena-mcp"
)

// Ensure GithubIntegration implements the Integration interface.
var _ Integration = (*GithubIntegration)(nil)

// GithubIntegration builds GitHub REST requests and runs them through the upstream client.
type GithubIntegration struct {
	client    *upstream.Client
	creds     credentials.Provider
	baseURL   string
	tokenName string
}

// NewGithubIntegration creates a GitHub helper. Empty baseURL and tokenName fall back to defaults.
func NewGithubIntegration(client *upstream.Client, creds credentials.Provider, baseURL, tokenName string) *GithubIntegration {
	if baseURL == "" {
		baseURL = DefaultGithubAPIURL
	}
	if tokenName == "" {
		tokenName = credentials.GithubTokenEnv
	}
	return &GithubIntegration{
		client:    client,
		creds:     creds,
		baseURL:   strings.TrimRight(baseURL, "/"),
		tokenName: tokenName,
	}
}

// CredentialName implements Integration.
func (g *GithubIntegration) CredentialName() string {
	return g.tokenName
}

func (g *GithubIntegration) headers(ctx context.Context) (map[string]string, error) {
	token, err := g.creds.Token(ctx, g.tokenName)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"Authorization":        "Bearer " + token,
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": githubAPIVersion,
		"User-Agent":           userAgent,
	}, nil
}

// repoURL joins escaped path segments under /repos/{owner}/{repo}.
func (g *GithubIntegration) repoURL(owner, repo string, segments ...string) string {
	parts := []string{g.baseURL, "repos", url.PathEscape(owner), url.PathEscape(repo)}
	for _, s := range segments {
		parts = append(parts, escapePath(s))
	}
	return strings.Join(parts, "/")
}

// escapePath escapes each segment of a slash separated path, keeping the slashes.
func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// CreateBranch creates refs/heads/{NewBranch} at the current tip of Base.
// A 422 from GitHub means the ref already exists and is reported as success.
func (g *GithubIntegration) CreateBranch(ctx context.Context, req integration_models.BranchRequest) (*models.BranchResponse, error) {
	headers, err := g.headers(ctx)
	if err != nil {
		return nil, err
	}
	base := req.Base
	if base == "" {
		base = DefaultBaseBranch
	}

	refResp, err := g.client.Do(ctx, &upstream.Request{
		Target:  "github",
		Method:  http.MethodGet,
		URL:     g.repoURL(req.Owner, req.Repo, "git/ref/heads", base),
		Headers: headers,
	})
	if err != nil {
		return nil, err
	}
	if refResp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{
			Service:    "github",
			StatusCode: refResp.StatusCode,
			Message:    fmt.Sprintf("Unable to read base branch (%s)", base),
			Body:       refResp.Text(),
		}
	}

	var ref struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	if err := refResp.Decode(&ref); err != nil || ref.Object.SHA == "" {
		return nil, &UpstreamError{
			Service:    "github",
			StatusCode: refResp.StatusCode,
			Message:    fmt.Sprintf("Unexpected ref payload for base branch (%s)", base),
			Body:       refResp.Text(),
		}
	}
	sha := ref.Object.SHA

	createResp, err := g.client.Do(ctx, &upstream.Request{
		Target: "github",
		Method: http.MethodPost,
		URL:    g.repoURL(req.Owner, req.Repo, "git/refs"),
		Body: map[string]string{
			"ref": "refs/heads/" + req.NewBranch,
			"sha": sha,
		},
		Headers: headers,
	})
	if err != nil {
		return nil, err
	}

	switch createResp.StatusCode {
	case http.StatusCreated:
		log.Printf("[GithubIntegration] CreateBranch: created %s/%s@%s from %s (%s)", req.Owner, req.Repo, req.NewBranch, base, sha)
	case http.StatusUnprocessableEntity:
		log.Printf("[GithubIntegration] CreateBranch: %s/%s@%s already exists", req.Owner, req.Repo, req.NewBranch)
	default:
		return nil, &UpstreamError{
			Service:    "github",
			StatusCode: createResp.StatusCode,
			Message:    "GitHub error",
			Body:       createResp.Text(),
		}
	}

	return &models.BranchResponse{
		Success:       true,
		Branch:        req.NewBranch,
		BaseSHA:       sha,
		AlreadyExists: createResp.StatusCode == http.StatusUnprocessableEntity,
	}, nil
}

// UpsertFile creates or updates a single file on a branch.
func (g *GithubIntegration) UpsertFile(ctx context.Context, req integration_models.FileUpsertRequest) (*models.FileResult, error) {
	headers, err := g.headers(ctx)
	if err != nil {
		return nil, err
	}
	return g.upsertFile(ctx, headers, req)
}

// upsertFile reads the file's current sha first so an existing file is updated instead of
// rejected as a conflicting create. Any non-200 read means the file is created.
func (g *GithubIntegration) upsertFile(ctx context.Context, headers map[string]string, req integration_models.FileUpsertRequest) (*models.FileResult, error) {
	contentsURL := g.repoURL(req.Owner, req.Repo, "contents", req.Path)

	current, err := g.client.Do(ctx, &upstream.Request{
		Target:  "github",
		Method:  http.MethodGet,
		URL:     contentsURL,
		Query:   url.Values{"ref": []string{req.Branch}},
		Headers: headers,
	})
	if err != nil {
		return nil, err
	}

	var sha string
	if current.StatusCode == http.StatusOK {
		var existing struct {
			SHA string `json:"sha"`
		}
		if err := current.Decode(&existing); err == nil {
			sha = existing.SHA
		}
	}

	content := req.Content
	if !req.ContentEncoded {
		content = base64.StdEncoding.EncodeToString([]byte(req.Content))
	}
	message := req.Message
	if message == "" {
		message = "Update " + req.Path
	}

	payload := map[string]string{
		"message": message,
		"content": content,
		"branch":  req.Branch,
	}
	if sha != "" {
		payload["sha"] = sha
	}

	resp, err := g.client.Do(ctx, &upstream.Request{
		Target:  "github",
		Method:  http.MethodPut,
		URL:     contentsURL,
		Body:    payload,
		Headers: headers,
	})
	if err != nil {
		return nil, err
	}

	return &models.FileResult{
		Path:       req.Path,
		Success:    resp.OK(),
		StatusCode: resp.StatusCode,
		Response:   resp.Body,
	}, nil
}

// CommitFiles writes each file in order, one request pair at a time. A failure on one
// file is recorded in its result and the remaining files are still written.
func (g *GithubIntegration) CommitFiles(ctx context.Context, owner, repo, branch string, files []integration_models.CommitFile) ([]models.FileResult, error) {
	headers, err := g.headers(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]models.FileResult, 0, len(files))
	for _, f := range files {
		res, err := g.upsertFile(ctx, headers, integration_models.FileUpsertRequest{
			Owner:          owner,
			Repo:           repo,
			Path:           f.Path,
			Branch:         branch,
			Message:        f.Message,
			Content:        f.Content,
			ContentEncoded: strings.EqualFold(f.Encoding, "base64"),
		})
		if err != nil {
			log.Printf("WARN [GithubIntegration] CommitFiles: %s/%s@%s %s failed: %v", owner, repo, branch, f.Path, err)
			results = append(results, models.FileResult{Path: f.Path, Success: false, Error: err.Error()})
			continue
		}
		if !res.Success {
			log.Printf("WARN [GithubIntegration] CommitFiles: %s/%s@%s %s returned HTTP %d", owner, repo, branch, f.Path, res.StatusCode)
		}
		results = append(results, *res)
	}
	return results, nil
}

// CreatePullRequest opens a pull request and returns GitHub's response verbatim.
func (g *GithubIntegration) CreatePullRequest(ctx context.Context, req integration_models.PullRequestRequest) (*upstream.Response, error) {
	headers, err := g.headers(ctx)
	if err != nil {
		return nil, err
	}
	base := req.Base
	if base == "" {
		base = DefaultBaseBranch
	}

	return g.client.Do(ctx, &upstream.Request{
		Target: "github",
		Method: http.MethodPost,
		URL:    g.repoURL(req.Owner, req.Repo, "pulls"),
		Body: map[string]string{
			"title": req.Title,
			"head":  req.Head,
			"base":  base,
			"body":  req.Body,
		},
		Headers: headers,
	})
}
