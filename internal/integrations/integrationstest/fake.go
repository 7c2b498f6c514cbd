// Package integrationstest provides in-process fakes of the GitHub and Fly APIs
// for tests that exercise the integrations end to end.
package integrationstest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// GithubToken is the bearer token the fake GitHub accepts.
const GithubToken = "gh-test-token"

// FlyToken is the bearer token the fake Fly API accepts.
const FlyToken = "fly-test-token"

// Github is a minimal stateful fake of the GitHub REST endpoints used by the integrations.
type Github struct {
	*httptest.Server

	mu       sync.Mutex
	refs     map[string]string   // "owner/repo:branch" -> sha
	files    map[string]string   // "owner/repo:branch:path" -> sha
	failPuts map[string]int      // path -> status to return on PUT
	puts     []map[string]string // PUT payloads, in order
	pulls    []map[string]string // pull request payloads
	requests []string            // "METHOD path" in order
}

// NewGithub starts a fake GitHub. Call Close when done.
func NewGithub() *Github {
	g := &Github{
		refs:     make(map[string]string),
		files:    make(map[string]string),
		failPuts: make(map[string]int),
	}
	g.Server = httptest.NewServer(http.HandlerFunc(g.serve))
	return g
}

// SetRef makes branch of owner/repo resolve to sha.
func (g *Github) SetRef(repo, branch, sha string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refs[repo+":"+branch] = sha
}

// SetFile marks path as existing on branch with the given sha.
func (g *Github) SetFile(repo, branch, path, sha string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.files[repo+":"+branch+":"+path] = sha
}

// FailPut makes every PUT of path answer with status.
func (g *Github) FailPut(path string, status int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failPuts[path] = status
}

// Puts returns the recorded PUT payloads in request order.
func (g *Github) Puts() []map[string]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]map[string]string(nil), g.puts...)
}

// Pulls returns the recorded pull request payloads.
func (g *Github) Pulls() []map[string]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]map[string]string(nil), g.pulls...)
}

// Requests returns "METHOD path" for every request received.
func (g *Github) Requests() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.requests...)
}

// HasRef reports whether branch exists for repo.
func (g *Github) HasRef(repo, branch string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.refs[repo+":"+branch]
	return ok
}

func (g *Github) serve(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests = append(g.requests, r.Method+" "+r.URL.Path)

	if r.Header.Get("Authorization") != "Bearer "+GithubToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}

	// /repos/{owner}/{repo}/...
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/repos/"), "/", 3)
	if len(parts) < 3 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	repo := parts[0] + "/" + parts[1]
	rest := parts[2]

	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(rest, "git/ref/heads/"):
		branch := strings.TrimPrefix(rest, "git/ref/heads/")
		sha, ok := g.refs[repo+":"+branch]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ref":    "refs/heads/" + branch,
			"object": map[string]string{"sha": sha, "type": "commit"},
		})

	case r.Method == http.MethodPost && rest == "git/refs":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		branch := strings.TrimPrefix(body["ref"], "refs/heads/")
		if _, exists := g.refs[repo+":"+branch]; exists {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Reference already exists"})
			return
		}
		g.refs[repo+":"+branch] = body["sha"]
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"ref":    body["ref"],
			"object": map[string]string{"sha": body["sha"]},
		})

	case r.Method == http.MethodGet && strings.HasPrefix(rest, "contents/"):
		path := strings.TrimPrefix(rest, "contents/")
		sha, ok := g.files[repo+":"+r.URL.Query().Get("ref")+":"+path]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"path": path, "sha": sha})

	case r.Method == http.MethodPut && strings.HasPrefix(rest, "contents/"):
		path := strings.TrimPrefix(rest, "contents/")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		g.puts = append(g.puts, body)
		if status, fail := g.failPuts[path]; fail {
			writeJSON(w, status, map[string]string{"message": "write rejected"})
			return
		}
		key := repo + ":" + body["branch"] + ":" + path
		_, existed := g.files[key]
		g.files[key] = "sha-" + path
		status := http.StatusCreated
		if existed {
			status = http.StatusOK
		}
		writeJSON(w, status, map[string]interface{}{
			"content": map[string]string{"path": path, "sha": "sha-" + path},
		})

	case r.Method == http.MethodPost && rest == "pulls":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		g.pulls = append(g.pulls, body)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"number": len(g.pulls),
			"title":  body["title"],
			"head":   map[string]string{"ref": body["head"]},
			"base":   map[string]string{"ref": body["base"]},
		})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
}

// Fly is a fake of the Fly GraphQL endpoint that records deploy requests.
type Fly struct {
	*httptest.Server

	mu       sync.Mutex
	requests []map[string]interface{}
}

// NewFly starts a fake Fly API. Call Close when done.
func NewFly() *Fly {
	f := &Fly{}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	return f
}

// Requests returns the decoded GraphQL request bodies.
func (f *Fly) Requests() []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]interface{}(nil), f.requests...)
}

func (f *Fly) serve(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+FlyToken {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"errors": []map[string]string{{"message": "unauthorized"}},
		})
		return
	}

	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.requests = append(f.requests, body)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"deployImage": map[string]interface{}{
				"release": map[string]interface{}{"id": "rel_1", "status": "pending", "version": 7},
			},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
