package services

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sort"
	"time"

	"serena-mcp/internal/integrations/upstream"
	"serena-mcp/internal/models"
	integration_models "serena-mcp/internal/models/integrations"
	"serena-mcp/internal/store"
)

// FunctionHandler executes one named function against decoded params.
type FunctionHandler func(ctx context.Context, params Params) (interface{}, error)

// CallObserver is notified around every dispatched call.
type CallObserver interface {
	CallStarted()
	ObserveCall(function, outcome string, elapsed time.Duration)
}

// GithubClient defines the GitHub operations the dispatcher needs.
type GithubClient interface {
	CreateBranch(ctx context.Context, req integration_models.BranchRequest) (*models.BranchResponse, error)
	CommitFiles(ctx context.Context, owner, repo, branch string, files []integration_models.CommitFile) ([]models.FileResult, error)
	CreatePullRequest(ctx context.Context, req integration_models.PullRequestRequest) (*upstream.Response, error)
}

// FlyClient defines the Fly operations the dispatcher needs.
type FlyClient interface {
	DeployApp(ctx context.Context, req integration_models.DeployRequest) (*upstream.Response, error)
}

// DispatcherDeps holds the collaborators of a Dispatcher. Github, Fly and Observer are optional.
type DispatcherDeps struct {
	Store     store.ConversationStore
	Github    GithubClient
	Fly       FlyClient
	Observer  CallObserver
	LogParams bool
}

// Dispatcher routes a function name to its handler.
type Dispatcher struct {
	store     store.ConversationStore
	github    GithubClient
	fly       FlyClient
	observer  CallObserver
	logParams bool
	functions map[string]FunctionHandler
}

// unsupportedLabel is the metrics label used for every unknown function name.
const unsupportedLabel = "unsupported"

// NewDispatcher builds the function table from the provided dependencies.
func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	d := &Dispatcher{
		store:     deps.Store,
		github:    deps.Github,
		fly:       deps.Fly,
		observer:  deps.Observer,
		logParams: deps.LogParams,
		functions: make(map[string]FunctionHandler),
	}

	d.functions["create_conversation"] = d.createConversation
	d.functions["get_conversation"] = d.getConversation
	d.functions["list_conversations"] = d.listConversations
	d.functions["add_message"] = d.addMessage
	d.functions["delete_conversation"] = d.deleteConversation

	if d.github != nil {
		d.functions["create_branch"] = d.createBranch
		d.functions["commit_files"] = d.commitFiles
		d.functions["open_pr"] = d.openPullRequest
	} else {
		log.Println("WARN [Dispatcher] NewDispatcher: no GitHub client configured, GitHub functions disabled")
	}

	if d.fly != nil {
		d.functions["deploy_fly"] = d.deployFly
	} else {
		log.Println("WARN [Dispatcher] NewDispatcher: no Fly client configured, deploy_fly disabled")
	}

	return d
}

// Functions returns the supported function names, sorted.
func (d *Dispatcher) Functions() []string {
	names := make([]string, 0, len(d.functions))
	for name := range d.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the named function. Expected failures come back as errors classified by
// Classify; a panic inside a function is recovered and reported as ErrInternal.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, params map[string]interface{}) (result interface{}, err error) {
	fn, ok := d.functions[name]
	label := name
	if !ok {
		label = unsupportedLabel
	}

	start := time.Now()
	if d.observer != nil {
		d.observer.CallStarted()
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("ERROR [Dispatcher] Dispatch: panic in %s: %v\n%s", name, rec, debug.Stack())
			result = nil
			err = fmt.Errorf("%w: %s failed unexpectedly", ErrInternal, name)
		}

		outcome := "success"
		if err != nil {
			kind, _ := Classify(err)
			outcome = string(kind)
			if kind == KindInternal {
				log.Printf("ERROR [Dispatcher] Dispatch: %s: %v", name, err)
			} else {
				log.Printf("WARN [Dispatcher] Dispatch: %s: %v", name, err)
			}
		}
		if d.observer != nil {
			d.observer.ObserveCall(label, outcome, time.Since(start))
		}
	}()

	if !ok {
		return nil, fmt.Errorf("%w: Function '%s' not supported", ErrUnsupportedFunction, name)
	}
	if params == nil {
		params = map[string]interface{}{}
	}
	if d.logParams {
		log.Printf("[Dispatcher] Dispatch: %s params=%s", name, redactParams(params))
	}
	return fn(ctx, Params(params))
}
