package services

import (
	"context"
	"fmt"

	"serena-mcp/internal/models"
	integration_models "serena-mcp/internal/models/integrations"
)

func (d *Dispatcher) createBranch(ctx context.Context, params Params) (interface{}, error) {
	owner, repo, err := params.Repository()
	if err != nil {
		return nil, err
	}
	newBranch, err := params.RequireString("new_branch")
	if err != nil {
		return nil, err
	}

	resp, err := d.github.CreateBranch(ctx, integration_models.BranchRequest{
		Owner:     owner,
		Repo:      repo,
		Base:      params.String("base"),
		NewBranch: newBranch,
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (d *Dispatcher) commitFiles(ctx context.Context, params Params) (interface{}, error) {
	owner, repo, err := params.Repository()
	if err != nil {
		return nil, err
	}
	branch, err := params.RequireString("branch")
	if err != nil {
		return nil, err
	}
	if !params.Has("files") {
		return nil, missingParam("files")
	}

	var files []integration_models.CommitFile
	if err := params.Decode("files", &files); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: parameter 'files' must contain at least one file", ErrValidation)
	}
	for i, f := range files {
		if f.Path == "" {
			return nil, fmt.Errorf("%w: files[%d] is missing 'path'", ErrValidation, i)
		}
	}

	results, err := d.github.CommitFiles(ctx, owner, repo, branch, files)
	if err != nil {
		return nil, err
	}

	allOK := true
	for _, r := range results {
		if !r.Success {
			allOK = false
			break
		}
	}
	return &models.CommitFilesResponse{Success: allOK, Branch: branch, Results: results}, nil
}

func (d *Dispatcher) openPullRequest(ctx context.Context, params Params) (interface{}, error) {
	owner, repo, err := params.Repository()
	if err != nil {
		return nil, err
	}
	head, err := params.RequireString("head")
	if err != nil {
		return nil, err
	}
	title, err := params.RequireString("title")
	if err != nil {
		return nil, err
	}

	resp, err := d.github.CreatePullRequest(ctx, integration_models.PullRequestRequest{
		Owner: owner,
		Repo:  repo,
		Head:  head,
		Base:  params.String("base"),
		Title: title,
		Body:  params.String("body"),
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
