// Package report archives lab test results as JSON documents in object
// storage, one object per run under <prefix>/<repo>/<run-id>.json.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/vlabs/vmmanager/internal/provisioning"
)

// ContentType of archived reports.
const ContentType = "application/json"

// unknownRepo replaces repository names that cannot form a key segment.
const unknownRepo = "_unknown"

// Report is the archived form of a provisioning.Result.
type Report struct {
	RunID      string    `json:"run_id"`
	URL        string    `json:"url"`
	Version    string    `json:"version,omitempty"`
	RepoName   string    `json:"repo_name"`
	Commit     string    `json:"commit,omitempty"`
	Result     string    `json:"result"`
	Stage      string    `json:"stage,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

// FromResult converts a pipeline result.
func FromResult(r provisioning.Result) Report {
	return Report{
		RunID:      r.RunID,
		URL:        r.Source.URL,
		Version:    r.Source.Version,
		RepoName:   r.RepoName,
		Commit:     r.Commit,
		Result:     r.String(),
		Stage:      string(r.Stage),
		Reason:     r.Reason,
		StartedAt:  r.StartedAt.UTC(),
		DurationMS: r.Duration.Milliseconds(),
	}
}

// Store is the object storage the Archiver writes to.
// Implemented by s3.Client.
type Store interface {
	PutObject(ctx context.Context, key, contentType string, data []byte) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// Archiver uploads run reports. It implements provisioning.Reporter.
type Archiver struct {
	store  Store
	prefix string
	log    logr.Logger
}

// NewArchiver creates an Archiver writing below prefix.
func NewArchiver(store Store, prefix string, log logr.Logger) *Archiver {
	return &Archiver{
		store:  store,
		prefix: strings.Trim(prefix, "/"),
		log:    log.WithName("report"),
	}
}

// Key returns the object key of a run.
func (a *Archiver) Key(repo, runID string) string {
	return path.Join(a.repoPrefix(repo), runID+".json")
}

func (a *Archiver) repoPrefix(repo string) string {
	if repo == "" || repo == "." || repo == ".." || strings.Contains(repo, "/") {
		repo = unknownRepo
	}
	if a.prefix == "" {
		return repo
	}
	return a.prefix + "/" + repo
}

// Report uploads the report of result.
func (a *Archiver) Report(ctx context.Context, result provisioning.Result) error {
	data, err := json.MarshalIndent(FromResult(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	key := a.Key(result.RepoName, result.RunID)
	if err := a.store.PutObject(ctx, key, ContentType, data); err != nil {
		return fmt.Errorf("failed to archive report: %w", err)
	}
	a.log.V(1).Info("Archived run report", "key", key)
	return nil
}

// List returns the report keys of a repository, oldest run first.
// Run ids are time-ordered, so key order is run order.
func (a *Archiver) List(ctx context.Context, repo string) ([]string, error) {
	keys, err := a.store.ListObjects(ctx, a.repoPrefix(repo)+"/")
	if err != nil {
		return nil, err
	}
	out := keys[:0]
	for _, k := range keys {
		if strings.HasSuffix(k, ".json") {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out, nil
}

// Get reads one report by key.
func (a *Archiver) Get(ctx context.Context, key string) (*Report, error) {
	data, err := a.store.GetObject(ctx, key)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", key, err)
	}
	return &r, nil
}
