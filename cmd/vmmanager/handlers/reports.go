package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vlabs/vmmanager/internal/labsync"
)

// ErrArchiveDisabled is returned by the report commands without an archive.
var ErrArchiveDisabled = errors.New("run report archive is not configured (set archive.bucket)")

// ReportsList prints the archived report keys of a lab, given by URL or
// repository name.
func ReportsList(ctx context.Context, configPath, lab string) error {
	rt, err := newRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	if rt.archiver == nil {
		return ErrArchiveDisabled
	}

	keys, err := rt.archiver.List(ctx, labsync.RepoName(lab))
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	if len(keys) == 0 {
		fmt.Println("No reports found.")
		return nil
	}
	for _, k := range keys {
		fmt.Println(k)
	}
	return nil
}

// ReportsShow prints one archived report.
func ReportsShow(ctx context.Context, configPath, key string) error {
	rt, err := newRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	if rt.archiver == nil {
		return ErrArchiveDisabled
	}

	r, err := rt.archiver.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}

	fmt.Printf("Run:      %s\n", r.RunID)
	fmt.Printf("Lab:      %s\n", r.URL)
	if r.Version != "" {
		fmt.Printf("Version:  %s\n", r.Version)
	}
	fmt.Printf("Repo:     %s\n", r.RepoName)
	if r.Commit != "" {
		fmt.Printf("Commit:   %s\n", r.Commit)
	}
	fmt.Printf("Result:   %s\n", r.Result)
	if r.Stage != "" {
		fmt.Printf("Stage:    %s\n", r.Stage)
		fmt.Printf("Reason:   %s\n", r.Reason)
	}
	fmt.Printf("Started:  %s\n", r.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("Duration: %s\n", (time.Duration(r.DurationMS) * time.Millisecond).String())
	return nil
}
