package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/llc-launcher/internal/logger"
)

// ErrDirectToolLaunch is returned when the tool copy runs without the
// environment the launcher hands over.
var ErrDirectToolLaunch = errors.New(EnvLauncherPath + " is not set")

// ProcessFinder looks a process up by id and returns nil when it is gone.
type ProcessFinder func(pid int) (ps.Process, error)

// CompleteOptions are inputs accepted by Complete.
type CompleteOptions struct {
	// SelfPath is the running tool copy.
	SelfPath string
	// LauncherPath is the launcher binary to overwrite.
	LauncherPath string
	// ParentPID is the launcher process id; zero skips the wait.
	ParentPID int
	// Delay is waited before anything else; defaults to DefaultHandoffDelay.
	Delay time.Duration
	// ParentWait bounds the wait for ParentPID; defaults to DefaultParentWait.
	ParentWait time.Duration
	// FindProcess defaults to ps.FindProcess.
	FindProcess ProcessFinder
}

// CompleteOptionsFromEnv reads the launcher location and process id handed
// over by Handoff.
func CompleteOptionsFromEnv(selfPath string) (*CompleteOptions, error) {
	launcherPath := os.Getenv(EnvLauncherPath)
	if launcherPath == "" {
		return nil, ErrDirectToolLaunch
	}

	opts := &CompleteOptions{
		SelfPath:     selfPath,
		LauncherPath: launcherPath,
	}

	if raw := os.Getenv(EnvLauncherPID); raw != "" {
		pid, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvLauncherPID, err)
		}

		opts.ParentPID = pid
	}

	return opts, nil
}

// Complete copies the tool back over the launcher binary once the launcher
// has exited, so the next start runs the updated build directly.
func Complete(ctx context.Context, opts *CompleteOptions) error {
	ctx = logger.WithName(ctx, "self-update")

	if opts == nil || opts.LauncherPath == "" {
		return ErrDirectToolLaunch
	}

	if opts.SelfPath == "" {
		return errSelfPathRequired
	}

	if canonical(opts.SelfPath) == canonical(opts.LauncherPath) {
		logger.Info(ctx, "Tool copy is the launcher itself, nothing to copy back")

		return nil
	}

	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultHandoffDelay
	}

	if err := sleep(ctx, delay); err != nil {
		return err
	}

	if err := waitForExit(ctx, opts); err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Clean(opts.SelfPath))
	if err != nil {
		return fmt.Errorf("read tool executable: %w", err)
	}

	if err = replaceExecutable(ctx, opts.LauncherPath, data); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Launcher executable updated", "path", opts.LauncherPath)

	return nil
}

// waitForExit polls the process table until the launcher is gone.
func waitForExit(ctx context.Context, opts *CompleteOptions) error {
	if opts.ParentPID <= 0 {
		return nil
	}

	find := opts.FindProcess
	if find == nil {
		find = ps.FindProcess
	}

	limit := opts.ParentWait
	if limit <= 0 {
		limit = DefaultParentWait
	}

	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	for {
		process, err := find(opts.ParentPID)
		if err != nil {
			return fmt.Errorf("look up launcher process: %w", err)
		}

		if process == nil {
			return nil
		}

		logger.DebugKV(ctx, "Waiting for launcher to exit", "pid", opts.ParentPID, "executable", process.Executable())

		if err = sleep(ctx, parentPollInterval); err != nil {
			return fmt.Errorf("launcher process %d did not exit: %w", opts.ParentPID, err)
		}
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
