// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package gwerrors defines the closed error taxonomy every core package
// surfaces at its boundary. Callers are expected to use errors.Is/errors.As
// against the sentinels and typed errors declared here rather than matching
// on message text.
package gwerrors

import (
	"errors"
	"fmt"
)

// Configuration / workspace state errors.
var (
	ErrUninitialized             = errors.New("workspace not initialized")
	ErrAlreadyInitialized        = errors.New("workspace already initialized")
	ErrWorkspaceNotEmpty         = errors.New("workspace directory is not empty")
	ErrOutsideWorkspace          = errors.New("path resolves outside the workspace root")
	ErrInvalidConfigurationFile  = errors.New("invalid configuration file")
	ErrInvalidConfigurationLoc   = errors.New("invalid configuration location")
	ErrInvalidConfigurationOpt   = errors.New("invalid configuration option")
	ErrInvalidConfigurationValue = errors.New("invalid configuration value")
)

// Manifest errors.
var (
	ErrManifestExist      = errors.New("manifest already exists")
	ErrIncompatibleFormat = errors.New("no manifest codec is compatible with this path")
)

// Resolution errors.
var ErrNoAbsURL = errors.New("relative URL cannot be resolved without a reference URL")

// Git / clone errors.
var (
	ErrNoGit               = errors.New("git executable not found")
	ErrGitCloneMissingOrig = errors.New("clone has no origin remote")
	ErrGitTagExists        = errors.New("tag already exists")
)

// File reference errors.
var ErrFileRefModified = errors.New("file reference destination was modified by the user")

// FileRefModifiedError reports that Dest was modified by the user and a
// non-forced update refuses to remove or overwrite it.
type FileRefModifiedError struct {
	Dest string
}

func (e *FileRefModifiedError) Error() string {
	return fmt.Sprintf("file reference destination %q was modified by the user", e.Dest)
}

func (e *FileRefModifiedError) Is(target error) bool {
	if target == ErrFileRefModified {
		return true
	}
	_, ok := target.(*FileRefModifiedError)
	return ok
}

// Other.
var (
	ErrNoMain  = errors.New("operation requires a main project")
	ErrNotEmpty = errors.New("path is a non-empty directory")
)

// ManifestNotFoundError reports that no manifest file exists at Path.
type ManifestNotFoundError struct {
	Path string
}

func (e *ManifestNotFoundError) Error() string {
	return fmt.Sprintf("manifest not found: %s", e.Path)
}

func (e *ManifestNotFoundError) Is(target error) bool {
	_, ok := target.(*ManifestNotFoundError)
	return ok
}

// ManifestError reports a parse or validation failure for the manifest at Path.
type ManifestError struct {
	Path   string
	Detail string
}

func (e *ManifestError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("manifest error: %s", e.Detail)
	}
	return fmt.Sprintf("manifest error in %s: %s", e.Path, e.Detail)
}

func (e *ManifestError) Is(target error) bool {
	_, ok := target.(*ManifestError)
	return ok
}

// GitCloneMissingError reports that an operation needed a clone that isn't
// present on disk at Path.
type GitCloneMissingError struct {
	Path string
}

func (e *GitCloneMissingError) Error() string {
	return fmt.Sprintf("clone missing at %s", e.Path)
}

func (e *GitCloneMissingError) Is(target error) bool {
	_, ok := target.(*GitCloneMissingError)
	return ok
}

// GitCloneNotCleanError reports that a clone at Path has local modifications
// that block the requested operation.
type GitCloneNotCleanError struct {
	Path string
}

func (e *GitCloneNotCleanError) Error() string {
	return fmt.Sprintf("clone not clean at %s", e.Path)
}

func (e *GitCloneNotCleanError) Is(target error) bool {
	_, ok := target.(*GitCloneNotCleanError)
	return ok
}

// FileRefConflictError reports two projects declaring the same destination.
type FileRefConflictError struct {
	Dest            string
	ExistingProject string
	NewProject      string
}

func (e *FileRefConflictError) Error() string {
	return fmt.Sprintf("file reference conflict at %q: already owned by %q, also declared by %q",
		e.Dest, e.ExistingProject, e.NewProject)
}

func (e *FileRefConflictError) Is(target error) bool {
	_, ok := target.(*FileRefConflictError)
	return ok
}

// ProcessFailedError wraps a failed subprocess invocation (typically git),
// carrying the command line and captured stderr for diagnostics.
type ProcessFailedError struct {
	Command  string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ProcessFailedError) Error() string {
	msg := fmt.Sprintf("command failed: %s (exit code %d)", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *ProcessFailedError) Unwrap() error { return e.Cause }

func (e *ProcessFailedError) Is(target error) bool {
	_, ok := target.(*ProcessFailedError)
	return ok
}

// Wrap annotates err with target as an additional Is() match, preserving
// err's message. If err is nil, target is returned unchanged (possibly nil).
func Wrap(err, target error) error {
	if err == nil {
		return target
	}
	if target == nil {
		return err
	}
	return &wrapped{err: err, target: target}
}

// WrapWithMessage wraps err with a contextual message while keeping it
// matchable via errors.Is against err itself. Returns nil if err is nil.
func WrapWithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Is reports whether err matches target, delegating to the standard errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

type wrapped struct {
	err    error
	target error
}

func (w *wrapped) Error() string { return w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }
func (w *wrapped) Is(target error) bool {
	return errors.Is(w.target, target)
}
