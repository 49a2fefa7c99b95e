// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gwerrors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		wantIs error
	}{
		{
			name:   "wrap with target",
			err:    errors.New("original error"),
			target: ErrNoMain,
			wantIs: ErrNoMain,
		},
		{
			name:   "nil err returns target",
			err:    nil,
			target: ErrNoMain,
			wantIs: ErrNoMain,
		},
		{
			name:   "nil target returns err",
			err:    errors.New("original"),
			target: nil,
			wantIs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.target)
			if tt.wantIs != nil && !Is(got, tt.wantIs) {
				t.Errorf("Wrap() error should match %v", tt.wantIs)
			}
		})
	}
}

func TestWrapWithMessage(t *testing.T) {
	original := errors.New("original error")
	wrapped := WrapWithMessage(original, "context")

	if wrapped == nil {
		t.Error("WrapWithMessage should return non-nil error")
	}
	if !Is(wrapped, original) {
		t.Error("wrapped error should match original")
	}
	if WrapWithMessage(nil, "context") != nil {
		t.Error("WrapWithMessage(nil) should return nil")
	}
}

func TestTypedErrorsImplementIs(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"ManifestNotFoundError", &ManifestNotFoundError{Path: "git-ws.toml"}},
		{"ManifestError", &ManifestError{Path: "git-ws.toml", Detail: "bad"}},
		{"GitCloneMissingError", &GitCloneMissingError{Path: "dep1"}},
		{"GitCloneNotCleanError", &GitCloneNotCleanError{Path: "dep1"}},
		{"FileRefConflictError", &FileRefConflictError{Dest: "a.txt"}},
		{"ProcessFailedError", &ProcessFailedError{Command: "git status", ExitCode: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Error() == "" {
				t.Fatalf("%s: Error() returned empty string", tc.name)
			}
			if !errors.Is(tc.err, tc.err) {
				t.Fatalf("%s: errors.Is(err, err) should be true", tc.name)
			}
		})
	}
}

func TestProcessFailedErrorUnwrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &ProcessFailedError{Command: "git fetch", ExitCode: 1, Cause: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("ProcessFailedError should unwrap to its cause")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		ErrUninitialized, ErrAlreadyInitialized, ErrWorkspaceNotEmpty, ErrOutsideWorkspace,
		ErrInvalidConfigurationFile, ErrInvalidConfigurationLoc, ErrInvalidConfigurationOpt,
		ErrInvalidConfigurationValue, ErrManifestExist, ErrIncompatibleFormat, ErrNoAbsURL,
		ErrNoGit, ErrGitCloneMissingOrig, ErrGitTagExists, ErrFileRefModified, ErrNoMain, ErrNotEmpty,
	}
	seen := map[error]bool{}
	for _, e := range all {
		if seen[e] {
			t.Fatalf("duplicate sentinel error: %v", e)
		}
		seen[e] = true
	}
}
