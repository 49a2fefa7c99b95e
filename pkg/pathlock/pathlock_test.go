// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package pathlock

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestAcquireReleaseRoundTrip(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "res")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	h, err := Acquire(ctx, target)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := os.Stat(target + "-gitws.lock"); err != nil {
		t.Fatalf("lock file should exist while held: %v", err)
	}
	h.Release()
	if _, err := os.Stat(target + "-gitws.lock"); !os.IsNotExist(err) {
		t.Fatalf("lock file should be removed after Release, stat err = %v", err)
	}
}

func TestAcquireSerializesConcurrentCallers(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "res")

	var active int32
	var maxActive int32
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			h, err := Acquire(ctx, target)
			if err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			n := atomic.AddInt32(&active, 1)
			for {
				old := atomic.LoadInt32(&maxActive)
				if n <= old || atomic.CompareAndSwapInt32(&maxActive, old, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			h.Release()
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Fatalf("expected at most 1 concurrent holder, observed %d", maxActive)
	}
}

func TestAtomicUpdateCreatesOnSuccess(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "res")

	err := AtomicUpdate(context.Background(), target, func(tmp string) error {
		return os.WriteFile(tmp, []byte("hello"), 0o644)
	})
	if err != nil {
		t.Fatalf("AtomicUpdate: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading target: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("target content = %q, want %q", data, "hello")
	}
}

func TestAtomicUpdateRemovesTempOnFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "res")

	wantErr := os.ErrPermission
	err := AtomicUpdate(context.Background(), target, func(tmp string) error {
		_ = os.WriteFile(tmp, []byte("partial"), 0o644)
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("AtomicUpdate error = %v, want %v", err, wantErr)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("target should not exist after failed update")
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		t.Fatalf("leftover entry after failed AtomicUpdate: %s", e.Name())
	}
}

func TestAtomicUpdatePreservesExistingContentForEditing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "res")
	if err := os.WriteFile(target, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := AtomicUpdate(context.Background(), target, func(tmp string) error {
		data, err := os.ReadFile(tmp)
		if err != nil {
			return err
		}
		return os.WriteFile(tmp, append(data, []byte("-v2")...), 0o644)
	})
	if err != nil {
		t.Fatalf("AtomicUpdate: %v", err)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "v1-v2" {
		t.Fatalf("target content = %q, want %q", data, "v1-v2")
	}
}
