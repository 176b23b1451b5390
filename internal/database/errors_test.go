// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package database

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingCloser struct {
	calls int
	err   error
}

func (c *countingCloser) Close() error {
	c.calls++
	return c.err
}

func TestCloseHelpers(t *testing.T) {
	t.Parallel()

	closeQuietly(nil)
	closeWithLog(nil, "nothing")

	c := &countingCloser{err: errors.New("boom")}
	closeQuietly(c)
	closeWithLog(c, "test")
	if c.calls != 2 {
		t.Errorf("Close called %d times, want 2", c.calls)
	}
}

func TestIsTransactionConflict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"conflict", errors.New("TransactionContext Error: Transaction conflict: cannot update"), true},
		{"update conflict", errors.New("Conflict on update!"), true},
		{"altered", errors.New("cannot update a table that has been altered"), true},
		{"other", errors.New("Constraint Error: CHECK constraint failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isTransactionConflict(tt.err); got != tt.want {
				t.Errorf("isTransactionConflict(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("retries conflicts", func(t *testing.T) {
		t.Parallel()
		attempts := 0
		err := withRetry(context.Background(), func(context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("Transaction conflict")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("withRetry() error = %v", err)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		t.Parallel()
		attempts := 0
		err := withRetry(context.Background(), func(context.Context) error {
			attempts++
			return errors.New("Transaction conflict")
		})
		if err == nil {
			t.Fatal("withRetry() should fail")
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		t.Parallel()
		sentinel := errors.New("constraint")
		attempts := 0
		err := withRetry(context.Background(), func(context.Context) error {
			attempts++
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("withRetry() error = %v, want %v", err, sentinel)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("stops on canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		<-ctx.Done()
		err := withRetry(ctx, func(context.Context) error {
			return errors.New("Transaction conflict")
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("withRetry() error = %v, want deadline exceeded", err)
		}
	})
}
