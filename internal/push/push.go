// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package push implements the upsert loop that moves parsed environment
// variables into a remote store. The loop is strictly sequential and never
// aborts on a per-item failure; every item produces a Result and the run
// ends with a Summary.
package push

import (
	"context"
	"log/slog"
	"strings"

	"git.sr.ht/~wombelix/env2params/internal/envfile"
)

// Store is the minimal surface the dispatcher needs from a backing store.
// Both SSM Parameter Store and Secrets Manager clients satisfy it.
type Store interface {
	// Name is a human-readable store name for logging and reporting.
	Name() string
	// ItemName builds the namespaced remote name for a key.
	ItemName(key string) string
	// Exists reports whether the named item already exists. A not-found
	// response from the backing service is (false, nil), not an error.
	Exists(ctx context.Context, name string) (bool, error)
	// Create creates a new item carrying the store's descriptive tags.
	Create(ctx context.Context, name, key, value string, sensitive bool) error
	// Update overwrites the value of an existing item without touching tags.
	Update(ctx context.Context, name, key, value string, sensitive bool) error
}

// Result is the outcome of pushing one variable.
type Result struct {
	Key       string
	Name      string
	Sensitive bool
	Created   bool
	Err       error
}

// Summary counts the outcomes of a run.
type Summary struct {
	Attempted int
	Created   int
	Updated   int
	Failed    int
}

// sensitiveMarkers classify a variable as requiring protected storage when
// one of them appears anywhere in the key, case-insensitive.
var sensitiveMarkers = []string{"password", "secret", "key", "token"}

// Sensitive reports whether a variable key names a value that should be
// stored in protected form.
func Sensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range sensitiveMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// All pushes every variable to the store in file order. For each item the
// store is probed first; existing items are updated, missing ones created.
// Per-item failures are recorded and logged, processing continues with the
// remaining items. The optional report callback is invoked once per item,
// right after its outcome is known.
func All(ctx context.Context, store Store, vars []envfile.Variable, report func(Result)) ([]Result, Summary) {
	results := make([]Result, 0, len(vars))
	var summary Summary

	slog.Info("Starting push", "store", store.Name(), "items", len(vars))

	for _, v := range vars {
		res := Result{
			Key:       v.Key,
			Name:      store.ItemName(v.Key),
			Sensitive: Sensitive(v.Key),
		}
		slog.Debug("Processing item", "name", res.Name, "sensitive", res.Sensitive)

		exists, err := store.Exists(ctx, res.Name)
		if err == nil {
			if exists {
				slog.Info("Item exists, updating", "name", res.Name)
				err = store.Update(ctx, res.Name, v.Key, v.Value, res.Sensitive)
			} else {
				slog.Info("Item does not exist, creating", "name", res.Name)
				err = store.Create(ctx, res.Name, v.Key, v.Value, res.Sensitive)
				if err == nil {
					res.Created = true
				}
			}
		}

		summary.Attempted++
		if err != nil {
			res.Err = err
			summary.Failed++
			slog.Error("Failed to push item", "name", res.Name, "error", err)
		} else if res.Created {
			summary.Created++
			slog.Info("Successfully created item", "name", res.Name)
		} else {
			summary.Updated++
			slog.Info("Successfully updated item", "name", res.Name)
		}

		results = append(results, res)
		if report != nil {
			report(res)
		}
	}

	slog.Info("Push completed",
		"store", store.Name(),
		"attempted", summary.Attempted,
		"created", summary.Created,
		"updated", summary.Updated,
		"failed", summary.Failed,
	)
	return results, summary
}
