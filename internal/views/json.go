/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */

// Package views renders report results to the output directory as JSON
// snapshots and xlsx sheets.
package views

import (
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
)

// SaveJSON writes v pretty-printed to <dir>/<name>.json and returns the path.
func SaveJSON(dir, name string, v any) (string, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return "", fmt.Errorf("views: create output dir: %w", err)
    }
    b, err := json.MarshalIndent(v, "", "  ")
    if err != nil {
        return "", fmt.Errorf("views: marshal %s: %w", name, err)
    }
    path := filepath.Join(dir, name+".json")
    if err := os.WriteFile(path, b, 0o644); err != nil {
        return "", fmt.Errorf("views: write %s: %w", path, err)
    }
    return path, nil
}

// ClearDir removes every generated file from dir, keeping .gitkeep.
func ClearDir(dir string) (int, error) {
    entries, err := os.ReadDir(dir)
    if err != nil {
        if os.IsNotExist(err) {
            return 0, nil
        }
        return 0, fmt.Errorf("views: read output dir: %w", err)
    }
    removed := 0
    for _, e := range entries {
        if e.Name() == ".gitkeep" {
            continue
        }
        if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
            return removed, fmt.Errorf("views: remove %s: %w", e.Name(), err)
        }
        removed++
    }
    return removed, nil
}
