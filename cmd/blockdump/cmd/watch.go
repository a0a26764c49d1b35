// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render a file to HTML on every save",
	Long: `watch re-renders <file> to stdout once immediately, then again each
time the file is written, debounced by watch_debounce_ms so that a burst of
writes from an editor's save produces one render instead of several.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(command *cobra.Command, args []string) error {
	path := args[0]
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	out := command.OutOrStdout()
	if err := renderTo(out, path); err != nil {
		return err
	}

	debounce := time.Duration(cfg.WatchDebounceMS) * time.Millisecond
	if debounce <= 0 {
		debounce = 150 * time.Millisecond
	}

	var timer *time.Timer
	fire := make(chan struct{})
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() { fire <- struct{}{} })
		case <-fire:
			if err := renderTo(out, path); err != nil {
				slog.Error("render failed", "path", path, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)
		case <-command.Context().Done():
			return command.Context().Err()
		}
	}
}

func renderTo(w io.Writer, path string) error {
	html, err := renderFile(path)
	if err != nil {
		return err
	}
	_, err = w.Write(html)
	if err == nil {
		slog.Debug("rendered", "path", path)
	}
	return err
}
