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
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/blockmark/blockmark"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var renderOutDir string

var renderCmd = &cobra.Command{
	Use:   "render [files...]",
	Short: "Render one or more Markdown files to HTML",
	Long: `render parses each file independently and writes its HTML rendering.

With a single file and no --out-dir, the HTML is written to stdout. With
multiple files, each file is parsed on its own goroutine (one parser per
buffer, the concurrency model blockmark's block scanner is designed
around) and, once all have finished, the results are written in argument
order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderOutDir, "out-dir", "", "write <name>.html per input file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func runRender(command *cobra.Command, args []string) error {
	if len(args) == 1 && renderOutDir == "" {
		html, err := renderFile(args[0])
		if err != nil {
			return err
		}
		_, err = command.OutOrStdout().Write(html)
		return err
	}

	g := new(errgroup.Group)
	results := make([][]byte, len(args))
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			html, err := renderFile(path)
			if err != nil {
				return err
			}
			results[i] = html
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range args {
		if renderOutDir != "" {
			name := filepath.Base(path)
			name = strings.TrimSuffix(name, filepath.Ext(name))
			outPath := filepath.Join(renderOutDir, name+".html")
			if err := os.WriteFile(outPath, results[i], 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			slog.Debug("rendered", "input", path, "output", outPath)
			continue
		}
		if _, err := command.OutOrStdout().Write(results[i]); err != nil {
			return err
		}
	}
	return nil
}

// renderFile parses path and renders it to HTML. When the raw_html config
// option is disabled, raw HTML blocks are escaped like any other text
// instead of passed through verbatim; blockmark.AppendHTML always passes
// them through, so that filtering is done here at the event-stream level
// rather than by changing the library's renderer contract.
func renderFile(path string) ([]byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc := blockmark.Parse(source)
	if cfg.RawHTML {
		var buf bytes.Buffer
		blockmark.AppendHTML(&buf, doc)
		return buf.Bytes(), nil
	}

	var buf bytes.Buffer
	it := doc.Events()
	for {
		ev, ok := it.Next()
		if !ok {
			break
		}
		switch ev.Kind {
		case blockmark.BeginEvent:
			blockmark.AppendBeginTag(&buf, ev.Tag)
		case blockmark.EndEvent:
			blockmark.AppendEndTag(&buf, ev.Tag)
		case blockmark.TextEvent, blockmark.HTMLEvent:
			blockmark.EscapeHTML(&buf, ev.Text)
		case blockmark.ThematicBreakEvent:
			buf.WriteString("<hr />\n")
		}
	}
	return buf.Bytes(), nil
}
