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
	"os"

	"github.com/blockmark/blockmark"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events <file>",
	Short: "Dump the raw block-event stream for a file",
	Long: `events prints one line per Begin, End, Text, Html, and ThematicBreak
event in the order the block parser emits them, giving the namesake
"block dump" view of a document's structure.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(command *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	return dumpEvents(command.OutOrStdout(), source)
}

func dumpEvents(w io.Writer, source []byte) error {
	doc := blockmark.Parse(source)
	it := doc.Events()
	for {
		ev, ok := it.Next()
		if !ok {
			return nil
		}
		var line string
		switch ev.Kind {
		case blockmark.BeginEvent, blockmark.EndEvent:
			line = fmt.Sprintf("%s %s", ev.Kind, tagString(ev.Tag))
		case blockmark.TextEvent, blockmark.HTMLEvent:
			line = fmt.Sprintf("%s %q", ev.Kind, ev.Text)
		case blockmark.ThematicBreakEvent:
			line = ev.Kind.String()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
}

func tagString(tag blockmark.Tag) string {
	if tag.Kind == blockmark.HeadingTag {
		return fmt.Sprintf("%s(%s)", tag.Kind, tag.Level)
	}
	if tag.Kind == blockmark.FencedCodeBlockTag {
		return fmt.Sprintf("%s(%q)", tag.Kind, tag.Info)
	}
	return tag.Kind.String()
}
