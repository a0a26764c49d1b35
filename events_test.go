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

package blockmark

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// eventSummary is a comparison-friendly projection of an Event: tests build
// the expected shape with the helpers below and diff it against the real
// event stream with cmp.Diff.
type eventSummary struct {
	Kind string
	Tag  string
	Text string
}

func begin(tag string) eventSummary { return eventSummary{Kind: "Begin", Tag: tag} }
func end(tag string) eventSummary   { return eventSummary{Kind: "End", Tag: tag} }
func text(s string) eventSummary    { return eventSummary{Kind: "Text", Text: s} }
func html(s string) eventSummary    { return eventSummary{Kind: "Html", Text: s} }

var thematicBreak = eventSummary{Kind: "ThematicBreak"}

func summarizeEvents(t *testing.T, source string) []eventSummary {
	t.Helper()
	doc := Parse([]byte(source))
	var out []eventSummary
	it := doc.Events()
	for {
		ev, ok := it.Next()
		if !ok {
			return out
		}
		s := eventSummary{Kind: ev.Kind.String()}
		switch ev.Kind {
		case BeginEvent, EndEvent:
			s.Tag = tagSummary(ev.Tag)
		case TextEvent, HTMLEvent:
			s.Text = string(ev.Text)
		}
		out = append(out, s)
	}
}

func tagSummary(tag Tag) string {
	switch tag.Kind {
	case HeadingTag:
		return fmt.Sprintf("Heading(%s)", tag.Level)
	case FencedCodeBlockTag:
		return fmt.Sprintf("FencedCodeBlock(%q)", tag.Info)
	default:
		return tag.Kind.String()
	}
}

// TestEventsLiteralScenarios ports the concrete scenarios enumerated in the
// grammar's testable-properties section: each is a literal input and its
// exact expected event stream.
func TestEventsLiteralScenarios(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []eventSummary
	}{
		{
			name:   "paragraphs separated by blank line",
			source: "abc\ndef\nghi\n\njkl",
			want: []eventSummary{
				begin("Paragraph"),
				text("abc\n"), text("def\n"), text("ghi\n"),
				end("Paragraph"),
				begin("Paragraph"),
				text("jkl"),
				end("Paragraph"),
			},
		},
		{
			name:   "ATX heading with closing hash and trailing newline",
			source: "## abc # \n",
			want: []eventSummary{
				begin("Heading(H2)"),
				text("abc"),
				end("Heading(H2)"),
			},
		},
		{
			name:   "thematic breaks in three styles",
			source: "***\n---\n___",
			want:   []eventSummary{thematicBreak, thematicBreak, thematicBreak},
		},
		{
			name:   "paragraph interrupted by thematic break",
			source: "Foo\n***\nbar",
			want: []eventSummary{
				begin("Paragraph"), text("Foo\n"), end("Paragraph"),
				thematicBreak,
				begin("Paragraph"), text("bar"), end("Paragraph"),
			},
		},
		{
			name:   "ATX heading with empty title and closing sequence",
			source: "## ##",
			want: []eventSummary{
				begin("Heading(H2)"),
				end("Heading(H2)"),
			},
		},
		{
			name:   "ATX rejected at seven hashes",
			source: "####### abc",
			want: []eventSummary{
				begin("Paragraph"),
				text("####### abc"),
				end("Paragraph"),
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := summarizeEvents(t, test.source)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("events for %q (-want +got):\n%s", test.source, diff)
			}
		})
	}
}

func TestEventsLineTerminators(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []eventSummary
	}{
		{
			name:   "LF",
			source: "a\nb",
			want:   []eventSummary{begin("Paragraph"), text("a\n"), text("b"), end("Paragraph")},
		},
		{
			name:   "CRLF",
			source: "a\r\nb",
			want:   []eventSummary{begin("Paragraph"), text("a\r\n"), text("b"), end("Paragraph")},
		},
		{
			name:   "lone CR",
			source: "a\rb",
			want:   []eventSummary{begin("Paragraph"), text("a\r"), text("b"), end("Paragraph")},
		},
		{
			name:   "no trailing terminator",
			source: "a",
			want:   []eventSummary{begin("Paragraph"), text("a"), end("Paragraph")},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := summarizeEvents(t, test.source)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("events for %q (-want +got):\n%s", test.source, diff)
			}
		})
	}
}

func TestEventsTabIndent(t *testing.T) {
	// A tab at the start of a line expands to 4 columns, the indented code
	// block threshold; " \t" (one space then a tab) also reaches exactly 4
	// columns, per the tab-stop rule.
	tests := []struct {
		name   string
		source string
	}{
		{"bare tab", "\tcode"},
		{"space then tab", " \tcode"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := summarizeEvents(t, test.source)
			want := []eventSummary{
				begin("IndentedCodeBlock"),
				text("code"),
				end("IndentedCodeBlock"),
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("events for %q (-want +got):\n%s", test.source, diff)
			}
		})
	}
}

func TestEventsThematicBreakWithInternalSpaces(t *testing.T) {
	got := summarizeEvents(t, " - - -")
	want := []eventSummary{thematicBreak}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestEventsIndentedCodeBlockTrailingBlanksTrimmed(t *testing.T) {
	got := summarizeEvents(t, "    foo\n\n\n    bar\n\n\n")
	want := []eventSummary{
		begin("IndentedCodeBlock"),
		text("foo\n"),
		text("\n"),
		text("\n"),
		text("bar\n"),
		end("IndentedCodeBlock"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestEventsHTMLBlockType7RequiresBlankLine(t *testing.T) {
	// "<a></a>" is two tags on one line, so it satisfies neither type 6
	// (not a block-level name) nor type 7 (the tag does not occupy the
	// whole line): it is ordinary paragraph text.
	got := summarizeEvents(t, "<a></a>\nfoo")
	want := []eventSummary{
		begin("Paragraph"),
		text("<a></a>\n"),
		text("foo"),
		end("Paragraph"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}

	// A lone "<a>" occupies its whole line, so it opens a type-7 HTML
	// block; without a blank line to close it, it swallows what follows.
	got = summarizeEvents(t, "<a>\nfoo")
	want = []eventSummary{
		html("<a>\n"),
		html("foo"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}

	// With a blank line in between, the HTML block closes before "foo".
	got = summarizeEvents(t, "<a>\n\nfoo")
	want = []eventSummary{
		html("<a>\n"),
		begin("Paragraph"),
		text("foo"),
		end("Paragraph"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestEventsBlockQuoteNesting(t *testing.T) {
	got := summarizeEvents(t, "> > foo\n> bar\nbaz")
	want := []eventSummary{
		begin("BlockQuote"),
		begin("BlockQuote"),
		begin("Paragraph"),
		text("foo\n"),
		text("bar\n"),
		end("Paragraph"),
		end("BlockQuote"),
		end("BlockQuote"),
		begin("Paragraph"),
		text("baz"),
		end("Paragraph"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestEventsFencedCodeBlockInfoString(t *testing.T) {
	got := summarizeEvents(t, "```go \nfmt.Println()\n```\n")
	want := []eventSummary{
		begin(`FencedCodeBlock("go")`),
		text("fmt.Println()\n"),
		end(`FencedCodeBlock("go")`),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}
