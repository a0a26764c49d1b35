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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestFencedCodeBlockClosesWhenQuoteAncestorDrops covers the case where a
// fenced code block is opened inside a block quote and a later line drops
// the '>' marker: the fence must close rather than absorb the un-quoted
// line as more code content.
func TestFencedCodeBlockClosesWhenQuoteAncestorDrops(t *testing.T) {
	got := summarizeEvents(t, "> ```\n> code\nplain\n")
	want := []eventSummary{
		begin("BlockQuote"),
		begin(`FencedCodeBlock("")`),
		text("code\n"),
		end(`FencedCodeBlock("")`),
		end("BlockQuote"),
		begin("Paragraph"),
		text("plain\n"),
		end("Paragraph"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

// TestIndentThresholdPreemptsATX confirms that 4 columns of indent takes the
// line down the indented-code-block path before ATX heading detection ever
// runs, since step dispatches on indent before trying '#'.
func TestIndentThresholdPreemptsATX(t *testing.T) {
	got := summarizeEvents(t, "    # not a heading\n")
	want := []eventSummary{
		begin("IndentedCodeBlock"),
		text("# not a heading\n"),
		end("IndentedCodeBlock"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}

	got = summarizeEvents(t, "   # still a heading\n")
	want = []eventSummary{
		begin("Heading(H1)"),
		text("still a heading"),
		end("Heading(H1)"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

// TestLazyContinuationDoesNotPromoteToSetext checks that a setext underline
// appearing on a lazily-continued line (one missing the block quote's own
// marker) does not retroactively turn the paragraph into a heading: only a
// fully-confirmed line can do that.
func TestLazyContinuationDoesNotPromoteToSetext(t *testing.T) {
	// "===" is not a thematic-break marker, so it isn't itself a paragraph
	// interrupt; lacking the quote's own '>', it is absorbed as a lazy
	// continuation line rather than promoting the paragraph to a heading.
	got := summarizeEvents(t, "> foo\n===\n")
	want := []eventSummary{
		begin("BlockQuote"),
		begin("Paragraph"),
		text("foo\n"),
		text("===\n"),
		end("Paragraph"),
		end("BlockQuote"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

// TestSetextHeadingPromotesConfirmedParagraph is the positive counterpart:
// a setext underline on a fully-confirmed line (no open containers to lose
// lazily) promotes the paragraph in place.
func TestSetextHeadingPromotesConfirmedParagraph(t *testing.T) {
	got := summarizeEvents(t, "Title\n=====\n")
	want := []eventSummary{
		begin("Heading(H1)"),
		text("Title"),
		end("Heading(H1)"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

// TestHTMLBlockType1To5ClosesOnSubstringMatch confirms the naive
// substring-anywhere-on-the-line closing rule: the closing marker need not
// be the only thing on its line.
func TestHTMLBlockType1To5ClosesOnSubstringMatch(t *testing.T) {
	got := summarizeEvents(t, "<script>\nvar x = 1;\n</script> trailing\nafter")
	want := []eventSummary{
		html("<script>\n"),
		html("var x = 1;\n"),
		html("</script> trailing\n"),
		begin("Paragraph"),
		text("after"),
		end("Paragraph"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}
