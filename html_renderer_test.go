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
	"bytes"
	"testing"

	"github.com/blockmark/blockmark/internal/normhtml"
)

func renderHTMLString(source string) string {
	doc := Parse([]byte(source))
	var buf bytes.Buffer
	AppendHTML(&buf, doc)
	return buf.String()
}

func TestAppendHTMLBlocks(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "paragraph",
			source: "hello world",
			want:   "<p>hello world</p>\n",
		},
		{
			name:   "heading levels",
			source: "# one\n###### six\n",
			want:   "<h1>one</h1>\n<h6>six</h6>\n",
		},
		{
			name:   "thematic break",
			source: "***\n",
			want:   "<hr />\n",
		},
		{
			name:   "indented code block",
			source: "    foo\n    bar\n",
			want:   "<pre><code>foo\nbar\n</code></pre>\n",
		},
		{
			name:   "fenced code block with language",
			source: "```go\nfmt.Println()\n```\n",
			want:   `<pre><code class="language-go">fmt.Println()` + "\n</code></pre>\n",
		},
		{
			name:   "fenced code block without info string",
			source: "```\nplain\n```\n",
			want:   "<pre><code>plain\n</code></pre>\n",
		},
		{
			name:   "block quote",
			source: "> quoted\n",
			want:   "<blockquote>\n<p>quoted\n</p>\n</blockquote>\n",
		},
		{
			name:   "html block passes through verbatim",
			source: "<div>\n<b>raw</b>\n</div>\n",
			want:   "<div>\n<b>raw</b>\n</div>\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := renderHTMLString(test.source)
			if got != test.want {
				t.Errorf("render(%q) = %q, want %q", test.source, got, test.want)
			}
		})
	}
}

// TestAppendHTMLTextEscaping checks the renderer contract's four-character
// escape set and confirms it deliberately stops short of apostrophes, unlike
// a general-purpose HTML escaper.
func TestAppendHTMLTextEscaping(t *testing.T) {
	got := renderHTMLString(`a "b" & <c> it's`)
	want := "<p>a &quot;b&quot; &amp; &lt;c&gt; it's</p>\n"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

// TestAppendHTMLNormalized diffs renderer output against a hand-written
// expectation after both pass through normhtml.NormalizeHTML, which
// tolerates the insignificant whitespace and attribute-ordering differences
// the CommonMark test suite itself ignores.
func TestAppendHTMLNormalized(t *testing.T) {
	source := "# Title\n\nSome *text* in a paragraph.\n\n> A quote\n> spanning lines.\n"
	want := "<h1>Title</h1><p>Some *text* in a paragraph.</p><blockquote><p>A quote\nspanning lines.</p></blockquote>"

	got := normhtml.NormalizeHTML([]byte(renderHTMLString(source)))
	wantNorm := normhtml.NormalizeHTML([]byte(want))
	if !bytes.Equal(got, wantNorm) {
		t.Errorf("normalized render =\n%s\nwant\n%s", got, wantNorm)
	}
}

func TestLanguageToken(t *testing.T) {
	tests := []struct {
		info string
		want string
	}{
		{"go", "go"},
		{"go extra stuff", "go"},
		{"go\tstuff", "go"},
		{"", ""},
	}
	for _, test := range tests {
		got := string(languageToken([]byte(test.info)))
		if got != test.want {
			t.Errorf("languageToken(%q) = %q, want %q", test.info, got, test.want)
		}
	}
}
