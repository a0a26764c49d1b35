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
	"fmt"
	"io"
)

// RenderHTML writes an HTML rendering of doc's event stream to w. It is a
// collaborator of the core event projection, not part of it: the mapping
// from tags to markup lives entirely in this file.
func RenderHTML(w io.Writer, doc *Document) error {
	var buf bytes.Buffer
	AppendHTML(&buf, doc)
	_, err := w.Write(buf.Bytes())
	return err
}

// AppendHTML drains doc's event stream, appending its HTML rendering to
// dst. Begin/End pairs map to the standard block tags; Text is escaped for
// '"', '&', '<', '>'; Html passes through verbatim; ThematicBreak becomes
// a self-closing <hr />.
func AppendHTML(dst *bytes.Buffer, doc *Document) {
	it := doc.Events()
	for {
		ev, ok := it.Next()
		if !ok {
			return
		}
		switch ev.Kind {
		case BeginEvent:
			appendBeginTag(dst, ev.Tag)
		case EndEvent:
			appendEndTag(dst, ev.Tag)
		case TextEvent:
			escapeHTML(dst, ev.Text)
		case HTMLEvent:
			dst.Write(ev.Text)
		case ThematicBreakEvent:
			dst.WriteString("<hr />\n")
		}
	}
}

// AppendBeginTag and AppendEndTag expose the renderer's per-tag markup for
// consumers that walk a Document's event stream themselves and only need to
// customize the handling of one event kind (for example, escaping rather
// than passing through HTMLEvent text), without reimplementing the five
// tags' markup.
func AppendBeginTag(dst *bytes.Buffer, tag Tag) { appendBeginTag(dst, tag) }
func AppendEndTag(dst *bytes.Buffer, tag Tag)   { appendEndTag(dst, tag) }

// EscapeHTML appends src to dst with the renderer contract's four characters
// escaped. See AppendHTML for the exact set.
func EscapeHTML(dst *bytes.Buffer, src []byte) { escapeHTML(dst, src) }

func appendBeginTag(dst *bytes.Buffer, tag Tag) {
	switch tag.Kind {
	case ParagraphTag:
		dst.WriteString("<p>")
	case HeadingTag:
		fmt.Fprintf(dst, "<h%d>", tag.Level.Int())
	case IndentedCodeBlockTag:
		dst.WriteString("<pre><code>")
	case FencedCodeBlockTag:
		lang := languageToken(tag.Info)
		if len(lang) == 0 {
			dst.WriteString("<pre><code>")
			return
		}
		dst.WriteString(`<pre><code class="language-`)
		escapeHTML(dst, lang)
		dst.WriteString(`">`)
	case BlockQuoteTag:
		dst.WriteString("<blockquote>\n")
	}
}

func appendEndTag(dst *bytes.Buffer, tag Tag) {
	switch tag.Kind {
	case ParagraphTag:
		dst.WriteString("</p>\n")
	case HeadingTag:
		fmt.Fprintf(dst, "</h%d>\n", tag.Level.Int())
	case IndentedCodeBlockTag, FencedCodeBlockTag:
		dst.WriteString("</code></pre>\n")
	case BlockQuoteTag:
		dst.WriteString("</blockquote>\n")
	}
}

// languageToken returns the first whitespace-separated token of a fenced
// code block's info string, the fragment the renderer contract promotes to
// a "language-..." class.
func languageToken(info []byte) []byte {
	i := bytes.IndexAny(info, " \t")
	if i < 0 {
		return info
	}
	return info[:i]
}

// escapeHTML appends src to dst with '"', '&', '<', '>' replaced by their
// entity references. Unlike a general-purpose HTML escaper, it deliberately
// leaves apostrophes alone: the renderer contract names exactly four
// characters.
func escapeHTML(dst *bytes.Buffer, src []byte) {
	last := 0
	for i := 0; i < len(src); i++ {
		var esc string
		switch src[i] {
		case '"':
			esc = "&quot;"
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		default:
			continue
		}
		dst.Write(src[last:i])
		dst.WriteString(esc)
		last = i + 1
	}
	dst.Write(src[last:])
}
