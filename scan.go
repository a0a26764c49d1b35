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
	"strings"

	"golang.org/x/net/html/atom"
)

// tabStopSize is the column width a tab advances to the next multiple of.
const tabStopSize = 4

// codeBlockIndentLimit is the indent level (in columns) at which a line
// becomes an indented code block rather than continuation of a container.
const codeBlockIndentLimit = 4

// All scanners below are pure: (source, i) -> result. None mutate state or
// advance a cursor; the block parser (parser.go) interprets their results
// and decides how far to advance. This ordering — scan, then commit — is
// what lets the dispatch in step try constructs in order without
// undoing partial work.

func isLineEnding(b byte) bool {
	return b == '\n' || b == '\r'
}

// isNonLineEndingWhitespace reports whether b is a whitespace byte that is
// not also a line ending: space, tab, vertical tab, or form feed.
func isNonLineEndingWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == 0x0b || b == 0x0c
}

// isWhitespaceByte reports whether b is any ASCII whitespace control byte
// (0x09 through 0x0d) or a plain space.
func isWhitespaceByte(b byte) bool {
	return (b >= 0x09 && b <= 0x0d) || b == ' '
}

func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIAlphanumeric(b byte) bool {
	return isASCIIAlpha(b) || (b >= '0' && b <= '9')
}

// scanLineEnding returns the length of the line ending at i:
// 1 for LF, 2 for CRLF, 1 for a lone CR, or 0 at end of input.
// The returned bool is false when the byte at i is not a line ending.
func scanLineEnding(source []byte, i int) (length int, ok bool) {
	if i >= len(source) {
		return 0, true
	}
	switch source[i] {
	case '\n':
		return 1, true
	case '\r':
		if i+1 < len(source) && source[i+1] == '\n' {
			return 2, true
		}
		return 1, true
	default:
		return 0, false
	}
}

// scanBlankLine returns the length of the line at i, including its
// terminator, if the line contains only non-line-ending whitespace.
func scanBlankLine(source []byte, i int) (length int, ok bool) {
	j := i
	for j < len(source) && isNonLineEndingWhitespace(source[j]) {
		j++
	}
	eol, eolOK := scanLineEnding(source, j)
	if !eolOK {
		return 0, false
	}
	return j - i + eol, true
}

// scanIndent returns the indent level at i, capped at 4 columns, tab-aware:
// a space is worth 1 column; a tab advances to the next multiple of
// tabStopSize from the current column.
func scanIndent(source []byte, i int) int {
	level := 0
	for j := i; level < codeBlockIndentLimit && j < len(source); j++ {
		switch source[j] {
		case ' ':
			level++
		case '\t':
			level += tabStopSize - (j-i)%tabStopSize
		default:
			return level
		}
	}
	return level
}

// scanSpacesUpTo returns the index after up to max spaces starting at i.
func scanSpacesUpTo(source []byte, i, max int) int {
	j := i
	for j < len(source) && j-i < max && source[j] == ' ' {
		j++
	}
	return j
}

// scanSpaces returns the index after a run of spaces starting at i.
func scanSpaces(source []byte, i int) int {
	j := i
	for j < len(source) && source[j] == ' ' {
		j++
	}
	return j
}

// scanSpacesOrTabs returns the index after a run of spaces and tabs starting at i.
func scanSpacesOrTabs(source []byte, i int) int {
	j := i
	for j < len(source) && (source[j] == ' ' || source[j] == '\t') {
		j++
	}
	return j
}

// scanNonLineEndingWhitespace returns the index after a run of non-line-ending
// whitespace bytes starting at i.
func scanNonLineEndingWhitespace(source []byte, i int) int {
	j := i
	for j < len(source) && isNonLineEndingWhitespace(source[j]) {
		j++
	}
	return j
}

// scanLine returns the length of the line starting at i, including its
// terminator (or running to end of input if there is none).
func scanLine(source []byte, i int) int {
	contentEnd, fullEnd := scanLineContent(source, i)
	_ = contentEnd
	return fullEnd - i
}

// scanLineContent returns the index of the line terminator starting at i
// (or end of input) and the index just past it.
func scanLineContent(source []byte, i int) (contentEnd, fullEnd int) {
	j := i
	for j < len(source) && !isLineEnding(source[j]) {
		j++
	}
	eol, _ := scanLineEnding(source, j)
	return j, j + eol
}

// scanIndentBytes returns the index after consuming up to limit columns of
// tab-aware indent starting at i. Unlike scanIndent, it returns a byte
// position: once the running column reaches limit, scanning stops even if
// more indent whitespace follows, so any excess is left for the caller.
func scanIndentBytes(source []byte, i, limit int) int {
	col := 0
	j := i
	for j < len(source) && col < limit {
		switch source[j] {
		case ' ':
			col++
			j++
		case '\t':
			col += tabStopSize - (j-i)%tabStopSize
			j++
		default:
			return j
		}
	}
	return j
}

// scanATXHeading reports the heading level if an ATX heading opener starts
// at i: 0-3 spaces, then 1-6 '#', then line end or a whitespace byte.
func scanATXHeading(source []byte, i int) (level HeadingLevel, ok bool) {
	j := scanSpaces(source, i)
	if j-i >= codeBlockIndentLimit {
		return 0, false
	}
	runStart := j
	for j < len(source) && source[j] == '#' {
		j++
	}
	n := j - runStart
	if j < len(source) && !isWhitespaceByte(source[j]) {
		return 0, false
	}
	hl, err := NewHeadingLevel(n)
	if err != nil {
		return 0, false
	}
	return hl, true
}

// scanSetextHeading reports the length (including terminator) and level of a
// setext underline starting at i: a run of '=' (H1) or '-' (H2) terminated by
// a blank line.
func scanSetextHeading(source []byte, i int) (length int, level HeadingLevel, ok bool) {
	if i >= len(source) {
		return 0, 0, false
	}
	marker := source[i]
	if marker != '=' && marker != '-' {
		return 0, 0, false
	}
	j := i
	for j < len(source) && source[j] == marker {
		j++
	}
	blankLen, blankOK := scanBlankLine(source, j)
	if !blankOK {
		return 0, 0, false
	}
	if marker == '=' {
		return (j - i) + blankLen, H1, true
	}
	return (j - i) + blankLen, H2, true
}

// scanThematicBreak reports the length (including terminator) of a thematic
// break starting at i: after 0-3 spaces, 3 or more of a single marker in
// {* - _}, interspersed only with spaces/tabs, ending at a line terminator
// or end of input.
func scanThematicBreak(source []byte, i int) (length int, ok bool) {
	j := scanSpaces(source, i)
	if j-i >= codeBlockIndentLimit {
		return 0, false
	}
	count := 0
	var marker byte
	for j < len(source) {
		b := source[j]
		switch {
		case b == '*' || b == '-' || b == '_':
			if count == 0 {
				marker = b
			} else if b != marker {
				return 0, false
			}
			count++
			j++
		case b == ' ' || b == '\t':
			j++
		case isLineEnding(b):
			eol, _ := scanLineEnding(source, j)
			j += eol
			if count < 3 {
				return 0, false
			}
			return j - i, true
		default:
			return 0, false
		}
	}
	// Reached EOF without a terminator.
	if count < 3 {
		return 0, false
	}
	return j - i, true
}

const blockQuotePrefix = '>'

// scanBlockQuoteMarker reports the length of a block quote marker starting
// at i: 0-3 spaces, '>', then optionally one space.
func scanBlockQuoteMarker(source []byte, i int) (length int, ok bool) {
	j := scanSpacesUpTo(source, i, 3)
	if j >= len(source) || source[j] != blockQuotePrefix {
		return 0, false
	}
	j++
	j = scanSpacesUpTo(source, j, 1)
	return j - i, true
}

// scanOpeningCodeFence reports the indent columns consumed, the run length,
// and the marker byte of an opening code fence (0-3 leading spaces, then 3
// or more of '`' or '~') starting at i. For backtick fences, the rest of
// the line must not contain a backtick.
func scanOpeningCodeFence(source []byte, i int) (indent, runLength int, marker byte, ok bool) {
	j := scanSpaces(source, i)
	indent = j - i
	if indent >= codeBlockIndentLimit {
		return 0, 0, 0, false
	}
	if j >= len(source) {
		return 0, 0, 0, false
	}
	b := source[j]
	if b != '`' && b != '~' {
		return 0, 0, 0, false
	}
	k := j
	for k < len(source) && source[k] == b {
		k++
	}
	count := k - j
	if count < 3 {
		return 0, 0, 0, false
	}
	if b == '~' {
		return indent, count, b, true
	}
	lineLen := scanLine(source, k)
	if bytes.IndexByte(source[k:k+lineLen], '`') >= 0 {
		return 0, 0, 0, false
	}
	return indent, count, b, true
}

// scanClosingCodeFence reports the length (including terminator) of a
// closing code fence at i: up to 3 spaces, a run of at least openingCount of
// marker, then line end.
func scanClosingCodeFence(source []byte, i int, marker byte, openingCount int) (length int, ok bool) {
	j := scanSpacesUpTo(source, i, 3)
	k := j
	for k < len(source) && source[k] == marker {
		k++
	}
	if k-j < openingCount {
		return 0, false
	}
	eol, eolOK := scanLineEnding(source, k)
	if !eolOK {
		return 0, false
	}
	return (k + eol) - i, true
}

var (
	htmlBlockStarters1 = []string{"<pre", "<script", "<style", "<textarea"}
	htmlBlockEnders1   = []string{"</pre>", "</script>", "</style>", "</textarea>"}
)

// scanHTMLBlockType1To5 reports the closing marker string for HTML block
// types 1 through 5 if one of their openers starts at i.
func scanHTMLBlockType1To5(source []byte, i int) (closing string, ok bool) {
	j := scanSpaces(source, i)
	if j-i >= codeBlockIndentLimit {
		return "", false
	}
	rest := source[j:]
	if len(rest) == 0 || rest[0] != '<' {
		return "", false
	}
	for n, starter := range htmlBlockStarters1 {
		if !hasCaseInsensitivePrefix(rest, starter) {
			continue
		}
		following := rest[len(starter):]
		if len(following) == 0 || isWhitespaceByte(following[0]) || following[0] == '>' {
			return htmlBlockEnders1[n], true
		}
	}
	switch {
	case bytes.HasPrefix(rest, []byte("<!--")):
		return "-->", true
	case bytes.HasPrefix(rest, []byte("<?")):
		return "?>", true
	case bytes.HasPrefix(rest, []byte("<![CDATA[")):
		return "]]>", true
	case len(rest) > 2 && rest[0] == '<' && rest[1] == '!' && isASCIIAlpha(rest[2]):
		return ">", true
	}
	return "", false
}

// htmlBlockTagNames6 is the set of tag names that open an HTML block of
// type 6, drawn from the HTML living standard's block-level element list.
var htmlBlockTagNames6 = map[string]bool{
	atom.Address.String(): true, atom.Article.String(): true, atom.Aside.String(): true,
	atom.Base.String(): true, atom.Basefont.String(): true, atom.Blockquote.String(): true,
	atom.Body.String(): true, atom.Caption.String(): true, atom.Center.String(): true,
	atom.Col.String(): true, atom.Colgroup.String(): true, atom.Dd.String(): true,
	atom.Details.String(): true, atom.Dialog.String(): true, atom.Dir.String(): true,
	atom.Div.String(): true, atom.Dl.String(): true, atom.Dt.String(): true,
	atom.Fieldset.String(): true, atom.Figcaption.String(): true, atom.Figure.String(): true,
	atom.Footer.String(): true, atom.Form.String(): true, atom.Frame.String(): true,
	atom.Frameset.String(): true, atom.H1.String(): true, atom.H2.String(): true,
	atom.H3.String(): true, atom.H4.String(): true, atom.H5.String(): true,
	atom.H6.String(): true, atom.Head.String(): true, atom.Header.String(): true,
	atom.Hr.String(): true, atom.Html.String(): true, atom.Iframe.String(): true,
	atom.Legend.String(): true, atom.Li.String(): true, atom.Link.String(): true,
	atom.Main.String(): true, atom.Menu.String(): true, atom.Menuitem.String(): true,
	atom.Nav.String(): true, atom.Noframes.String(): true, atom.Ol.String(): true,
	atom.Optgroup.String(): true, atom.Option.String(): true, atom.P.String(): true,
	atom.Param.String(): true, atom.Section.String(): true, atom.Source.String(): true,
	atom.Summary.String(): true, atom.Table.String(): true, atom.Tbody.String(): true,
	atom.Td.String(): true, atom.Tfoot.String(): true, atom.Th.String(): true,
	atom.Thead.String(): true, atom.Title.String(): true, atom.Tr.String(): true,
	atom.Track.String(): true, atom.Ul.String(): true,
}

// scanHTMLBlockType6 reports whether the line at i opens an HTML block of
// type 6: '<' or '</' followed by one of the canonical block-level tag names.
func scanHTMLBlockType6(source []byte, i int) bool {
	j := scanSpaces(source, i)
	if j-i >= codeBlockIndentLimit {
		return false
	}
	rest := source[j:]
	if len(rest) == 0 || rest[0] != '<' {
		return false
	}
	rest = rest[1:]
	if len(rest) > 0 && rest[0] == '/' {
		rest = rest[1:]
	}
	n := 0
	for n < len(rest) && isASCIIAlphanumeric(rest[n]) {
		n++
	}
	if n == 0 {
		return false
	}
	name := strings.ToLower(string(rest[:n]))
	if !htmlBlockTagNames6[name] {
		return false
	}
	following := rest[n:]
	return len(following) == 0 || isWhitespaceByte(following[0]) || following[0] == '>' ||
		bytes.HasPrefix(following, []byte("/>"))
}

// scanHTMLBlockType7 reports whether the line at i is a complete open or
// close tag followed by a blank line.
func scanHTMLBlockType7(source []byte, i int) bool {
	j := scanSpaces(source, i)
	if j-i >= codeBlockIndentLimit {
		return false
	}
	if j >= len(source) || source[j] != '<' {
		return false
	}
	j++
	closing := j < len(source) && source[j] == '/'
	if closing {
		j++
	}
	nameStart := j
	for j < len(source) && isASCIIAlphanumeric(source[j]) {
		j++
	}
	if j == nameStart {
		return false
	}
	for {
		j = scanNonLineEndingWhitespace(source, j)
		if j < len(source) && (source[j] == '/' || source[j] == '>') {
			break
		}
		length, ok := scanAttribute(source, j)
		if !ok {
			return false
		}
		j += length
	}
	if !closing && j < len(source) && source[j] == '/' {
		j++
	}
	if j >= len(source) || source[j] != '>' {
		return false
	}
	j++
	_, blankOK := scanBlankLine(source, j)
	return blankOK
}

// scanAttribute reports the length of an HTML attribute starting at i: a
// name, and optionally '=' followed by a quoted or unquoted value.
func scanAttribute(source []byte, i int) (length int, ok bool) {
	nameLen, nameOK := scanAttributeName(source, i)
	if !nameOK {
		return 0, false
	}
	j := i + nameLen
	spaceEnd := scanSpaces(source, j)
	if spaceEnd < len(source) && source[spaceEnd] == '=' {
		j = spaceEnd + 1
		j = scanSpaces(source, j)
		valueLen, valueOK := scanAttributeValue(source, j)
		if !valueOK {
			return 0, false
		}
		j += valueLen
	}
	return j - i, true
}

func isAttributeNameStart(b byte) bool {
	return isASCIIAlpha(b) || b == '_' || b == ':'
}

func isAttributeNameCont(b byte) bool {
	return isASCIIAlphanumeric(b) || b == '_' || b == ':' || b == '.' || b == '-'
}

// scanAttributeName reports the length of an HTML attribute name at i.
func scanAttributeName(source []byte, i int) (length int, ok bool) {
	if i >= len(source) || !isAttributeNameStart(source[i]) {
		return 0, false
	}
	j := i + 1
	for j < len(source) && isAttributeNameCont(source[j]) {
		j++
	}
	return j - i, true
}

// scanAttributeValue reports the length of an HTML attribute value at i: a
// quoted value (matching '"' or '\'', containing no line ending) or an
// unquoted value (containing no whitespace, '"', '\'', '=', '<', '>', or '`').
func scanAttributeValue(source []byte, i int) (length int, ok bool) {
	if i >= len(source) {
		return 0, false
	}
	quote := source[i]
	if quote == '"' || quote == '\'' {
		for j := i + 1; j < len(source); j++ {
			if source[j] == quote {
				return j + 1 - i, true
			}
			if isLineEnding(source[j]) {
				return 0, false
			}
		}
		return 0, false
	}
	if isWhitespaceByte(quote) || strings.IndexByte(`="<>`+"`", quote) >= 0 {
		return 0, false
	}
	j := i
	for j < len(source) && !isWhitespaceByte(source[j]) && strings.IndexByte(`'"=<>`+"`", source[j]) < 0 {
		j++
	}
	return j - i, true
}

// scanParagraphInterrupt reports whether any paragraph-interrupting
// construct begins at i: a line ending, thematic break, ATX heading, opening
// code fence, HTML block type 1-6, or block-quote marker.
func scanParagraphInterrupt(source []byte, i int) bool {
	if length, ok := scanLineEnding(source, i); ok && length > 0 {
		return true
	}
	if _, ok := scanThematicBreak(source, i); ok {
		return true
	}
	if _, ok := scanATXHeading(source, i); ok {
		return true
	}
	if _, _, _, ok := scanOpeningCodeFence(source, i); ok {
		return true
	}
	if _, ok := scanHTMLBlockType1To5(source, i); ok {
		return true
	}
	if scanHTMLBlockType6(source, i) {
		return true
	}
	if _, ok := scanBlockQuoteMarker(source, i); ok {
		return true
	}
	return false
}

// scanContainerMarkers counts how many of the ancestor block-quote
// containers, in order from outermost to innermost, are re-satisfied by
// their marker starting at i, and returns the index just past the last
// matched marker. ancestorKinds lists the kind of each open ancestor,
// outermost first.
func scanContainerMarkers(source []byte, i int, ancestorKinds []BlockKind) (newIndex, count int) {
	for _, kind := range ancestorKinds {
		if kind != BlockQuoteKind {
			continue
		}
		length, ok := scanBlockQuoteMarker(source, i)
		if !ok {
			break
		}
		i += length
		count++
	}
	return i, count
}

func hasCaseInsensitivePrefix(b []byte, prefix string) bool {
	if len(b) < len(prefix) {
		return false
	}
	return strings.EqualFold(string(b[:len(prefix)]), prefix)
}
