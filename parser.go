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

import "bytes"

// Document is the block tree produced by parsing a byte slice.
// It borrows source for its entire lifetime; no content bytes are copied.
type Document struct {
	source []byte
	tree   *tree
}

// Parse runs the block-level scanner over source to completion and returns
// the resulting tree of blocks. No inline parsing or list-item recognition
// is performed: text spans are handed back verbatim for a collaborator to
// process further. Parse never fails; malformed input degrades to
// paragraphs or verbatim passthrough.
func Parse(source []byte) *Document {
	p := &parser{source: source, tree: newTree()}
	p.run()
	return &Document{source: source, tree: p.tree}
}

// Events returns an iterator over the document's pre-order event stream.
// The iterator is single-pass, since stepping it mutates the underlying
// tree's cursor. Events resets that cursor to the first node but not its
// ancestor stack, so a new iterator yields the full stream again only once
// any earlier iterator has run to completion.
func (d *Document) Events() *EventIter {
	d.tree.goToFirst()
	return &EventIter{source: d.source, tree: d.tree}
}

// parser holds the mutable state of one run of the block scanner: the
// source buffer, the tree being built, the current byte offset, and the
// count of currently open block-quote containers (the only container kind
// that nests and therefore needs per-line marker reconfirmation).
type parser struct {
	source     []byte
	tree       *tree
	index      int
	quoteDepth int
}

// run executes the main dispatch loop until the input is exhausted, then
// closes any block quotes left open by the final line.
func (p *parser) run() {
	for p.index < len(p.source) {
		p.step()
	}
	for p.quoteDepth > 0 {
		p.closeContainer(p.index)
		p.quoteDepth--
	}
}

// closeContainer pops the innermost open container, finalizing its end.
func (p *parser) closeContainer(end int) {
	p.tree.goToParent()
	p.tree.at(p.tree.current).end = end
}

// openContainer appends a new container block and descends into it.
func (p *parser) openContainer(b Block) nodeIx {
	ix := p.tree.append(b)
	p.tree.goToChild()
	return ix
}

// confirmAncestors attempts to match every currently open block-quote
// marker starting at i, in order from outermost to innermost. It is pure:
// it never mutates parser state. It returns the index just past however
// many markers matched, and how many of the p.quoteDepth ancestors matched.
func (p *parser) confirmAncestors(i int) (newIndex, matched int) {
	kinds := make([]BlockKind, p.quoteDepth)
	for k := range kinds {
		kinds[k] = BlockQuoteKind
	}
	return scanContainerMarkers(p.source, i, kinds)
}

// step processes exactly one line-start dispatch: it reconfirms or closes
// open block quotes, greedily opens any further nested block quotes, then
// tries each block opener in order, falling back to setext-heading-or-
// paragraph. Each opener that succeeds may itself consume several lines
// before returning control here.
func (p *parser) step() {
	newIndex, matched := p.confirmAncestors(p.index)
	p.index = newIndex
	for p.quoteDepth > matched {
		p.closeContainer(p.index)
		p.quoteDepth--
	}

	for {
		length, ok := scanBlockQuoteMarker(p.source, p.index)
		if !ok {
			break
		}
		begin := p.index
		p.index += length
		p.openContainer(Block{begin: begin, end: -1, kind: BlockQuoteKind})
		p.quoteDepth++
	}

	if length, ok := scanBlankLine(p.source, p.index); ok {
		p.index += length
		return
	}

	if scanIndent(p.source, p.index) >= codeBlockIndentLimit {
		p.parseIndentedCodeBlock()
		return
	}

	if length, ok := scanThematicBreak(p.source, p.index); ok {
		begin := p.index
		p.index += length
		p.tree.append(Block{begin: begin, end: p.index, kind: ThematicBreakKind})
		return
	}
	if level, ok := scanATXHeading(p.source, p.index); ok {
		p.parseATXHeading(level)
		return
	}
	if indent, runLength, marker, ok := scanOpeningCodeFence(p.source, p.index); ok {
		p.parseFencedCodeBlock(indent, runLength, marker)
		return
	}
	if closing, ok := scanHTMLBlockType1To5(p.source, p.index); ok {
		p.parseHTMLBlockType1To5(closing)
		return
	}
	if scanHTMLBlockType6(p.source, p.index) || scanHTMLBlockType7(p.source, p.index) {
		p.parseHTMLBlockType6To7()
		return
	}
	p.parseSetextHeadingOrParagraph()
}

// parseIndentedCodeBlock consumes an indented code block: one Text child
// per line, stripping the first 4 columns of indent from each, for as long
// as each subsequent line is blank or indented by at least 4 columns and
// every currently open block quote is reconfirmed. A trailing run of blank
// lines is trimmed from the block's children once it closes.
func (p *parser) parseIndentedCodeBlock() {
	begin := p.index
	p.openContainer(Block{begin: begin, end: -1, kind: IndentedCodeBlockKind})

	lastNonBlank := noNode
	for {
		lineStart := scanIndentBytes(p.source, p.index, codeBlockIndentLimit)
		_, fullEnd := scanLineContent(p.source, lineStart)
		ix := p.tree.append(Block{begin: lineStart, end: fullEnd, kind: TextKind})
		if _, blank := scanBlankLine(p.source, lineStart); !blank {
			lastNonBlank = ix
		}
		p.index = fullEnd
		if p.index >= len(p.source) {
			break
		}

		newIndex, matched := p.confirmAncestors(p.index)
		if matched < p.quoteDepth {
			break
		}
		_, isBlank := scanBlankLine(p.source, newIndex)
		if scanIndent(p.source, newIndex) < codeBlockIndentLimit && !isBlank {
			break
		}
		p.index = newIndex
	}

	if lastNonBlank != noNode {
		p.tree.nodes[lastNonBlank].next = noNode
		p.tree.current = lastNonBlank
	}
	p.closeContainer(p.index)
}

// parseATXHeading consumes an ATX heading line: the '#' run and following
// whitespace are skipped, the remainder of the line becomes the title,
// right-trimmed in four phases (trailing terminator, trailing whitespace,
// a trailing '#' run preceded by whitespace or nothing, trailing whitespace
// again). A title that trims to empty is detached rather than kept.
func (p *parser) parseATXHeading(level HeadingLevel) {
	begin := p.index
	p.openContainer(Block{begin: begin, end: -1, kind: HeadingKind, level: level})

	j := scanSpaces(p.source, p.index)
	for j < len(p.source) && p.source[j] == '#' {
		j++
	}
	j = scanNonLineEndingWhitespace(p.source, j)

	contentEnd, fullEnd := scanLineContent(p.source, j)
	title := rightTrimATXTitle(p.source, Span{Start: j, End: contentEnd})
	if title.Len() > 0 {
		p.tree.append(Block{begin: title.Start, end: title.End, kind: TextKind})
	}
	p.index = fullEnd
	p.closeContainer(p.index)
}

// rightTrimATXTitle implements the four-phase right-trim of an ATX title
// described in the grammar: strip a trailing terminator, trailing
// whitespace, a trailing '#' run (only if preceded by whitespace or
// nothing), then trailing whitespace once more.
func rightTrimATXTitle(source []byte, span Span) Span {
	start, end := span.Start, span.End
	for end > start && isLineEnding(source[end-1]) {
		end--
	}
	for end > start && (source[end-1] == ' ' || source[end-1] == '\t') {
		end--
	}
	hashEnd := end
	for end > start && source[end-1] == '#' {
		end--
	}
	if end < hashEnd && end > start && source[end-1] != ' ' && source[end-1] != '\t' {
		end = hashEnd // trailing '#' run not separated from title by whitespace: keep it
	}
	for end > start && (source[end-1] == ' ' || source[end-1] == '\t') {
		end--
	}
	return Span{Start: start, End: end}
}

// parseFencedCodeBlock consumes a fenced code block: the info string on the
// opening line is trimmed of surrounding whitespace, then each subsequent
// line is emitted as a Text child with up to the fence's own opening indent
// stripped, until a matching closing fence, a line that does not reconfirm
// every open block quote, or EOF.
func (p *parser) parseFencedCodeBlock(indent, openingCount int, marker byte) {
	begin := p.index
	fenceStart := p.index + indent
	infoStart := scanSpacesOrTabs(p.source, fenceStart+openingCount)
	contentEnd, fullEnd := scanLineContent(p.source, infoStart)
	infoEnd := contentEnd
	for infoEnd > infoStart && (p.source[infoEnd-1] == ' ' || p.source[infoEnd-1] == '\t') {
		infoEnd--
	}
	info := Span{Start: infoStart, End: infoEnd}

	p.openContainer(Block{begin: begin, end: -1, kind: FencedCodeBlockKind, info: info})
	p.index = fullEnd

	for p.index < len(p.source) {
		newIndex, matched := p.confirmAncestors(p.index)
		if matched < p.quoteDepth {
			break
		}
		if closeLen, ok := scanClosingCodeFence(p.source, newIndex, marker, openingCount); ok {
			p.index = newIndex + closeLen
			break
		}
		lineStart := scanIndentBytes(p.source, newIndex, indent)
		_, lineFullEnd := scanLineContent(p.source, lineStart)
		p.tree.append(Block{begin: lineStart, end: lineFullEnd, kind: TextKind})
		p.index = lineFullEnd
	}
	p.closeContainer(p.index)
}

// parseHTMLBlockType1To5 emits one Html leaf per line, starting from the
// current (already-matched opener) line, until a line's content contains
// the closing marker substring or input ends. The matching line is
// included.
func (p *parser) parseHTMLBlockType1To5(closing string) {
	for {
		contentEnd, fullEnd := scanLineContent(p.source, p.index)
		line := p.source[p.index:contentEnd]
		p.tree.append(Block{begin: p.index, end: fullEnd, kind: HTMLBlockLineKind})
		found := bytes.Contains(line, []byte(closing))
		p.index = fullEnd
		if found || p.index >= len(p.source) {
			return
		}
	}
}

// parseHTMLBlockType6To7 emits one Html leaf per line until a blank line is
// encountered (the blank line itself is left unconsumed for the caller).
func (p *parser) parseHTMLBlockType6To7() {
	for {
		if _, ok := scanBlankLine(p.source, p.index); ok {
			return
		}
		_, fullEnd := scanLineContent(p.source, p.index)
		p.tree.append(Block{begin: p.index, end: fullEnd, kind: HTMLBlockLineKind})
		p.index = fullEnd
		if p.index >= len(p.source) {
			return
		}
	}
}

// parseSetextHeadingOrParagraph consumes a paragraph, line by line,
// watching each subsequent line for a setext underline (which promotes the
// whole paragraph to a heading) or a paragraph-interrupting construct
// (which closes the paragraph without consuming the line). A line missing
// only its innermost block-quote ancestor's marker is still absorbed as a
// lazy continuation provided it is not itself a paragraph interrupt; a line
// missing more than that one ancestor's marker is not lazy at all and closes
// the paragraph outright, letting the containers it failed to reconfirm
// unwind the normal way.
func (p *parser) parseSetextHeadingOrParagraph() {
	begin := p.index
	containerIx := p.openContainer(Block{begin: begin, end: -1, kind: ParagraphKind})

	_, fullEnd := scanLineContent(p.source, p.index)
	lastText := p.tree.append(Block{begin: p.index, end: fullEnd, kind: TextKind})
	p.index = fullEnd

	for p.index < len(p.source) {
		newIndex, matched := p.confirmAncestors(p.index)
		lazy := matched == p.quoteDepth-1
		if matched != p.quoteDepth && !lazy {
			break
		}

		indent := scanIndent(p.source, newIndex)
		if indent < codeBlockIndentLimit {
			newIndex = scanIndentBytes(p.source, newIndex, indent)

			if !lazy {
				if length, level, ok := scanSetextHeading(p.source, newIndex); ok {
					b := p.tree.at(containerIx)
					b.kind = HeadingKind
					b.level = level
					trimSetextTitle(p.source, p.tree.at(lastText))
					p.index = newIndex + length
					p.closeContainer(p.index)
					return
				}
			}
			if scanParagraphInterrupt(p.source, newIndex) {
				break
			}
		}

		_, lineFullEnd := scanLineContent(p.source, newIndex)
		lastText = p.tree.append(Block{begin: newIndex, end: lineFullEnd, kind: TextKind})
		p.index = lineFullEnd
	}

	p.closeContainer(p.index)
}

// trimSetextTitle reshapes a paragraph's last line into a heading title:
// its trailing line terminator and any whitespace preceding it are
// stripped, matching the Heading invariant that a title never retains a
// terminator (the same shape ATX titles end up in after their own trim).
func trimSetextTitle(source []byte, b *Block) {
	end := b.end
	for end > b.begin && isLineEnding(source[end-1]) {
		end--
	}
	for end > b.begin && (source[end-1] == ' ' || source[end-1] == '\t') {
		end--
	}
	b.end = end
}
