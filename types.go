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

// BlockKind identifies the structural role of a [Block].
type BlockKind int

const (
	// BlockQuoteKind is a container block delimited by '>' markers.
	BlockQuoteKind BlockKind = 1 + iota
	// FencedCodeBlockKind is a container block delimited by a fence of
	// backticks or tildes. Its InfoString holds the trimmed info string.
	FencedCodeBlockKind
	// HeadingKind is a container block with at most one Text child (none
	// when the title is empty), produced by either ATX or setext syntax.
	HeadingKind
	// IndentedCodeBlockKind is a container block whose children are Text lines.
	IndentedCodeBlockKind
	// ParagraphKind is a container block whose children are Text lines.
	ParagraphKind
	// TextKind is a leaf block: a single line or heading title.
	TextKind
	// HTMLBlockLineKind is a leaf block: a single verbatim line of an HTML block.
	HTMLBlockLineKind
	// ThematicBreakKind is a self-closing leaf atom.
	ThematicBreakKind
)

func (k BlockKind) String() string {
	switch k {
	case BlockQuoteKind:
		return "BlockQuote"
	case FencedCodeBlockKind:
		return "FencedCodeBlock"
	case HeadingKind:
		return "Heading"
	case IndentedCodeBlockKind:
		return "IndentedCodeBlock"
	case ParagraphKind:
		return "Paragraph"
	case TextKind:
		return "Text"
	case HTMLBlockLineKind:
		return "Html"
	case ThematicBreakKind:
		return "ThematicBreak"
	default:
		return "BlockKind(0)"
	}
}

// IsContainer reports whether blocks of this kind may hold children.
func (k BlockKind) IsContainer() bool {
	switch k {
	case BlockQuoteKind, FencedCodeBlockKind, HeadingKind, IndentedCodeBlockKind, ParagraphKind:
		return true
	default:
		return false
	}
}

// Block is a rectangular byte span of the source classified as one of the
// BlockKind variants. begin..end is a half-open byte range: begin is
// inclusive, end is exclusive, except that Text children of headings have
// their trailing line terminator stripped while Text children of
// paragraphs and code blocks keep it (see [Block.Span]).
type Block struct {
	begin int
	end   int // -1 until the block is closed
	kind  BlockKind

	// level is valid for HeadingKind.
	level HeadingLevel
	// info is valid for FencedCodeBlockKind: the trimmed info string span.
	info Span
}

// Kind returns the block's kind.
func (b Block) Kind() BlockKind {
	return b.kind
}

// Span returns the half-open byte range of the block within the source
// buffer it was parsed from.
func (b Block) Span() Span {
	return Span{Start: b.begin, End: b.end}
}

// HeadingLevel returns the heading level.
// It panics if Kind is not HeadingKind.
func (b Block) HeadingLevel() HeadingLevel {
	if b.kind != HeadingKind {
		panic("blockmark: HeadingLevel called on non-heading block")
	}
	return b.level
}

// InfoString returns the trimmed info string span of a fenced code block.
// It panics if Kind is not FencedCodeBlockKind.
func (b Block) InfoString() Span {
	if b.kind != FencedCodeBlockKind {
		panic("blockmark: InfoString called on non-fenced-code-block")
	}
	return b.info
}
