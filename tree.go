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

// nodeIx is an index into a [tree]'s node arena.
// The zero value is the first node of the arena; use noNode to mean "no node".
type nodeIx int

const noNode nodeIx = -1

// node is one element of a [tree]'s arena.
// child links to the first child, next links to the next sibling.
// There is no parent pointer: ancestry is tracked by the tree's
// ancestor stack, not by the node itself.
type node struct {
	child nodeIx
	next  nodeIx
	item  Block
}

// tree is an append-only arena of [Block] nodes together with a cursor
// ("current") and the stack of ancestors leading to current's parent.
// Nodes are never deleted; indices remain stable across further appends.
type tree struct {
	nodes     []node
	current   nodeIx
	ancestors []nodeIx
}

func newTree() *tree {
	return &tree{current: noNode}
}

// append adds item at the current sibling slot and moves the cursor to it.
// If current is set, the new node becomes current's next sibling.
// Otherwise, if there is an open ancestor, the new node becomes its first child.
func (t *tree) append(item Block) nodeIx {
	ix := nodeIx(len(t.nodes))
	t.nodes = append(t.nodes, node{child: noNode, next: noNode, item: item})
	if t.current != noNode {
		t.nodes[t.current].next = ix
	} else if len(t.ancestors) > 0 {
		parent := t.ancestors[len(t.ancestors)-1]
		t.nodes[parent].child = ix
	}
	t.current = ix
	return ix
}

// goToChild pushes current onto the ancestor stack and descends to its first child.
func (t *tree) goToChild() {
	t.ancestors = append(t.ancestors, t.current)
	t.current = t.nodes[t.current].child
}

// goToParent pops the ancestor stack into current.
func (t *tree) goToParent() {
	last := len(t.ancestors) - 1
	t.current = t.ancestors[last]
	t.ancestors = t.ancestors[:last]
}

// goToNextSibling advances current along its sibling link.
func (t *tree) goToNextSibling() {
	t.current = t.nodes[t.current].next
}

// goToFirst resets current to the root of the arena (index 0),
// or to noNode if the arena is empty.
func (t *tree) goToFirst() {
	if len(t.nodes) == 0 {
		t.current = noNode
	} else {
		t.current = 0
	}
}

// at returns a pointer to the item of the node at ix.
func (t *tree) at(ix nodeIx) *Block {
	return &t.nodes[ix].item
}
