// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package catalog

import (
	"sort"
	"strings"
)

// defaultSearchLimit applies when a caller passes a non-positive limit.
const defaultSearchLimit = 10

// trieNode is one rune step of a lowercased title.
type trieNode struct {
	children map[rune]*trieNode
	entries  []trieEntry // titles ending here (several titles can share a lowercased key)
}

type trieEntry struct {
	title string
	id    int
}

// titleTrie is a case-insensitive prefix tree over catalog titles.
// It is filled by NewIndex and never modified afterwards, so reads need no lock.
type titleTrie struct {
	root *trieNode
}

func newTitleTrie() *titleTrie {
	return &titleTrie{root: newTrieNode()}
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

func (t *titleTrie) insert(title string, id int) {
	node := t.root
	for _, ch := range strings.ToLower(title) {
		next := node.children[ch]
		if next == nil {
			next = newTrieNode()
			node.children[ch] = next
		}
		node = next
	}
	node.entries = append(node.entries, trieEntry{title: title, id: id})
}

// withPrefix returns ids of titles beginning with prefix, ordered by
// title then id, truncated to limit.
func (t *titleTrie) withPrefix(prefix string, limit int) []int {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	node := t.root
	for _, ch := range strings.ToLower(prefix) {
		node = node.children[ch]
		if node == nil {
			return nil
		}
	}

	var entries []trieEntry
	collect(node, &entries)

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].title != entries[j].title {
			return entries[i].title < entries[j].title
		}
		return entries[i].id < entries[j].id
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

func collect(node *trieNode, out *[]trieEntry) {
	*out = append(*out, node.entries...)
	for _, child := range node.children {
		collect(child, out)
	}
}
