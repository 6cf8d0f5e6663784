// Package xdag is the action dependency graph (spec §4.5). The
// prototype's own ActionTree/Keys types are referenced by job.rs,
// runtime.rs and main.rs (`actions.add_node(&[])`,
// `actions.add_action(node, action)`, `actions.next_batch(&completed)`,
// `actions.size()`) but never actually defined in original_source — this
// package supplies that missing structure fresh, matching the call shape
// those three files assume and the batching contract spec §4.5 spells out.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package xdag

import "github.com/coldlake/coldlake/xact"

// Key identifies a node. Dense, monotonic, starting at 1.
type Key int

// Set is a set of completed Keys.
type Set map[Key]struct{}

func NewSet() Set { return make(Set) }

func (s Set) Add(k Key)          { s[k] = struct{}{} }
func (s Set) Contains(k Key) bool { _, ok := s[k]; return ok }
func (s Set) Len() int            { return len(s) }

// Subset reports whether every key in s is contained in other.
func (s Set) Subset(other Set) bool {
	for k := range s {
		if !other.Contains(k) {
			return false
		}
	}
	return true
}

type node struct {
	deps    []Key
	actions []xact.Action
}

// Tree is a DAG of nodes, each holding zero or more Actions. Edges
// denote upstream dependencies: a node is ready once every upstream node
// is in the completed set (spec §4.5). Job builders are responsible for
// not introducing cycles.
type Tree struct {
	nodes []node
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// Single returns a one-node, dependency-free tree containing action.
func Single(action xact.Action) *Tree {
	t := New()
	root := t.AddNode(nil)
	t.AddAction(root, action)
	return t
}

// AddNode appends a node with the given upstream dependencies and returns
// its Key. An empty deps slice marks the node as a root.
func (t *Tree) AddNode(deps []Key) Key {
	t.nodes = append(t.nodes, node{deps: append([]Key(nil), deps...)})
	return Key(len(t.nodes))
}

// AddAction appends action to the node identified by key.
func (t *Tree) AddAction(key Key, action xact.Action) {
	t.nodes[key-1].actions = append(t.nodes[key-1].actions, action)
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	return len(t.nodes)
}

// Batch is one ready node and its actions, as returned by NextBatch.
type Batch struct {
	Key     Key
	Actions []xact.Action
}

// NextBatch returns every node not in completed whose dependencies are a
// subset of completed. If completed is empty, it returns the roots (spec
// §4.5). Order among the returned batches is unspecified.
func (t *Tree) NextBatch(completed Set) []Batch {
	var out []Batch
	for i, n := range t.nodes {
		key := Key(i + 1)
		if completed.Contains(key) {
			continue
		}
		if depsSatisfied(n.deps, completed) {
			out = append(out, Batch{Key: key, Actions: n.actions})
		}
	}
	return out
}

func depsSatisfied(deps []Key, completed Set) bool {
	for _, d := range deps {
		if !completed.Contains(d) {
			return false
		}
	}
	return true
}
