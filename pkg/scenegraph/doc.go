// Package scenegraph resolves the world transform of every node in a glTF
// node hierarchy.
//
// Resolution walks the hierarchy from its roots, so a node's world matrix is
// always computed from a finished parent matrix regardless of the order nodes
// are stored in. Each node has at most one parent; cycles, shared children and
// child references to missing nodes are rejected.
package scenegraph
