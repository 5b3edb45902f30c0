// Package network provides the immutable network type that ERGM terms are
// computed over.
//
// # Overview
//
// A [Network] is assembled once from a validated adjacency matrix and an
// aligned attribute table (see package table). Node index i refers to the
// i-th row and column of the adjacency matrix and the i-th attribute row;
// this positional order is preserved so term computations are consistent.
//
// Networks are either directed or undirected. Directedness is fixed at
// assembly and decides which structural terms are legal. An undirected
// network requires a symmetric adjacency matrix unless [SymmetrizeMax] is
// requested, in which case each pair takes the larger of its two weights.
// Diagonal entries (self-ties) are ignored.
//
// # Derived Properties
//
// Degrees, isolates and the degree distribution are computed on demand from
// the adjacency matrix rather than stored:
//
//	net, _ := network.Assemble(adj, attrs, network.Options{})
//	fmt.Println(net.TieCount(), net.Isolates(), net.DegreeDistribution())
//
// # Immutability
//
// A Network is never modified after [Assemble]. [Network.WithTie] returns a
// new network with one more tie, which keeps a fitted network read-only
// while still allowing "what if" comparisons in tests and tools. Networks are
// safe for concurrent readers.
package network
