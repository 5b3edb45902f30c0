// Package term translates declarative ERGM term expressions into statistics
// over a [network.Network].
//
// # Terms
//
// The recognized set is closed:
//
//   - edges: number of ties (always the first model term)
//   - absdiff(attr[, pow]): sum over ties of |x_i - x_j|^pow, numeric attributes
//   - nodematch(attr): number of ties whose endpoints share a level
//   - isolates: number of degree-zero nodes, undirected networks only
//   - concurrent: number of nodes with degree >= 2, undirected networks only
//   - istar(k): sum over nodes of C(in-degree, k), directed networks only
//
// Any other name fails with an UNKNOWN_TERM error. Applying a term to a
// network of the wrong directedness, or to an attribute of the wrong kind,
// fails with UNSUPPORTED_TERM. Referencing an attribute the network does not
// carry fails with SCHEMA_ERROR.
//
// # Statistics
//
// Every [Term] reports its observed statistic with [Term.Stat] and its change
// statistic with [Term.Change]: the difference in the statistic between the
// network with dyad (i, j) tied and the network with it untied, all other
// dyads held at their observed values. Change statistics are the covariates
// of the pseudo-likelihood design (see package model).
//
// Dyadic terms are functions of one dyad and its attributes and are O(N²)
// over the network. Structural terms depend on topology only and are O(N) or
// O(E) for the statistic.
//
// # Usage
//
//	spec, err := term.Parse("absdiff(size)")
//	t, err := term.Bind(spec, net)
//	fmt.Println(t.Label(), t.Stat(net))
package term
