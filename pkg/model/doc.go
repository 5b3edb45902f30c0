// Package model binds model specifications to a network and assembles the
// design that an estimator consumes.
//
// A [Specification] is an ordered list of term expressions. [Bind] resolves
// every expression with package term, puts edges first (adding it when
// absent) and rejects repeated terms. [Model.Design] evaluates the change
// statistic of every term on every dyad and compresses identical rows into a
// weighted design:
//
//	row r: covariates X[r], Counts[r] dyads, of which Ties[r] are tied
//
// Estimation itself is behind the [Estimator] interface so that binding and
// comparison can be tested without a real estimator.
package model
