// Package compare fits several model specifications to one network and
// ranks them by information criteria.
//
// A [Comparator] binds each [model.Specification], builds its design, hands
// it to the injected [model.Estimator] and collects a [Result] with the
// coefficient table, log-likelihood, AIC and BIC:
//
//	AIC = -2·LL + 2·p
//	BIC = -2·LL + p·ln(dyads)
//
// where p is the number of terms (edges included) and dyads the number of
// dyads the pseudo-likelihood runs over. Lower is better for both.
//
// Specifications are fitted in order and independently. By default the first
// failure stops the comparison: Compare returns the error together with a
// [Report] holding every result obtained before it. With
// [Options].KeepGoing the failure is recorded and the remaining
// specifications are still fitted. Nothing is ever retried.
package compare
