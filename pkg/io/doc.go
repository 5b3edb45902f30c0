// Package io exports comparison reports and network summaries as JSON.
//
// # Report
//
// [WriteReport] encodes a [compare.Report]: network description, estimator,
// one entry per fitted model with its coefficient table and criteria, and
// the failures recorded in keep-going mode. [ReadReport] decodes it again,
// so rankings can be recomputed from a saved run without refitting:
//
//	err := io.ExportReport(report, "report.json")
//	saved, err := io.ImportReport("report.json")
//	ranked := saved.RankByBIC()
//
// # Network Summary
//
// [Summarize] describes a network for downstream tools:
//
//	{
//	  "directed": false,
//	  "nodes": [{"id": "a", "degree": 2, "attributes": {"size": 3}}],
//	  "ties": [{"from": "a", "to": "b", "weight": 1}],
//	  "isolates": ["d"],
//	  "degree_distribution": [1, 2, 1],
//	  "density": 0.33
//	}
//
// degree_distribution[k] is the number of nodes with degree k.
package io
