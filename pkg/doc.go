// Package pkg provides the core libraries for netergm.
//
// # Overview
//
// netergm fits competing exponential random graph models (ERGMs) to one
// observed network and ranks them by information criteria. The pkg
// directory is organized into four main areas:
//
//  1. Data: [table] reads the input tables, [network] assembles the graph
//  2. Modeling: [term], [model], [estimate/mple] and [compare]
//  3. Infrastructure: [cache], [httputil], [config], [observability]
//  4. Output: [pipeline] orchestration, [io] JSON export, [render] plots
//
// # Architecture
//
// The typical data flow through netergm:
//
//	adjacency.csv + attributes.csv
//	         ↓
//	    [table] package (parse, validate, align)
//	         ↓
//	    [network] package (immutable graph + node attributes)
//	         ↓
//	    [term] + [model] packages (statistics, change statistics, design)
//	         ↓
//	    [compare] package (fit every specification, rank by AIC/BIC)
//	         ↓
//	    report JSON / terminal tables / network plot
//
// # Quick Start
//
// Load a project and compare its models:
//
//	cfg, _ := config.Load("netergm.toml")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(ctx, pipeline.FromConfig(cfg))
//	for _, r := range result.Report.RankByAIC() {
//	    fmt.Println(r.Rank, r.Model, r.Score)
//	}
//
// Or use the packages directly:
//
//	adj, attrs, _ := table.Load(ctx, httputil.NewFetcher(httputil.FetcherOptions{}), src, schema)
//	g, _ := network.Assemble(adj, attrs, network.Options{})
//	cmp := compare.New(mple.New(mple.Options{}), nil, nil, nil, compare.Options{})
//	report, _ := cmp.Compare(ctx, g, []model.Specification{
//	    {Name: "baseline", Terms: []string{"edges"}},
//	    {Name: "homophily", Terms: []string{"nodematch(ideology)", "absdiff(size)"}},
//	})
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/term/...     # Specific package
//	go test -run Example ./... # Examples only
//
// [table]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/table
// [network]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/network
// [term]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/term
// [model]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/model
// [estimate/mple]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/estimate/mple
// [compare]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/compare
// [cache]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/netergm/pkg/render
package pkg
