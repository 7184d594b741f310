// Package v8heap implements the heap-graph engine that turns a V8 JSON heap
// snapshot into a waste report: duplicate-object groups, hidden-class
// aggregates, and GC-root retention paths.
//
// # Package Organization
//
// Files are grouped by prefix:
//
//	core_*.go        - shared types, options, string table, error kinds
//	parser_*.go       - streaming snapshot reader, metadata/schema, top-level Parse
//	graph_*.go        - compact graph (SoA/CSR), builder, GC roots, predecessor index
//	dup_*.go          - color-refinement duplicate analyzer
//	hiddenclass_*.go  - hidden-class aggregation
//	retention_*.go    - multi-source BFS retention-path finder
//	report_*.go       - report assembly
//
// # Usage
//
//	graph, err := v8heap.Parse(r, v8heap.ParserOptions{}, logger)
//	rep, err := v8heap.Analyze(ctx, graph, v8heap.DefaultAnalysisOptions(), logger)
//
// # Key Types
//
//   - CompactGraph: read-only structure-of-arrays heap graph
//   - ParserOptions: progress-reporting knobs for Parse
//   - AnalysisOptions: top-K, refinement rounds, retention-path limits
//   - Report: the final logical report record
package v8heap
