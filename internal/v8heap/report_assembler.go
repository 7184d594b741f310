package v8heap

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/v8waste/pkg/parallel"
	"github.com/v8waste/pkg/utils"
)

var tracer = otel.Tracer("v8waste")

// Analyze runs the full single-threaded phased pipeline over an already
// built CompactGraph — duplicates, then hidden classes, then retention
// paths, then assembly — and returns the logical report (spec.md §2, §5).
// Phases run in this fixed order; within the duplicate-analyzer and
// retention-path phases, internal fan-out is used as a speed optimization
// that does not change the phases' sequential output (spec.md §5).
func Analyze(ctx context.Context, g *CompactGraph, opts AnalysisOptions, log utils.Logger) (*Report, error) {
	if log == nil {
		log = &utils.NullLogger{}
	}

	dupCtx, dupSpan := tracer.Start(ctx, "duplicates")
	hashes, exhausted := colorRefine(dupCtx, g, opts.MaxRefinementRounds)
	if exhausted {
		log.Warn("color refinement exhausted %d rounds before stabilizing", opts.MaxRefinementRounds)
	}
	allDuplicates := BuildDuplicateGroups(g, hashes, opts)
	log.Info("duplicate analyzer found %d groups", len(allDuplicates))
	dupSpan.SetAttributes(
		attribute.Int("groups", len(allDuplicates)),
		attribute.Bool("refinement_exhausted", exhausted),
	)
	dupSpan.End()

	_, hiddenSpan := tracer.Start(ctx, "hidden_classes")
	hiddenClasses := BuildHiddenClassGroups(g, opts)
	log.Info("hidden-class analyzer found %d constructors", len(hiddenClasses))
	hiddenSpan.SetAttributes(attribute.Int("constructors", len(hiddenClasses)))
	hiddenSpan.End()

	topDup := allDuplicates
	if opts.TopK > 0 && len(topDup) > opts.TopK {
		topDup = topDup[:opts.TopK]
	}
	topHidden := hiddenClasses
	if opts.TopK > 0 && len(topHidden) > opts.TopK {
		topHidden = topHidden[:opts.TopK]
	}

	retentionCtx, retentionSpan := tracer.Start(ctx, "retention")
	finder := NewRetentionFinder(g)
	dupReports := assembleDuplicateReports(retentionCtx, g, finder, topDup, opts)
	log.Info("retention path finder resolved %d duplicate-group representatives", len(dupReports))
	retentionSpan.SetAttributes(attribute.Int("targets", len(dupReports)))
	retentionSpan.End()

	_, assembleSpan := tracer.Start(ctx, "assemble_report")
	defer assembleSpan.End()

	hiddenReports := make([]HiddenClassGroupReport, len(topHidden))
	for i, hc := range topHidden {
		hiddenReports[i] = HiddenClassGroupReport{
			ConstructorName: hc.ConstructorName,
			TotalSize:       hc.TotalSize,
			InstanceCount:   hc.InstanceCount,
			DistinctShapes:  hc.DistinctShapes,
			ShapeThrash:     hc.ShapeThrash,
		}
	}

	var totalWasted int64
	for _, grp := range allDuplicates {
		totalWasted += grp.TotalWasted
	}

	assembleSpan.SetAttributes(
		attribute.Int("nodes", g.NodeCount()),
		attribute.Int("edges", g.EdgeCount()),
		attribute.Int64("total_wasted", totalWasted),
	)

	return &Report{
		Summary: Summary{
			TotalObjects:    g.NodeCount(),
			DuplicateGroups: len(allDuplicates),
			TotalWasted:     totalWasted,
		},
		DuplicateGroups:          dupReports,
		HiddenClassGroups:        hiddenReports,
		ColorRefinementExhausted: exhausted,
	}, nil
}

// assembleDuplicateReports resolves retention paths for every selected
// group's representative in a single batch. Each target is independent,
// so the batch is parallelized with parallel.ForEach (spec.md §4.6,
// "queries the Path Finder in a single batch").
func assembleDuplicateReports(ctx context.Context, g *CompactGraph, finder *RetentionFinder, groups []DuplicateGroup, opts AnalysisOptions) []DuplicateGroupReport {
	reports := make([]DuplicateGroupReport, len(groups))
	idx := make([]int, len(groups))
	for i := range idx {
		idx[i] = i
	}

	cfg := parallel.DefaultPoolConfig()
	parallel.ForEach(ctx, idx, cfg, func(_ context.Context, i int) error {
		grp := groups[i]
		paths := finder.FindPaths(grp.Representative, opts.MaxRetentionPaths)

		nodeIDs := make([]int64, len(grp.Members))
		for j, m := range grp.Members {
			nodeIDs[j] = g.ID(m)
		}

		reports[i] = DuplicateGroupReport{
			ObjectType:         grp.Kind.String(),
			RepresentativeName: grp.Name,
			Count:              grp.Count,
			SizePerObject:      grp.SizePerObject,
			TotalWasted:        grp.TotalWasted,
			RepresentativeID:   g.ID(grp.Representative),
			NodeIDs:            nodeIDs,
			RetentionPaths:     paths,
		}
		return nil
	})

	return reports
}
