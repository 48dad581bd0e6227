package runner

import (
	"context"

	"sql-doctest/internal/compare"
	"sql-doctest/internal/dialect"
	"sql-doctest/internal/extract"
	"sql-doctest/internal/model"
	"sql-doctest/internal/scanner"
)

// Runner drives the whole pipeline: walk the tree, scan each file for test
// blocks, execute its queries against the engine and aggregate verdicts.
type Runner struct {
	Engine   model.Engine
	Marker   string
	Jobs     int
	Excludes []string
}

// Run processes the given roots and returns the finalized report. Per-test
// failures never abort the run; the only errors returned are traversal-level
// ones (e.g. a root that does not exist).
func (r *Runner) Run(ctx context.Context, roots []string) (*model.Report, error) {
	agg := NewAggregator()
	ext := extract.New()
	proc := r.fileProcessor(ctx, ext)

	for _, root := range roots {
		walker := scanner.NewFileWalker(dialect.Extensions(), r.Excludes)
		paths, errs := walker.Walk(ctx, root)

		pool := scanner.NewWorkerPool(r.Jobs, proc)
		results := pool.Start(ctx, paths)

		for res := range results {
			if res.Error != nil {
				agg.FileError(res.File, res.Error)
				continue
			}
			agg.Record(res.Result)
		}
		if err := <-errs; err != nil {
			return nil, err
		}
	}

	return agg.Finalize(), nil
}

// fileProcessor builds the per-file pipeline: read, scan regions, extract
// test cases, execute and compare. One engine session per file keeps
// non-transactional state file-local.
func (r *Runner) fileProcessor(ctx context.Context, ext *extract.Extractor) scanner.Processor {
	marker := r.Marker
	if marker == "" {
		marker = dialect.DefaultMarker
	}

	return func(path string) (model.FileResult, error) {
		out := model.FileResult{File: path}

		d := dialect.ForFile(path, marker)
		if d == nil {
			return out, nil
		}

		text, err := scanner.ReadFile(path)
		if err != nil {
			return out, err
		}

		regions, diags := d.Scan(path, text)
		out.Diagnostics = diags

		var tests []model.TestCase
		for _, region := range regions {
			tests = append(tests, ext.Tests(region)...)
		}
		if len(tests) == 0 {
			return out, nil
		}

		sess, err := r.Engine.Session(ctx)
		if err != nil {
			return out, err
		}
		defer sess.Close()

		for _, tc := range tests {
			output, execErr := sess.Execute(ctx, tc.Query, tc.Transactional)
			verdict := compare.Compare(tc, model.ExecutionResult{Output: output, Err: execErr})
			out.Verdicts = append(out.Verdicts, verdict)
		}
		return out, nil
	}
}
