package runner

import (
	"sort"
	"sync"

	"sql-doctest/internal/model"
)

// Aggregator is the single shared mutable structure of a run. Workers record
// whole-file results under a lock; Finalize orders files by path so a run's
// report is deterministic regardless of worker scheduling.
type Aggregator struct {
	mu     sync.Mutex
	files  []model.FileResult
	failed []model.FileError
	sealed bool
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record adds one file's verdicts and diagnostics. In-file order is kept as
// delivered.
func (a *Aggregator) Record(res model.FileResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sealed {
		panic("aggregator: record after finalize")
	}
	a.files = append(a.files, res)
}

// FileError records a file that could not be processed at all.
func (a *Aggregator) FileError(file string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failed = append(a.failed, model.FileError{File: file, Err: err})
}

// Finalize seals the aggregator and builds the report.
func (a *Aggregator) Finalize() *model.Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sealed = true

	sort.Slice(a.files, func(i, j int) bool { return a.files[i].File < a.files[j].File })
	sort.Slice(a.failed, func(i, j int) bool { return a.failed[i].File < a.failed[j].File })

	report := &model.Report{FileErrors: a.failed}
	for _, f := range a.files {
		report.Diagnostics = append(report.Diagnostics, f.Diagnostics...)
		for _, v := range f.Verdicts {
			report.Verdicts = append(report.Verdicts, v)
			report.Total++
			switch v.Status {
			case model.StatusPassed:
				report.Passed++
			case model.StatusFailed:
				report.Failed++
			case model.StatusSkipped:
				report.Skipped++
			case model.StatusExecError:
				report.ExecErrors++
			}
		}
	}
	return report
}
