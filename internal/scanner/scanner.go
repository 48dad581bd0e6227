package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"sql-doctest/internal/model"
)

// FileWalker is responsible for traversing directories and feeding files to a channel
type FileWalker struct {
	Extensions map[string]struct{}
	Excludes   []string
}

func NewFileWalker(exts []string, excludes []string) *FileWalker {
	e := make(map[string]struct{})
	for _, ext := range exts {
		e[strings.ToLower(ext)] = struct{}{}
	}
	return &FileWalker{
		Extensions: e,
		Excludes:   excludes,
	}
}

// Walk starts the traversal and returns a channel of file paths, in lexical
// order. A root that is itself a file is emitted regardless of extension.
// Runs in a separate goroutine and closes the channels when done.
func (fw *FileWalker) Walk(ctx context.Context, root string) (<-chan string, <-chan error) {
	paths := make(chan string, 100)
	errs := make(chan error, 1)

	go func() {
		defer close(paths)
		defer close(errs)

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if d.IsDir() {
				for _, exclude := range fw.Excludes {
					if strings.Contains(path, exclude) {
						return filepath.SkipDir
					}
				}
				if strings.HasPrefix(d.Name(), ".") && d.Name() != "." {
					return filepath.SkipDir // hidden directories like .git
				}
				return nil
			}

			for _, exclude := range fw.Excludes {
				matched, _ := filepath.Match(exclude, d.Name())
				if matched || strings.Contains(path, exclude) {
					return nil
				}
			}

			// A file given explicitly on the command line is always taken.
			if path != root {
				ext := strings.ToLower(filepath.Ext(path))
				if len(ext) > 0 {
					ext = ext[1:]
				}
				if _, ok := fw.Extensions[ext]; !ok {
					return nil
				}
			}

			select {
			case paths <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})

		if err != nil {
			errs <- err
		}
	}()

	return paths, errs
}

// ScanResult is the outcome of running the per-file pipeline on one path
type ScanResult struct {
	File   string
	Result model.FileResult
	Error  error
}

// Processor runs the full pipeline for one file
type Processor func(path string) (model.FileResult, error)

// WorkerPool fans file paths out to concurrent pipeline workers. Files are
// independent of each other, so the only ordering guarantee needed is the
// in-file verdict order each Processor call preserves on its own.
type WorkerPool struct {
	Concurrency int
	Processor   Processor
}

func NewWorkerPool(concurrency int, proc Processor) *WorkerPool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &WorkerPool{
		Concurrency: concurrency,
		Processor:   proc,
	}
}

func (wp *WorkerPool) Start(ctx context.Context, paths <-chan string) <-chan ScanResult {
	results := make(chan ScanResult)
	var wg sync.WaitGroup

	for i := 0; i < wp.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				select {
				case <-ctx.Done():
					return
				default:
					res, err := wp.Processor(path)
					// Errors are sent along too: a file that cannot be
					// processed is reported, not dropped silently.
					select {
					case results <- ScanResult{File: path, Result: res, Error: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// ReadFile is the single I/O seam of the pipeline, split out so tests can
// exercise unreadable-file handling.
func ReadFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
