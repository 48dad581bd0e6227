package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"sql-doctest/internal/model"
)

func TestFileWalker_Walk(t *testing.T) {
	rootDir, err := os.MkdirTemp("", "scanner-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(rootDir)

	files := []string{
		"store.c",
		"store.h",
		"lib.rs",
		"README.md",
		"notes.txt",
		"sub/queries.rs",
		"sub/skipme/inner.c",
		"vendor/vendored.c",
		".git/objects/aa.md",
	}

	for _, f := range files {
		path := filepath.Join(rootDir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name     string
		exts     []string
		excludes []string
		want     []string
	}{
		{
			name:     "All dialect extensions",
			exts:     []string{"c", "h", "rs", "md"},
			excludes: []string{"vendor", "skipme"},
			want: []string{
				"README.md",
				"lib.rs",
				"store.c",
				"store.h",
				"sub/queries.rs",
			},
		},
		{
			name:     "Rust only",
			exts:     []string{"rs"},
			excludes: []string{"vendor", "skipme"},
			want: []string{
				"lib.rs",
				"sub/queries.rs",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			walker := NewFileWalker(tt.exts, tt.excludes)

			var got []string
			paths, errs := walker.Walk(context.Background(), rootDir)
			for p := range paths {
				rel, err := filepath.Rel(rootDir, p)
				if err != nil {
					t.Fatalf("Rel error: %v", err)
				}
				got = append(got, filepath.ToSlash(rel))
			}
			if err := <-errs; err != nil {
				t.Fatalf("Walk() error = %v", err)
			}

			sort.Strings(got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("%s: Walk() got %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestFileWalker_SingleFileRoot(t *testing.T) {
	rootDir, err := os.MkdirTemp("", "scanner-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(rootDir)

	// Extension is not in the set; an explicit root file is taken anyway.
	file := filepath.Join(rootDir, "cases.sqltest")
	if err := os.WriteFile(file, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	walker := NewFileWalker([]string{"md"}, nil)
	paths, errs := walker.Walk(context.Background(), file)

	var got []string
	for p := range paths {
		got = append(got, p)
	}
	if err := <-errs; err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(got) != 1 || got[0] != file {
		t.Errorf("Walk() got %v, want [%s]", got, file)
	}
}

func TestWorkerPool_Start(t *testing.T) {
	mockProc := func(path string) (model.FileResult, error) {
		return model.FileResult{
			File:     path,
			Verdicts: []model.Verdict{{Status: model.StatusPassed}},
		}, nil
	}

	pool := NewWorkerPool(2, mockProc)
	paths := make(chan string, 5)

	for i := 0; i < 5; i++ {
		paths <- "dummy_path"
	}
	close(paths)

	results := pool.Start(context.Background(), paths)

	count := 0
	for res := range results {
		if res.Error != nil {
			t.Errorf("WorkerPool error: %v", res.Error)
		}
		if len(res.Result.Verdicts) != 1 {
			t.Errorf("Expected 1 verdict, got %d", len(res.Result.Verdicts))
		}
		count++
	}

	if count != 5 {
		t.Errorf("Expected 5 results, got %d", count)
	}
}

func TestWorkerPool_ForwardsErrors(t *testing.T) {
	wantErr := errors.New("unreadable")
	pool := NewWorkerPool(1, func(path string) (model.FileResult, error) {
		return model.FileResult{File: path}, wantErr
	})

	paths := make(chan string, 1)
	paths <- "broken.md"
	close(paths)

	results := pool.Start(context.Background(), paths)
	res, ok := <-results
	if !ok {
		t.Fatal("expected one result")
	}
	if !errors.Is(res.Error, wantErr) {
		t.Errorf("Start() error = %v, want %v", res.Error, wantErr)
	}
}
