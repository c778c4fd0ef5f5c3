package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/parsecore/format"
	"github.com/dhamidi/parsecore/grammar"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var workers int
	var lines bool

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Parse files and directories in parallel and report diagnostics",
		Long: `Parse every file given and every file with a known extension below the
directories given. Each file is parsed independently; the command fails when
any file has diagnostics or cannot be read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("jobs") {
				workers = a.cfg.Workers
			}
			if workers < 1 {
				return fmt.Errorf("jobs must be at least 1, got %d", workers)
			}
			resolver := a.cfg.resolver()
			files, err := collectFiles(args, resolver)
			if err != nil {
				return err
			}

			results := checkFiles(cmd.Context(), files, resolver, workers)

			stderr := cmd.ErrOrStderr()
			enc := format.NewLineEncoder(cmd.OutOrStdout())
			var failed, diagnostics int
			for _, r := range results {
				if r.err != nil {
					failed++
					fmt.Fprintln(stderr, r.err)
					continue
				}
				if r.result.OK() {
					continue
				}
				failed++
				diagnostics += len(r.result.Diagnostics)
				if lines {
					if err := enc.Encode(r.result); err != nil {
						return fmt.Errorf("encode line: %w", err)
					}
				} else {
					a.printDiagnostics(stderr, r.result)
				}
			}
			fmt.Fprintf(stderr, "checked %d files: %d diagnostics in %d files\n", len(results), diagnostics, failed)
			if failed > 0 {
				return errDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "jobs", "j", 0, "number of files parsed at once (default from config)")
	cmd.Flags().BoolVar(&lines, "lines", false, "print one line per diagnostic to standard output")

	return cmd
}

// collectFiles expands directories into the files below them that have a
// grammar. Hidden directories are skipped. Files named directly are kept
// even without a grammar so that checkFiles reports them.
func collectFiles(paths []string, resolver grammar.Resolver) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("check: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if _, err := resolver.Resolve(p); err == nil {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	}
	return files, nil
}

type checked struct {
	path   string
	result grammar.Result
	err    error
}

// checkFiles parses files with a bounded pool of workers. Results keep the
// order of files. Files not reached before ctx is done report its error.
func checkFiles(ctx context.Context, files []string, resolver grammar.Resolver, workers int) []checked {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]checked, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for n := min(workers, len(files)); n > 0; n-- {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = checkFile(files[i], resolver)
			}
		}()
	}

	next := 0
feed:
	for ; next < len(files); next++ {
		select {
		case jobs <- next:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(files); i++ {
		results[i] = checked{path: files[i], err: fmt.Errorf("%s: %w", files[i], ctx.Err())}
	}
	return results
}

func checkFile(path string, resolver grammar.Resolver) checked {
	g, err := resolver.Resolve(path)
	if err != nil {
		return checked{path: path, err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return checked{path: path, err: err}
	}
	log.Debugf("checking %s as %s", path, g.Name)
	return checked{path: path, result: g.Parse(path, string(data))}
}
