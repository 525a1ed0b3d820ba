package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rcliao/blk-extract/internal/model"
)

// ErrNotDir is returned when the input path is not a directory.
var ErrNotDir = errors.New("not a directory")

// Options configures a directory scan.
type Options struct {
	// Workers bounds how many files are processed at once. Zero means one
	// per CPU.
	Workers int
}

// Summary is the outcome of scanning one directory.
type Summary struct {
	// Results holds one entry per supported file, sorted by file name,
	// including files that contributed nothing or failed to parse.
	Results []model.FileResult
	// Skipped lists entries that were not regular .blk or .blkx files,
	// including directories and dangling symlinks.
	Skipped []string
	// Failed counts files whose content could not be parsed.
	Failed int
}

type job struct {
	name string
	path string
	enc  model.Encoding
}

// Scan processes the top level of dir. Unsupported entries are skipped and
// parse failures are recorded per file; only I/O errors abort the scan.
func Scan(ctx context.Context, dir string, opts Options) (*Summary, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open input dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open input dir %s: %w", dir, ErrNotDir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	l := logger()
	sum := &Summary{}
	var jobs []job
	for _, e := range entries {
		name := e.Name()
		mode := e.Type()
		if mode&os.ModeSymlink != 0 {
			target, err := os.Stat(filepath.Join(dir, name))
			if err != nil {
				l.Info().Str("file", name).Err(err).Msg("skipping dangling symlink")
				sum.Skipped = append(sum.Skipped, name)
				continue
			}
			mode = target.Mode().Type()
		}
		if mode.IsDir() {
			l.Info().Str("file", name).Msg("skipping directory")
			sum.Skipped = append(sum.Skipped, name)
			continue
		}
		if !mode.IsRegular() {
			l.Info().Str("file", name).Msg("skipping non-regular file")
			sum.Skipped = append(sum.Skipped, name)
			continue
		}
		enc, ok := model.EncodingForExt(filepath.Ext(name))
		if !ok {
			l.Info().Str("file", name).Msg("skipping non-blk/blkx file")
			sum.Skipped = append(sum.Skipped, name)
			continue
		}
		jobs = append(jobs, job{name: name, path: filepath.Join(dir, name), enc: enc})
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]model.FileResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l.Debug().Str("file", j.name).Msg("processing file")
			data, err := os.ReadFile(j.path)
			if err != nil {
				return fmt.Errorf("read %s: %w", j.name, err)
			}
			results[i] = Process(model.SourceDocument{
				Name:     j.name,
				Stem:     strings.TrimSuffix(j.name, filepath.Ext(j.name)),
				Encoding: j.enc,
				Content:  data,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Name < results[b].Name })
	for _, r := range results {
		if r.Err != nil {
			l.Warn().Str("file", r.Name).Err(r.Err).Msg("failed to parse file")
			sum.Failed++
		}
	}
	sum.Results = results
	return sum, nil
}
