package catalog

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"gamelist/internal/errors"
	"gamelist/internal/game"
	"gamelist/internal/log"

	"github.com/charlievieth/fastwalk"
	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"
)

// Inspector reads a game file's metadata
type Inspector interface {
	Inspect(path string) (*game.File, error)
}

// ScanResult is what a directory scan found
type ScanResult struct {
	Games []*game.File
	// Dirs lists every directory walked, starting with the root
	Dirs []string
}

// Scanner walks game directories for files with a known extension
type Scanner struct {
	inspector Inspector
	matcher   glob.Glob
	recursive bool
	workers   int
}

// NewScanner builds a scanner matching the given extensions, without dots
func NewScanner(inspector Inspector, extensions []string, recursive bool) (*Scanner, error) {
	if len(extensions) == 0 {
		return nil, errors.NewConfigError("no extensions to scan for", "extensions", errors.InvalidConfig, nil)
	}
	exts := make([]string, len(extensions))
	for i, e := range extensions {
		exts[i] = strings.ToLower(strings.TrimPrefix(e, "."))
	}
	pattern := "*.{" + strings.Join(exts, ",") + "}"
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.NewConfigError("invalid extension list", pattern, errors.InvalidConfig, err)
	}
	return &Scanner{
		inspector: inspector,
		matcher:   matcher,
		recursive: recursive,
		workers:   runtime.NumCPU(),
	}, nil
}

// Match reports whether path has one of the scanned extensions
func (s *Scanner) Match(path string) bool {
	return s.matcher.Match(strings.ToLower(filepath.Base(path)))
}

// Recursive reports whether subdirectories are scanned
func (s *Scanner) Recursive() bool {
	return s.recursive
}

// Scan walks dir and inspects every matching file. Files that are not games
// are skipped; the walk only fails when dir itself cannot be read.
func (s *Scanner) Scan(ctx context.Context, dir string) (*ScanResult, error) {
	root := filepath.Clean(dir)

	var (
		mu    sync.Mutex
		paths []string
		dirs  = []string{root}
	)
	conf := fastwalk.Config{Follow: false, NumWorkers: s.workers}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.LogWithFields(log.F("path", path)).Warnf("skipping unreadable entry: %v", err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !s.recursive {
				return filepath.SkipDir
			}
			mu.Lock()
			dirs = append(dirs, path)
			mu.Unlock()
			return nil
		}
		if s.Match(path) {
			mu.Lock()
			paths = append(paths, path)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, errors.NewFileError("cannot scan directory", root, errors.FileAccessDenied, err)
	}

	sort.Strings(paths)
	sort.Strings(dirs[1:])
	games := make([]*game.File, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := s.inspector.Inspect(path)
			if err != nil {
				log.LogWithError(err).Debug("skipping file")
				return nil
			}
			games[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	found := games[:0]
	for _, f := range games {
		if f != nil {
			found = append(found, f)
		}
	}

	log.LogWithFields(log.F("directory", root), log.F("games", len(found))).Info("Scanned directory")
	return &ScanResult{Games: found, Dirs: dirs}, nil
}
