package cachefile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
)

var _ output.CacheStore = (*Store)(nil)

// maxLine bounds a single record. Longer lines are dropped as malformed.
const maxLine = 1 << 20

// Store implements output.CacheStore on a text file.
type Store struct {
	path string
	log  *slog.Logger
}

// NewStore creates a Store for path. The file need not exist yet.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, log: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads every record. A missing file is an empty cache.
func (s *Store) Load(ctx context.Context) (entities.LoadResult, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entities.LoadResult{}, nil
	}
	if err != nil {
		return entities.LoadResult{}, fmt.Errorf("cachefile: open %s: %w", s.path, err)
	}
	defer f.Close()

	res, legacy, err := read(f)
	if err != nil {
		return res, fmt.Errorf("cachefile: read %s: %w", s.path, err)
	}
	if legacy > 0 {
		s.log.Warn("cachefile: legacy separators found, run convert to rewrite",
			"path", s.path, "lines", legacy)
	}
	return res, nil
}

func read(r io.Reader) (entities.LoadResult, int, error) {
	var (
		res    entities.LoadResult
		legacy int
	)
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, tooLong, err := readLine(br)
		if errors.Is(err, io.EOF) {
			return res, legacy, nil
		}
		if err != nil {
			return res, legacy, err
		}
		if tooLong {
			res.Malformed++
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, format, err := ParseLine(line)
		if err != nil {
			res.Malformed++
			continue
		}
		if format != FormatCanonical {
			legacy++
		}
		res.Entries = append(res.Entries, entry)
	}
}

// readLine returns the next line without its terminator. A line longer than
// maxLine is consumed up to its end and reported as tooLong with no content.
func readLine(br *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLine {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// Save rewrites the file with every entry in canonical form, sorted by
// original text. The write goes through a temporary file and a rename.
func (s *Store) Save(ctx context.Context, entries []entities.CacheEntry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("cachefile: create dir: %w", err)
	}
	return writeFile(s.path, entries)
}

func writeFile(path string, entries []entities.CacheEntry) error {
	sorted := make([]entities.CacheEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Original < sorted[j].Original })

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cachefile: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, e := range sorted {
		if _, err := w.WriteString(FormatLine(e) + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("cachefile: write: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("cachefile: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cachefile: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cachefile: replace %s: %w", path, err)
	}
	return nil
}
