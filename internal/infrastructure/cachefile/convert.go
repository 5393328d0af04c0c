package cachefile

import (
	"fmt"
	"io"
	"os"

	"textoverlay/internal/domain/entities"
)

// ConvertReport describes an offline conversion.
type ConvertReport struct {
	Entries   int
	Legacy    int
	Malformed int
	Backup    string
}

// Convert rewrites a cache file written with any supported separator into
// canonical form. The original file is first copied to path + ".backup".
// Duplicate originals keep the last translation.
func Convert(path string) (ConvertReport, error) {
	report := ConvertReport{Backup: path + ".backup"}

	if err := copyFile(path, report.Backup); err != nil {
		return report, fmt.Errorf("cachefile: backup: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return report, fmt.Errorf("cachefile: open %s: %w", path, err)
	}
	res, legacy, err := read(f)
	f.Close()
	if err != nil {
		return report, fmt.Errorf("cachefile: read %s: %w", path, err)
	}

	entries := dedupe(res.Entries)
	if err := writeFile(path, entries); err != nil {
		return report, err
	}

	report.Entries = len(entries)
	report.Legacy = legacy
	report.Malformed = res.Malformed
	return report, nil
}

func dedupe(entries []entities.CacheEntry) []entities.CacheEntry {
	index := make(map[string]int, len(entries))
	out := make([]entities.CacheEntry, 0, len(entries))
	for _, e := range entries {
		if i, ok := index[e.Original]; ok {
			out[i] = e
			continue
		}
		index[e.Original] = len(out)
		out = append(out, e)
	}
	return out
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
