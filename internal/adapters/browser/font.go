package browser

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"textoverlay/internal/domain"
	"textoverlay/internal/domain/entities"
)

// LoadFont registers the font file as a FontFace in the page. The returned
// ref carries the CSS family name as its handle.
func (h *Host) LoadFont(ctx context.Context, path string) (*entities.FontRef, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("browser: font %s: %w", path, domain.ErrFontNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("browser: read font %s: %w", path, err)
	}

	family := familyName(path)
	if _, err := h.page.Context(ctx).Eval(loadFontJS, family, base64.StdEncoding.EncodeToString(data)); err != nil {
		return nil, fmt.Errorf("browser: load font %s: %w", path, err)
	}
	h.cfg.Logger.Info("browser: font registered", "family", family, "bytes", len(data))
	return &entities.FontRef{Name: filepath.Base(path), Path: path, Handle: family}, nil
}

// familyName derives a CSS-safe family name from a font file path.
func familyName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	b.WriteString("tl-")
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
