package model

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"reviewsense/internal/config"
	"reviewsense/internal/emoji"
)

// Loader reads the three scoring artifacts, downloading any that are missing
// locally and have a URL configured.
type Loader struct {
	cfg    config.ArtifactsConfig
	client *http.Client
}

func NewLoader(cfg config.ArtifactsConfig) *Loader {
	return &Loader{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Load returns a verified artifact set. Any failure means the process must
// not start serving.
func (l *Loader) Load(ctx context.Context) (*Artifacts, error) {
	digest := sha256.New()

	var vec *TfidfVectorizer
	if err := l.open(ctx, "vectorizer", l.cfg.Vectorizer, digest, func(r io.Reader) (err error) {
		vec, err = LoadVectorizer(r)
		return err
	}); err != nil {
		return nil, err
	}

	var cls *LinearClassifier
	if err := l.open(ctx, "classifier", l.cfg.Classifier, digest, func(r io.Reader) (err error) {
		cls, err = LoadClassifier(r)
		return err
	}); err != nil {
		return nil, err
	}

	var table *emoji.Table
	if err := l.open(ctx, "emoji table", l.cfg.Emoji, digest, func(r io.Reader) (err error) {
		table, err = emoji.LoadTable(r)
		return err
	}); err != nil {
		return nil, err
	}

	a := &Artifacts{
		Vectorizer:  vec,
		Classifier:  cls,
		Emoji:       table,
		Fingerprint: hex.EncodeToString(digest.Sum(nil))[:16],
	}
	if err := a.Check(); err != nil {
		return nil, err
	}

	slog.Info("artifacts loaded",
		"vectorizer_width", vec.Width(),
		"classifier_width", cls.Width(),
		"emoji_entries", table.Len(),
		"fingerprint", a.Fingerprint,
	)

	return a, nil
}

func (l *Loader) path(src config.ArtifactSource) string {
	if filepath.IsAbs(src.Path) || l.cfg.Dir == "" {
		return src.Path
	}
	return filepath.Join(l.cfg.Dir, src.Path)
}

func (l *Loader) open(ctx context.Context, name string, src config.ArtifactSource, digest hash.Hash, decode func(io.Reader) error) error {
	path := l.path(src)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && src.URL != "" {
		slog.Info("downloading artifact", "name", name, "path", path)
		if err := l.download(ctx, src.URL, path); err != nil {
			return fmt.Errorf("download %s: %w", name, err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := io.TeeReader(f, digest)
	if err := decode(r); err != nil {
		return fmt.Errorf("load %s from %s: %w", name, path, err)
	}

	// The decoder may stop before EOF; the fingerprint covers the whole file.
	if _, err := io.Copy(io.Discard, r); err != nil {
		return fmt.Errorf("read %s from %s: %w", name, path, err)
	}
	return nil
}

// download writes url to a temp file next to dst and renames it into place,
// so a failed or interrupted download never leaves a partial artifact.
func (l *Loader) download(ctx context.Context, url, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), dst)
}
