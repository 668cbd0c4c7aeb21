package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	enc "github.com/MrJamesThe3rd/cfi/internal/encoding"
	"github.com/MrJamesThe3rd/cfi/internal/truth"
)

// Store keeps the truth file on local disk. Every save first copies the
// previous file into the backup directory and then replaces the truth file
// atomically.
type Store struct {
	path      string
	backupDir string
	decoder   *enc.Decoder
	now       func() time.Time
}

// New returns a Store for the truth file at path. decoder reads the file,
// which may have been edited and re-saved by spreadsheet tools.
func New(path, backupDir string, decoder *enc.Decoder) *Store {
	return &Store{
		path:      path,
		backupDir: backupDir,
		decoder:   decoder,
		now:       time.Now,
	}
}

// Load reads the truth file. A missing file is an empty store.
func (s *Store) Load(ctx context.Context) (*truth.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("truth file not found, starting empty", "path", s.path)
			return truth.NewStore(truth.DefaultKeyColumn, truth.MetricFields), nil
		}

		return nil, fmt.Errorf("opening truth file: %w", err)
	}
	defer f.Close()

	r, err := s.decoder.NewUTF8Reader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding truth file: %w", err)
	}

	st, err := truth.Load(r)
	if err != nil {
		return nil, fmt.Errorf("loading truth file %s: %w", s.path, err)
	}

	return st, nil
}

// Save writes st over the truth file.
func (s *Store) Save(ctx context.Context, st *truth.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating truth directory: %w", err)
	}

	backup, err := s.backup()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := st.WriteCSV(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing truth: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing truth file: %w", err)
	}

	slog.Info("truth file saved", "path", s.path, "ranges", st.Len(), "backup", backup)

	return nil
}

// backup copies the current truth file and returns the backup path, or ""
// when there is nothing to back up.
func (s *Store) backup() (string, error) {
	src, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}

		return "", fmt.Errorf("opening truth file for backup: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	base := filepath.Base(s.path)
	ext := filepath.Ext(base)
	name := fmt.Sprintf("%s_%s_%s%s",
		strings.TrimSuffix(base, ext),
		s.now().Format("20060102T150405"),
		uuid.NewString()[:8],
		ext,
	)
	path := filepath.Join(s.backupDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating backup: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}

	return path, nil
}
