package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Local stores each key as a file under BaseDir. Writes go through a temp file
// plus rename so a crash never leaves a half-written record.
type Local struct {
	BaseDir string
}

func NewLocal(baseDir string) *Local {
	return &Local{BaseDir: baseDir}
}

func (l *Local) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx

	data, err := os.ReadFile(l.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (l *Local) Set(ctx context.Context, key string, value []byte) error {
	_ = ctx

	if err := os.MkdirAll(l.BaseDir, 0o755); err != nil {
		return err
	}

	dst := l.path(key)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}

func (l *Local) Delete(ctx context.Context, key string) error {
	_ = ctx

	err := os.Remove(l.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// path hashes the key so arbitrary key strings stay filesystem-safe.
func (l *Local) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(l.BaseDir, hex.EncodeToString(sum[:16])+".json")
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }
