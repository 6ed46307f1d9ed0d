package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type LocalSource struct {
	BaseDir string
}

func NewLocalSource(baseDir string) *LocalSource {
	if baseDir == "" {
		baseDir = "."
	}
	return &LocalSource{BaseDir: baseDir}
}

func (s *LocalSource) Open(ctx context.Context, sourcePath string) (io.ReadCloser, error) {
	_ = ctx

	path := s.resolve(sourcePath)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	return file, nil
}

func (s *LocalSource) ReadBytes(ctx context.Context, sourcePath string) ([]byte, error) {
	reader, err := s.Open(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", sourcePath, err)
	}
	return data, nil
}

// ReadText decodes the whole file with the named encoding (WHATWG labels such
// as "utf-8", "ascii", "latin1"). A leading UTF-8 or UTF-16 byte order mark
// overrides the label and is stripped.
func (s *LocalSource) ReadText(ctx context.Context, sourcePath, encoding string) (string, error) {
	if encoding == "" {
		encoding = "utf-8"
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q: %w", encoding, err)
	}

	reader, err := s.Open(ctx, sourcePath)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	decoded, err := io.ReadAll(transform.NewReader(reader, unicode.BOMOverride(enc.NewDecoder())))
	if err != nil {
		return "", fmt.Errorf("decode file %s as %s: %w", sourcePath, encoding, err)
	}
	return string(decoded), nil
}

func (s *LocalSource) resolve(sourcePath string) string {
	if filepath.IsAbs(sourcePath) {
		return sourcePath
	}
	return filepath.Join(s.BaseDir, sourcePath)
}
