package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/ingest"
	"github.com/rs/zerolog/log"
)

// Source is the subset of Service the syncer needs.
type Source interface {
	FindFolderByPath(ctx context.Context, path string) (string, error)
	ListFiles(ctx context.Context, folderID string) ([]File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

type FileImporter interface {
	ImportFile(ctx context.Context, path string) (*ingest.Stats, error)
}

// FileResult is the outcome for one synced file.
type FileResult struct {
	Name  string
	Path  string
	Stats *ingest.Stats
	Err   error
}

type Syncer struct {
	source   Source
	importer FileImporter
}

func NewSyncer(source Source, importer FileImporter) *Syncer {
	return &Syncer{source: source, importer: importer}
}

func isSalesFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// Download copies every CSV and XLSX file in folderPath into downloadDir and
// returns the local paths.
func (s *Syncer) Download(ctx context.Context, folderPath, downloadDir string) ([]string, error) {
	if downloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	folderID, err := s.source.FindFolderByPath(ctx, folderPath)
	if err != nil {
		return nil, err
	}
	files, err := s.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !isSalesFile(f.Name) {
			continue
		}

		localPath := filepath.Join(downloadDir, filepath.Base(f.Name))
		if err := s.download(ctx, f, localPath); err != nil {
			return nil, err
		}
		localPaths = append(localPaths, localPath)
	}
	return localPaths, nil
}

func (s *Syncer) download(ctx context.Context, f File, localPath string) error {
	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}
	defer out.Close()

	if err := s.source.DownloadFile(ctx, f.ID, out); err != nil {
		return fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	return nil
}

// Sync downloads then imports each file. A file that fails to import is
// recorded in its result and the rest continue.
func (s *Syncer) Sync(ctx context.Context, folderPath, downloadDir string) ([]FileResult, error) {
	paths, err := s.Download(ctx, folderPath, downloadDir)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, 0, len(paths))
	for _, p := range paths {
		res := FileResult{Name: filepath.Base(p), Path: p}
		res.Stats, res.Err = s.importer.ImportFile(ctx, p)
		if res.Err != nil {
			log.Error().Err(res.Err).Str("file", res.Name).Msg("drive: import failed")
		} else {
			log.Info().Str("file", res.Name).Int("imported", res.Stats.Imported).Msg("drive: file imported")
		}
		results = append(results, res)
	}
	return results, nil
}
