package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	config "github.com/mdriyaz-a/captionflow/configs"
	"github.com/mdriyaz-a/captionflow/internal/imaging"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrFileTypeNotAllowed = errors.New("file type not allowed, supported formats: JPG, JPEG, PNG, GIF")

var allowedImageTypes = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// ArtifactService owns stored image files: saving uploads (with the save-time
// size cap), mirroring them to R2 when configured, and resolving possibly
// stale stored paths back to a readable file.
type ArtifactService interface {
	SaveUpload(ctx context.Context, userID int64, originalName string, data []byte) (string, error)
	// Resolve tolerates path drift: the literal path first, then the
	// basename joined with the upload dir and the other known base dirs.
	Resolve(storedPath string) (string, error)
}

type artifactService struct {
	cfg config.Config
	r2  *R2Service
}

func NewArtifactService(cfg config.Config, r2 *R2Service) ArtifactService {
	return &artifactService{cfg: cfg, r2: r2}
}

func (s *artifactService) SaveUpload(ctx context.Context, userID int64, originalName string, data []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if !allowedImageTypes[ext] {
		return "", ErrFileTypeNotAllowed
	}

	// Sniff the content too; the extension alone is attacker-controlled.
	kind, err := filetype.Match(data)
	if err != nil || !allowedImageTypes[kind.Extension] {
		return "", ErrFileTypeNotAllowed
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	filename := fmt.Sprintf("%d_%s.%s", userID, id, ext)
	path := filepath.Join(s.cfg.UploadDir, filename)

	if err := imaging.SaveUpload(data, path); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if s.r2 != nil && s.cfg.R2.BucketName != "" {
		// Local disk stays authoritative; a failed mirror is logged only.
		stored, err := os.ReadFile(path)
		if err == nil {
			if err := s.r2.UploadToR2(ctx, filename, stored, kind.MIME.Value); err != nil {
				slog.Info("r2 mirror failed: " + err.Error())
			}
		}
	}

	return path, nil
}

func (s *artifactService) Resolve(storedPath string) (string, error) {
	if storedPath == "" {
		return "", errors.New("no artifact path stored")
	}

	basename := filepath.Base(storedPath)
	candidates := []string{
		storedPath,
		filepath.Join(s.cfg.UploadDir, basename),
		filepath.Join(s.cfg.StaticDir, basename),
		basename,
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("artifact %s not found in any known location", basename)
}
