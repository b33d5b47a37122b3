package convert

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	fixzip "github.com/hidez8891/zip"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"tomdx/archive"
	"tomdx/config"
	"tomdx/utils/images"
)

const picturesPrefix = "Pictures/"

// extractPictures copies package pictures into dir. Existing files are kept
// and StarView metafiles are skipped. Wide pictures are downscaled.
func extractPictures(ctx context.Context, pkg *archive.Package, dir string, cfg *config.ImagesConfig, log *zap.Logger) error {
	var names []string
	if err := pkg.Walk(picturesPrefix, func(f *fixzip.File) error {
		if !strings.EqualFold(filepath.Ext(f.Name), ".svm") {
			names = append(names, f.Name)
		}
		return nil
	}); err != nil {
		return err
	}
	sort.Sort(natural.StringSlice(names))

	copied := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		target := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(name, picturesPrefix)))
		if _, err := os.Stat(target); err == nil {
			log.Debug("Picture already exists, keeping", zap.String("file", target))
			continue
		}

		data, err := pkg.Read(name)
		if err != nil {
			return err
		}
		if _, ok := images.Detect(data); !ok {
			log.Warn("Picture format was not recognized, copying as is", zap.String("picture", name))
		} else if fitted, resized, err := images.Fit(data, cfg.MaxWidth, cfg.JPEGQuality); err != nil {
			log.Warn("Unable to resize picture, copying as is", zap.String("picture", name), zap.Error(err))
		} else if resized {
			log.Debug("Picture downscaled", zap.String("picture", name), zap.Int("width", cfg.MaxWidth))
			data = fitted
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return err
		}
		copied++
	}
	log.Debug("Pictures extracted", zap.String("dir", dir), zap.Int("copied", copied), zap.Int("total", len(names)))
	return nil
}
