package convert

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"tomdx/config"
	"tomdx/odp"
	"tomdx/state"
)

// buildOutputName returns output name without extension relative to pages
// and images directories. It comes from the configured template and may
// contain subdirectories, every segment is cleaned up and transliterated if
// requested. Source file name is used when template expansion fails.
func buildOutputName(meta *odp.Metadata, src string, env *state.LocalEnv) string {
	values := buildValues(config.OutputNameTemplateFieldName, meta, src)

	var expanded string
	if tmpl := env.Cfg.Document.OutputNameTemplate; tmpl != "" {
		var err error
		if expanded, err = expandTemplate(config.OutputNameTemplateFieldName, tmpl, values); err != nil {
			env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		}
	}

	segments := splitPath(filepath.FromSlash(expanded))
	if len(segments) == 0 {
		return cleanPathSegment(values.SourceName, env)
	}
	for i, s := range segments {
		segments[i] = cleanPathSegment(s, env)
	}
	return filepath.Join(segments...)
}

// splitPath breaks path into non empty segments, "." and ".." are dropped so
// result always stays under its base directory.
func splitPath(path string) []string {
	var segments []string
	for s := range strings.SplitSeq(path, string(filepath.Separator)) {
		s = strings.TrimSpace(s)
		if s == "" || s == "." || s == ".." {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
