// Package convert implements the convert command: it finds presentations,
// renders them into MDX pages and extracts their pictures.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"tomdx/archive"
	"tomdx/config"
	"tomdx/odp"
	"tomdx/state"
)

// Run is the convert command action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if cmd.IsSet("use-heuristics") {
		env.Cfg.Document.UseHeuristics = cmd.Bool("use-heuristics")
	}
	env.Overwrite = cmd.Bool("overwrite")

	if err := env.LoadClassOverrides(); err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process converts single presentation or every presentation found under
// directory src.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}
	if fi.IsDir() {
		return processDir(ctx, src, dst, log)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}
	return processPresentation(ctx, src, filepath.Base(src), dst, log)
}

// processDir walks directory tree converting every presentation. Failures of
// individual files are logged and do not stop the walk.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", p), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if p != dir && p == dst {
				// do not descend into our own output
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !strings.EqualFold(filepath.Ext(p), ".odp") {
			return nil
		}

		count++
		src := strings.TrimPrefix(strings.TrimPrefix(p, dir), string(filepath.Separator))
		if err := processPresentation(ctx, p, src, dst, log); err != nil {
			log.Error("Unable to process file", zap.String("file", p), zap.Error(err))
		}
		return nil
	})
}

// processPresentation converts single presentation. "file" is the actual
// location, "src" is the name relative to the requested source used in logs
// and output naming.
func processPresentation(ctx context.Context, file, src, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)
	cfg := &env.Cfg.Document

	runID := uuid.New()
	log = log.With(zap.Stringer("run", runID))

	var outputName string

	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		// image and svg libraries panic on some malformed inputs, we do not
		// want to stop processing of other presentations
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	p, err := openPresentation(file)
	if err != nil {
		return err
	}
	defer p.pkg.Close()

	name := buildOutputName(p.meta, src, env)
	outputName = filepath.Join(dst, cfg.PagesDir, name+".mdx")

	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	}

	opts := odp.Options{
		Heuristics:     cfg.UseHeuristics,
		Placeholders:   cfg.OnError == config.OnErrorPlaceholder,
		ImageBase:      path.Join(cfg.ImagesURL, filepath.ToSlash(name)),
		ClassOverrides: env.ClassOverrides,
	}
	doc, err := odp.Parse(p.content, p.styles, opts, log)
	if err != nil {
		return fmt.Errorf("unable to parse presentation (%s): %w", src, err)
	}

	// debug data is most useful when rendering fails
	defer storeDebug(env.Rpt, runID.String(), p, doc, log)

	body, err := doc.MDX()
	if err != nil {
		return fmt.Errorf("unable to render presentation (%s): %w", src, err)
	}
	frontMatter, err := p.meta.FrontMatter()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(outputName, []byte(frontMatter+"\n"+body+"\n"), 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	if err := extractPictures(ctx, p.pkg, filepath.Join(dst, cfg.ImagesDir, name), &cfg.Images, log); err != nil {
		return fmt.Errorf("unable to extract pictures: %w", err)
	}

	if errs := doc.Errors(); len(errs) > 0 {
		log.Warn("Some elements were replaced with placeholders", zap.Int("count", len(errs)), zap.Errors("errors", errs))
	}

	env.Rpt.Store(fmt.Sprintf("result-%s.mdx", runID), outputName)
	return nil
}

// presentation holds package parts needed for conversion.
type presentation struct {
	pkg     *archive.Package
	content []byte
	styles  []byte
	metaXML []byte
	meta    *odp.Metadata
}

const presentationMimeType = "application/vnd.oasis.opendocument.presentation"

// openPresentation opens the package and reads its document parts. Caller
// must close the package.
func openPresentation(file string) (p *presentation, err error) {
	pkg, err := archive.Open(file)
	if err != nil {
		return nil, fmt.Errorf("input was not recognized as presentation (%s): %w", file, err)
	}
	defer func() {
		if err != nil {
			pkg.Close()
		}
	}()

	if pkg.Has("mimetype") {
		mt, err := pkg.Read("mimetype")
		if err != nil {
			return nil, err
		}
		if t := strings.TrimSpace(string(mt)); t != presentationMimeType {
			return nil, fmt.Errorf("input is not a presentation (%s): %s", file, t)
		}
	}

	p = &presentation{pkg: pkg}
	if p.content, err = pkg.Read("content.xml"); err != nil {
		return nil, err
	}
	if p.styles, err = pkg.Read("styles.xml"); err != nil {
		return nil, err
	}
	if p.metaXML, err = pkg.Read("meta.xml"); err != nil {
		return nil, err
	}
	if p.meta, err = odp.ParseMetadata(p.metaXML); err != nil {
		return nil, err
	}
	if err = p.meta.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
