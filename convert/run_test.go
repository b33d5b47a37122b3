package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"tomdx/config"
	"tomdx/odp"
	"tomdx/state"
)

const namespaces = ` xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"` +
	` xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"` +
	` xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"` +
	` xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0"` +
	` xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"` +
	` xmlns:xlink="http://www.w3.org/1999/xlink"` +
	` xmlns:dc="http://purl.org/dc/elements/1.1/"` +
	` xmlns:meta="urn:oasis:names:tc:opendocument:xmlns:meta:1.0"` +
	` xmlns:svg="urn:oasis:names:tc:opendocument:xmlns:svg-compatible:1.0"`

const sampleStyles = `<office:document-styles` + namespaces + `><office:automatic-styles>` +
	`<style:page-layout style:name="PM1"><style:page-layout-properties fo:page-width="28cm" fo:page-height="15.75cm"/></style:page-layout>` +
	`</office:automatic-styles><office:master-styles>` +
	`<style:master-page style:name="Default" style:page-layout-name="PM1"/>` +
	`</office:master-styles></office:document-styles>`

const sampleMeta = `<office:document-meta` + namespaces + `><office:meta>` +
	`<dc:title>My Talk</dc:title><dc:date>2024-05-01T10:00:00</dc:date>` +
	`</office:meta></office:document-meta>`

func sampleContent(slides string) string {
	return `<office:document-content` + namespaces + `><office:body><office:presentation>` + slides +
		`</office:presentation></office:body></office:document-content>`
}

const sampleSlide = `<draw:page draw:master-page-name="Default">` +
	`<draw:frame svg:width="10cm" svg:height="5cm"><draw:image xlink:href="Pictures/a.png"/></draw:frame>` +
	`<draw:frame><draw:text-box><text:p>Hello</text:p></draw:text-box></draw:frame>` +
	`</draw:page>`

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, env
}

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// writePresentation creates presentation package with given parts.
func writePresentation(t *testing.T, name string, parts map[string][]byte) {
	t.Helper()
	f, err := os.Create(name)
	if err != nil {
		t.Fatalf("create package: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("create mimetype: %v", err)
	}
	if _, err := w.Write([]byte(presentationMimeType)); err != nil {
		t.Fatalf("write mimetype: %v", err)
	}
	for entry, data := range parts {
		w, err := zw.Create(entry)
		if err != nil {
			t.Fatalf("create %s: %v", entry, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write %s: %v", entry, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close package: %v", err)
	}
}

func sampleParts(t *testing.T, slides string) map[string][]byte {
	return map[string][]byte{
		"content.xml":    []byte(sampleContent(slides)),
		"styles.xml":     []byte(sampleStyles),
		"meta.xml":       []byte(sampleMeta),
		"Pictures/a.png": samplePNG(t, 200, 100),
		"Pictures/b.svm": []byte("metafile"),
	}
}

func TestProcessPresentation(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Document.Images.MaxWidth = 50

	srcDir, dstDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "talk.odp")
	writePresentation(t, src, sampleParts(t, sampleSlide))

	if err := process(ctx, src, dstDir, testLogger(t)); err != nil {
		t.Fatalf("process: %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dstDir, "pages", "presentations", "2024-05-01_my-talk.mdx"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	page := string(out)
	if !strings.HasPrefix(page, "---\ntitle: My Talk\n") {
		t.Errorf("unexpected front matter:\n%s", page)
	}
	for _, want := range []string{
		"\n---\n<Slides>\n<Slide>\n",
		`src="/img/presentations/2024-05-01_my-talk/a.png"`,
		"<pre><p>\n  Hello\n</p></pre>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("output does not contain %q:\n%s", want, page)
		}
	}

	picDir := filepath.Join(dstDir, "public", "img", "presentations", "2024-05-01_my-talk")
	data, err := os.ReadFile(filepath.Join(picDir, "a.png"))
	if err != nil {
		t.Fatalf("read picture: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode picture: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 25 {
		t.Errorf("picture was not downscaled: %dx%d", cfg.Width, cfg.Height)
	}
	if _, err := os.Stat(filepath.Join(picDir, "b.svm")); !os.IsNotExist(err) {
		t.Errorf("metafile must not be extracted: %v", err)
	}
}

func TestProcessPresentation_Overwrite(t *testing.T) {
	ctx, env := setupTestEnv(t)

	srcDir, dstDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "talk.odp")
	writePresentation(t, src, sampleParts(t, sampleSlide))

	if err := process(ctx, src, dstDir, testLogger(t)); err != nil {
		t.Fatalf("first run: %v", err)
	}

	err := process(ctx, src, dstDir, testLogger(t))
	if err == nil || !strings.Contains(err.Error(), "output file already exists") {
		t.Fatalf("expected existing output error, got %v", err)
	}

	// existing pictures are kept
	picture := filepath.Join(dstDir, "public", "img", "presentations", "2024-05-01_my-talk", "a.png")
	if err := os.WriteFile(picture, []byte("edited"), 0644); err != nil {
		t.Fatalf("write picture: %v", err)
	}

	env.Overwrite = true
	if err := process(ctx, src, dstDir, testLogger(t)); err != nil {
		t.Fatalf("overwrite run: %v", err)
	}
	if data, _ := os.ReadFile(picture); string(data) != "edited" {
		t.Errorf("existing picture was replaced")
	}
}

func TestProcessPresentation_MissingTitle(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	srcDir, dstDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "talk.odp")
	parts := sampleParts(t, sampleSlide)
	parts["meta.xml"] = []byte(`<office:document-meta` + namespaces + `><office:meta><dc:date>2024-05-01</dc:date></office:meta></office:document-meta>`)
	writePresentation(t, src, parts)

	err := process(ctx, src, dstDir, testLogger(t))
	if !errors.Is(err, odp.ErrMissingTitle) {
		t.Fatalf("expected missing title error, got %v", err)
	}
}

func TestProcessPresentation_MissingPart(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	srcDir, dstDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "talk.odp")
	parts := sampleParts(t, sampleSlide)
	delete(parts, "styles.xml")
	writePresentation(t, src, parts)

	if err := process(ctx, src, dstDir, testLogger(t)); err == nil || !strings.Contains(err.Error(), "styles.xml") {
		t.Fatalf("expected missing styles.xml error, got %v", err)
	}
}

func TestProcessPresentation_ErrorPolicy(t *testing.T) {
	broken := `<draw:page draw:master-page-name="Default"><draw:custom-shape svg:width="2cm" svg:height="2cm">` +
		`<draw:enhanced-geometry draw:enhanced-path="M 0 0 L ?nowhere 0"/></draw:custom-shape></draw:page>`

	t.Run("fail", func(t *testing.T) {
		ctx, _ := setupTestEnv(t)
		srcDir, dstDir := t.TempDir(), t.TempDir()
		src := filepath.Join(srcDir, "talk.odp")
		writePresentation(t, src, sampleParts(t, broken))

		if err := process(ctx, src, dstDir, testLogger(t)); err == nil {
			t.Fatal("expected render error")
		}
		if _, err := os.Stat(filepath.Join(dstDir, "pages", "presentations", "2024-05-01_my-talk.mdx")); !os.IsNotExist(err) {
			t.Errorf("output must not be written: %v", err)
		}
	})

	t.Run("placeholder", func(t *testing.T) {
		ctx, env := setupTestEnv(t)
		env.Cfg.Document.OnError = config.OnErrorPlaceholder
		srcDir, dstDir := t.TempDir(), t.TempDir()
		src := filepath.Join(srcDir, "talk.odp")
		writePresentation(t, src, sampleParts(t, broken))

		if err := process(ctx, src, dstDir, testLogger(t)); err != nil {
			t.Fatalf("process: %v", err)
		}
		out, err := os.ReadFile(filepath.Join(dstDir, "pages", "presentations", "2024-05-01_my-talk.mdx"))
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if !strings.Contains(string(out), "{/* tomdx: draw:enhanced-geometry") {
			t.Errorf("placeholder not found:\n%s", out)
		}
	})
}

func TestProcess_NonExistentPath(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	err := process(ctx, "/nonexistent/path/talk.odp", t.TempDir(), testLogger(t))
	if err == nil || !strings.Contains(err.Error(), "input source was not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestProcess_NotPresentation(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	src := filepath.Join(t.TempDir(), "notes.odp")
	if err := os.WriteFile(src, []byte("plain text"), 0644); err != nil {
		t.Fatal(err)
	}
	err := process(ctx, src, t.TempDir(), testLogger(t))
	if err == nil || !strings.Contains(err.Error(), "not recognized as presentation") {
		t.Fatalf("expected recognition error, got %v", err)
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()

	tmpDir := t.TempDir()
	if err := process(cancelCtx, tmpDir, tmpDir, testLogger(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled error, got %v", err)
	}
}

func TestProcess_Directory(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	srcDir, dstDir := t.TempDir(), t.TempDir()
	if err := os.MkdirAll(filepath.Join(srcDir, "2023"), 0755); err != nil {
		t.Fatal(err)
	}
	writePresentation(t, filepath.Join(srcDir, "talk.odp"), sampleParts(t, sampleSlide))

	other := sampleParts(t, sampleSlide)
	other["meta.xml"] = []byte(`<office:document-meta` + namespaces + `><office:meta>` +
		`<dc:title>Older Talk</dc:title><dc:date>2023-01-15</dc:date></office:meta></office:document-meta>`)
	writePresentation(t, filepath.Join(srcDir, "2023", "older.ODP"), other)

	if err := os.WriteFile(filepath.Join(srcDir, "readme.txt"), []byte("skip me"), 0644); err != nil {
		t.Fatal(err)
	}
	// broken packages are logged and skipped
	if err := os.WriteFile(filepath.Join(srcDir, "broken.odp"), []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := process(ctx, srcDir, dstDir, testLogger(t)); err != nil {
		t.Fatalf("process: %v", err)
	}
	for _, name := range []string{"2024-05-01_my-talk.mdx", "2023-01-15_older-talk.mdx"} {
		if _, err := os.Stat(filepath.Join(dstDir, "pages", "presentations", name)); err != nil {
			t.Errorf("expected output %s: %v", name, err)
		}
	}
}

func TestProcessPresentation_DebugReport(t *testing.T) {
	ctx, env := setupTestEnv(t)

	rc := config.ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
	rpt, err := rc.Prepare()
	if err != nil {
		t.Fatalf("prepare report: %v", err)
	}
	env.Rpt = rpt

	shape := `<draw:page draw:master-page-name="Default"><draw:custom-shape draw:name="Triangle" svg:width="2cm" svg:height="2cm">` +
		`<draw:enhanced-geometry svg:viewBox="0 0 21600 21600" draw:enhanced-path="M 0 0 L 2000 0 1000 2000 Z N"/>` +
		`</draw:custom-shape></draw:page>`

	srcDir, dstDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "talk.odp")
	writePresentation(t, src, sampleParts(t, shape))
	if err := process(ctx, src, dstDir, testLogger(t)); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("close report: %v", err)
	}

	zr, err := zip.OpenReader(rc.Destination)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer zr.Close()

	found := make(map[string]bool)
	for _, f := range zr.File {
		found[filepath.Base(f.Name)] = true
	}
	for _, want := range []string{"content.xml", "styles.xml", "meta.xml", "tree.txt", "styles.txt", "triangle.svg", "triangle.png"} {
		if !found[want] {
			t.Errorf("report does not contain %s, has %v", want, found)
		}
	}
}
