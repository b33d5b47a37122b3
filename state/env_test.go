package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"tomdx/config"
)

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext_PanicsWithoutEnv(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	if uptime := env.Uptime(); uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
}

func TestLocalEnv_RedirectAndRestore(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{Log: testLogger(t)}
		for i := range 3 {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Errorf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}

func TestLoadClassOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.css")
	css := ".text-lg { font-size: 18pt; }\n.pair { color: #111111; opacity: 0.5; }\n@import \"other.css\";\n"
	if err := os.WriteFile(path, []byte(css), 0644); err != nil {
		t.Fatalf("Failed to write stylesheet: %v", err)
	}

	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Log = testLogger(t)
	env.Cfg = &config.Config{}
	env.Cfg.Document.Classes.StylesheetPath = path

	if err := env.LoadClassOverrides(); err != nil {
		t.Fatalf("LoadClassOverrides() error = %v", err)
	}
	if len(env.ClassOverrides) != 1 {
		t.Fatalf("expected 1 override, got %+v", env.ClassOverrides)
	}
	if o := env.ClassOverrides[0]; o.Class != "text-lg" || o.Declaration != "font-size: 18pt;" {
		t.Errorf("unexpected override %+v", o)
	}

	env.Cfg.Document.Classes.StylesheetPath = filepath.Join(t.TempDir(), "missing.css")
	if err := env.LoadClassOverrides(); err == nil {
		t.Error("expected error for missing stylesheet")
	}
}

func TestLoadClassOverrides_NotConfigured(t *testing.T) {
	env := &LocalEnv{Cfg: &config.Config{}, Log: testLogger(t)}
	if err := env.LoadClassOverrides(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if env.ClassOverrides != nil {
		t.Error("expected no overrides")
	}
}
