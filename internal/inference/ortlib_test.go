//go:build silero

// IMPORTANT: tests in this file use os.Chdir and MUST NOT use t.Parallel() —
// the ORT library resolver depends on working directory (see teacher
// ort_lib_test.go for the same caveat).

package inference

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolveORTLibPath_EnvOverride(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "fake_ort_*.so")
	if err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	t.Setenv("VADENGINE_ORT_LIB_PATH", tmpFile.Name())
	t.Setenv("VADENGINE_DEV_MODE", "")

	path, err := resolveORTLibPath()
	if err != nil {
		t.Fatalf("resolveORTLibPath failed: %v", err)
	}
	if path != tmpFile.Name() {
		t.Errorf("expected %q, got %q", tmpFile.Name(), path)
	}
}

func TestResolveORTLibPath_EnvOverrideMissing(t *testing.T) {
	t.Setenv("VADENGINE_ORT_LIB_PATH", "/nonexistent/path/to/ort.so")
	t.Setenv("VADENGINE_DEV_MODE", "")

	_, err := resolveORTLibPath()
	if err == nil {
		t.Fatal("expected error for non-existent VADENGINE_ORT_LIB_PATH")
	}
}

func TestResolveORTLibPath_EnvOverrideIsDirectory(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "ort_dir_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	t.Setenv("VADENGINE_ORT_LIB_PATH", tmpDir)
	t.Setenv("VADENGINE_DEV_MODE", "")

	_, err = resolveORTLibPath()
	if err == nil {
		t.Fatal("expected error when VADENGINE_ORT_LIB_PATH is a directory")
	}
}

func TestResolveORTLibPath_CwdFallbackDevMode(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "ort_cwd_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	libDir := filepath.Join(tmpDir, "lib", runtime.GOOS+"-"+runtime.GOARCH)
	if err := os.MkdirAll(libDir, 0755); err != nil {
		t.Fatal(err)
	}
	libPath := filepath.Join(libDir, ortLibFilename())
	if err := os.WriteFile(libPath, []byte("fake"), 0644); err != nil {
		t.Fatal(err)
	}

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(origDir)

	t.Setenv("VADENGINE_ORT_LIB_PATH", "")
	t.Setenv("VADENGINE_DEV_MODE", "1")

	path, err := resolveORTLibPath()
	if err != nil {
		t.Fatalf("resolveORTLibPath failed in dev mode with CWD lib: %v", err)
	}
	absPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q): %v", path, err)
	}
	absLibPath, err := filepath.EvalSymlinks(libPath)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q): %v", libPath, err)
	}
	if absPath != absLibPath {
		t.Errorf("expected %q, got %q", absLibPath, absPath)
	}
}

func TestOrtLibFilename(t *testing.T) {
	name := ortLibFilename()
	switch runtime.GOOS {
	case "darwin":
		if name != "libonnxruntime.dylib" {
			t.Fatalf("expected libonnxruntime.dylib, got %s", name)
		}
	case "windows":
		if name != "onnxruntime.dll" {
			t.Fatalf("expected onnxruntime.dll, got %s", name)
		}
	default:
		if name != "libonnxruntime.so" {
			t.Fatalf("expected libonnxruntime.so, got %s", name)
		}
	}
}

func TestNativeAvailable(t *testing.T) {
	if !NativeAvailable() {
		t.Fatal("NativeAvailable() should return true when built with silero tag")
	}
}

func TestSileroStateConstants(t *testing.T) {
	if V5StateSize != 128 {
		t.Fatalf("V5StateSize = %d, want 128", V5StateSize)
	}
	if V4StateSize != 64 {
		t.Fatalf("V4StateSize = %d, want 64", V4StateSize)
	}
	if ExpectedSampleRate != 16000 {
		t.Fatalf("ExpectedSampleRate = %d, want 16000", ExpectedSampleRate)
	}
}
