// Package archive bundles a generated application into a
// distributable zip: the app code, its tests, and a README with run
// instructions.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Member file names inside the produced archive.
const (
	AppFileName    = "app.py"
	TestsFileName  = "test_app.py"
	ReadmeFileName = "README_RUN_INSTRUCTIONS.txt"
)

// Packager writes archives into a fixed output directory.
type Packager struct {
	outputDir string
	now       func() time.Time
}

// NewPackager creates a Packager writing into outputDir.
func NewPackager(outputDir string) *Packager {
	return &Packager{outputDir: outputDir, now: time.Now}
}

// SetClock overrides the timestamp source (for testing).
func (p *Packager) SetClock(now func() time.Time) {
	p.now = now
}

// OutputDir returns the directory archives are written to.
func (p *Packager) OutputDir() string {
	return p.outputDir
}

// Package writes app code, test code, and a README into a timestamped
// zip under the output directory and returns the zip path. The staging
// directory used to lay out the files is removed afterwards.
func (p *Packager) Package(appCode, testsCode, description string) (string, error) {
	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", p.outputDir, err)
	}

	stamp := p.now().Format("20060102_150405")
	stageDir := filepath.Join(p.outputDir, "generated_app_"+stamp)
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir staging dir: %w", err)
	}
	defer os.RemoveAll(stageDir)

	files := map[string]string{
		AppFileName:    appCode,
		TestsFileName:  testsCode,
		ReadmeFileName: renderReadme(description),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(stageDir, name), []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
	}

	zipPath := filepath.Join(p.outputDir, "generated_app_"+stamp+".zip")
	if err := writeZip(zipPath, stageDir); err != nil {
		os.Remove(zipPath)
		return "", err
	}
	return zipPath, nil
}

// writeZip archives every regular file in dir (flat, by base name).
func writeZip(zipPath, dir string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}

	zw := zip.NewWriter(f)
	entries, err := os.ReadDir(dir)
	if err != nil {
		zw.Close()
		f.Close()
		return fmt.Errorf("read staging dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := addFile(zw, filepath.Join(dir, entry.Name()), entry.Name()); err != nil {
			zw.Close()
			f.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize zip: %w", err)
	}
	return f.Close()
}

func addFile(zw *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	dst, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("add %s to zip: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy %s into zip: %w", name, err)
	}
	return nil
}

func renderReadme(description string) string {
	return fmt.Sprintf(`Generated Application

Description:
%s

------------------------------
HOW TO RUN THE APP
------------------------------
1. Make sure you have Python installed (3.9+ recommended).
2. Install any required dependencies from the project root, e.g.:
   pip install -r requirements.txt
3. From inside this directory, run:
   python app.py

------------------------------
HOW TO RUN THE TESTS
------------------------------
1. Install pytest if not already installed:
   pip install pytest
2. From inside this directory, run:
   pytest test_app.py
`, strings.TrimSpace(description))
}
