// Package archive unpacks generated project archives onto disk.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// UnsafePathError reports an entry that would land outside the target dir.
type UnsafePathError struct {
	Name string
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("archive: entry %q escapes target directory", e.Name)
}

// Extract unpacks the zip file at path into dir and returns the top-level
// names it wrote, in archive order.
func Extract(path, dir string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()
	return extract(&zr.Reader, dir)
}

func extract(zr *zip.Reader, dir string) ([]string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", root, err)
	}

	var top []string
	seen := map[string]bool{}
	for _, f := range zr.File {
		target, err := targetPath(root, f.Name)
		if err != nil {
			return top, err
		}
		if first := strings.SplitN(filepath.ToSlash(f.Name), "/", 2)[0]; first != "" && !seen[first] {
			seen[first] = true
			top = append(top, first)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return top, err
			}
			continue
		}
		if err := writeFile(f, target); err != nil {
			return top, fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return top, nil
}

func targetPath(root, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", &UnsafePathError{Name: name}
	}
	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &UnsafePathError{Name: name}
	}
	return target, nil
}

func writeFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	// Keep the executable bit for wrapper scripts like mvnw.
	mode := os.FileMode(0o644)
	if f.Mode()&0o111 != 0 {
		mode = 0o755
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
