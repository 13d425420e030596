// Package conflict computes non-colliding destination paths for file-copy
// installs (AppImages, tarball extraction targets).
package conflict

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolve returns a path in the same directory as desired that does not
// exist at call time. If desired itself is free it is returned unchanged;
// otherwise a numeric suffix is inserted before the extension:
// "app.AppImage" -> "app (1).AppImage" -> "app (2).AppImage" and so on.
//
// Resolve only computes the name; it never creates the file. Callers rely
// on the single-flight install lock to keep two resolutions from racing on
// the same directory.
func Resolve(desired string) string {
	if !exists(desired) {
		return desired
	}

	dir := filepath.Dir(desired)
	base := filepath.Base(desired)
	stem, ext := splitExt(base)

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if !exists(candidate) {
			return candidate
		}
	}
}

// splitExt splits a file name into stem and extension, keeping compound tar
// extensions intact so "app.tar.gz" becomes ("app", ".tar.gz").
func splitExt(name string) (string, string) {
	lower := strings.ToLower(name)
	for _, compound := range []string{".tar.gz", ".tar.xz"} {
		if strings.HasSuffix(lower, compound) {
			return name[:len(name)-len(compound)], name[len(name)-len(compound):]
		}
	}
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)], ext
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
