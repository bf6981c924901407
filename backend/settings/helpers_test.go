package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, path, scheme, accent string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := fmt.Sprintf("color_scheme = %q\naccent_color = %q\n", scheme, accent)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
