package term

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SaveSnapshot writes a rendered glyph grid to a uniquely named text
// file in dir and returns the file path.
func SaveSnapshot(dir, grid string) (string, error) {
	if grid == "" {
		return "", fmt.Errorf("nothing rendered yet")
	}
	path := filepath.Join(dir, fmt.Sprintf("termcam-%s.txt", uuid.NewString()))
	if err := os.WriteFile(path, []byte(grid+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}
