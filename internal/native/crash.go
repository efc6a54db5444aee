package native

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CrashLogPrefix starts the name of every crash report file.
const CrashLogPrefix = "cindex-crash-"

// writeCrashLog writes one report describing a recovered parser panic and
// returns its path.
func writeCrashLog(dir string, req Request, value any, stack []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("native: creating crash log dir: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "time: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "file: %s\n", req.Path)
	fmt.Fprintf(&sb, "args: %s\n", strings.Join(req.Args, " "))
	fmt.Fprintf(&sb, "options: %#x\n", uint32(req.Options))
	for _, uf := range req.Unsaved {
		fmt.Fprintf(&sb, "unsaved: %s (%d bytes)\n", uf.Filename, len(uf.Contents))
	}
	fmt.Fprintf(&sb, "panic: %v\n\n", value)
	sb.Write(stack)

	path := filepath.Join(dir, CrashLogPrefix+uuid.NewString()+".txt")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("native: writing crash log: %w", err)
	}
	return path, nil
}
