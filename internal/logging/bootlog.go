package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BootLog appends startup-phase markers to a temp-dir file so the window
// bring-up can be timed even when the main log sink is not ready yet.
type BootLog struct {
	path  string
	start time.Time
}

func NewBootLog() *BootLog {
	return &BootLog{
		path:  filepath.Join(os.TempDir(), "gcompare-boot.log"),
		start: time.Now(),
	}
}

// Mark appends "<unix-ms> <message> at <elapsed>ms". Failures are ignored;
// the boot log is best effort.
func (b *BootLog) Mark(message string) {
	f, err := os.OpenFile(b.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%d %s at %dms\n", time.Now().UnixMilli(), message, time.Since(b.start).Milliseconds())
}
