package testutils

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/benoitkugler/boxtree/logger"
)

func AssertEqual(t *testing.T, got, exp interface{}) {
	t.Helper()
	if !reflect.DeepEqual(exp, got) {
		t.Fatalf("expected\n%v\n got \n%v", exp, got)
	}
}

// LogCapture redirects the warning logger into a buffer,
// so that tests may assert on the emitted warnings.
type LogCapture struct {
	buf      bytes.Buffer
	restored io.Writer
}

// CaptureLogs starts recording the output of the warning logger.
func CaptureLogs() *LogCapture {
	cp := LogCapture{restored: logger.WarningLogger.Writer()}
	logger.WarningLogger.SetOutput(&cp.buf)
	return &cp
}

// Logs stops the capture and returns the recorded lines.
func (cp *LogCapture) Logs() []string {
	logger.WarningLogger.SetOutput(cp.restored)
	out := strings.Split(strings.TrimSuffix(cp.buf.String(), "\n"), "\n")
	if len(out) == 1 && out[0] == "" {
		return nil
	}
	return out
}

// AssertNoLogs stops the capture and fails if any warning was emitted.
func (cp *LogCapture) AssertNoLogs(t *testing.T) {
	t.Helper()
	if logs := cp.Logs(); len(logs) != 0 {
		t.Fatalf("expected no logs, got (%d):\n %s", len(logs), strings.Join(logs, "\n"))
	}
}
