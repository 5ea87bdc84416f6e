package applog

import (
	"bytes"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger
	savedLevel := GetLogLevel()
	baseLogger = newConsoleLogger(&buf)
	t.Cleanup(func() {
		baseLogger = saved
		currentLevel = int32(savedLevel)
	})
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("info")

	msg := "[board] scatter rendered 64 rows (100.0% of 64) x=possession team1 y=possession team2"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(100.0% of 64)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "%!o(MISSING)") || strings.Contains(out, "%!f(MISSING)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("warn")

	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("messages below warn should be dropped: %s", out)
	}
	if !strings.Contains(out, "warn 3") || !strings.Contains(out, "error 4") {
		t.Fatalf("expected warn and error lines: %s", out)
	}
	if !strings.Contains(out, "WRN") || !strings.Contains(out, "ERR") {
		t.Fatalf("expected level markers in output: %s", out)
	}
}

func TestSetLogLevel_IgnoresUnknown(t *testing.T) {
	captureLogs(t)
	SetLogLevel("error")
	SetLogLevel("verbose")
	if GetLogLevel() != LevelError {
		t.Fatalf("unknown level name changed level to %v", GetLogLevel())
	}
	SetLogLevel(" Warning ")
	if GetLogLevel() != LevelWarn {
		t.Fatalf("expected warn, got %v", GetLogLevel())
	}
}
