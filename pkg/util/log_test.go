package util

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// saveLoggerState saves the current logger state for restoration
func saveLoggerState() (io.Writer, logrus.Level, logrus.Formatter) {
	return Logger.Out, Logger.Level, Logger.Formatter
}

// restoreLoggerState restores the logger to its previous state
func restoreLoggerState(out io.Writer, level logrus.Level, formatter logrus.Formatter) {
	Logger.SetOutput(out)
	Logger.SetLevel(level)
	Logger.SetFormatter(formatter)
}

func TestDefaultLevelIsQuiet(t *testing.T) {
	if Logger.GetLevel() != logrus.WarnLevel {
		t.Errorf("default level = %v, want warning", Logger.GetLevel())
	}
}

func TestSetLogLevel(t *testing.T) {
	out, level, formatter := saveLoggerState()
	defer restoreLoggerState(out, level, formatter)

	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"warning", false},
		{"error", false},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			err := SetLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetLogLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
		})
	}
}

func TestSetJSONFormat(t *testing.T) {
	out, level, formatter := saveLoggerState()
	defer restoreLoggerState(out, level, formatter)

	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetJSONFormat()

	Warn("test json")

	output := buf.String()
	if len(output) == 0 {
		t.Fatal("Expected output")
	}
	if output[0] != '{' {
		t.Errorf("Expected JSON output starting with '{', got: %s", output)
	}
}

func TestWithCommandFields(t *testing.T) {
	out, level, formatter := saveLoggerState()
	defer restoreLoggerState(out, level, formatter)

	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetJSONFormat()

	WithCommand("vrf", "create").WithField("controller", "10.0.0.1").Warn("teardown failed")

	output := buf.String()
	for _, want := range []string{`"command":"vrf"`, `"operation":"create"`, `"controller":"10.0.0.1"`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestWithController(t *testing.T) {
	entry := WithController("afc.example.net")
	if entry.Data["controller"] != "afc.example.net" {
		t.Errorf("controller field = %v", entry.Data["controller"])
	}
}

func TestLevelFiltering(t *testing.T) {
	out, level, formatter := saveLoggerState()
	defer restoreLoggerState(out, level, formatter)

	tests := []struct {
		level string
		emit  func()
		want  bool
	}{
		{"warn", func() { Debugf("debug %d", 1) }, false},
		{"warn", func() { Infof("info %d", 1) }, false},
		{"warn", func() { Warnf("warn %d", 1) }, true},
		{"warn", func() { Errorf("error %d", 1) }, true},
		{"debug", func() { Debug("debug") }, true},
		{"info", func() { Info("info") }, true},
		{"error", func() { Warn("warn") }, false},
		{"error", func() { Error("error") }, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		SetLogOutput(&buf)
		if err := SetLogLevel(tt.level); err != nil {
			t.Fatal(err)
		}
		tt.emit()
		if got := buf.Len() > 0; got != tt.want {
			t.Errorf("level %s: output written = %v, want %v", tt.level, got, tt.want)
		}
	}
}
