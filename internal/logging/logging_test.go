package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevel(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"DEBUG", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"INFO", logrus.InfoLevel},
		{"nonsense", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}
	for _, tt := range tests {
		if got := New(tt.level, "text").GetLevel(); got != tt.want {
			t.Errorf("New(%q) level = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "info", "json")
	logger.WithField("tool", "simulate_investment").Info("готово")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["tool"] != "simulate_investment" || entry["msg"] != "готово" {
		t.Errorf("unexpected entry %v", entry)
	}
}
