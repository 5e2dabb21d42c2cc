package logging

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		format, level string
		wantErr       bool
	}{
		{"json", "info", false},
		{"console", "debug", false},
		{"", "warn", false},
		{"xml", "info", true},
		{"json", "loud", true},
	}

	for _, tt := range tests {
		log, err := New(tt.format, tt.level)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q, %q) error = %v, wantErr %v", tt.format, tt.level, err, tt.wantErr)
			continue
		}
		if log != nil {
			_ = log.Sync()
		}
	}
}

func TestNewAppliesLevel(t *testing.T) {
	log, err := New("json", "warn")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if log.Core().Enabled(-1) {
		t.Error("debug enabled at warn level")
	}
	if !log.Core().Enabled(1) {
		t.Error("warn disabled at warn level")
	}
}
