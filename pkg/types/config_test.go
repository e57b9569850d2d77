package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "sqlite with empty DataDir is valid at config level",
			config:  Config{Backend: "sqlite", DataDir: ""},
			wantErr: nil,
		},
		{
			name:    "db file with a path separator is rejected",
			config:  Config{Backend: "sqlite", FileName: "../escape.db"},
			wantErr: ErrFileNameInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigDBFile(t *testing.T) {
	if got := (Config{}).DBFile(); got != DefaultFileName {
		t.Fatalf("expected %q, got %q", DefaultFileName, got)
	}
	if got := (Config{FileName: "other.db"}).DBFile(); got != "other.db" {
		t.Fatalf("expected other.db, got %q", got)
	}
}
