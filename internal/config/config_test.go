package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantErr  bool
		wantPort string
		wantTTL  time.Duration
	}{
		{
			name: "defaults",
			env: map[string]string{
				"DATABASE_URL": "postgres://localhost/chronicle",
				"JWT_SECRET":   "secret",
			},
			wantPort: "3000",
			wantTTL:  24 * time.Hour,
		},
		{
			name: "explicit values",
			env: map[string]string{
				"DATABASE_URL":  "postgres://localhost/chronicle",
				"JWT_SECRET":    "secret",
				"PORT":          "8080",
				"JWT_TTL_HOURS": "2",
			},
			wantPort: "8080",
			wantTTL:  2 * time.Hour,
		},
		{
			name: "bad ttl falls back",
			env: map[string]string{
				"DATABASE_URL":  "postgres://localhost/chronicle",
				"JWT_SECRET":    "secret",
				"JWT_TTL_HOURS": "soon",
			},
			wantPort: "3000",
			wantTTL:  24 * time.Hour,
		},
		{
			name:    "missing database url",
			env:     map[string]string{"JWT_SECRET": "secret"},
			wantErr: true,
		},
		{
			name:    "missing jwt secret",
			env:     map[string]string{"DATABASE_URL": "postgres://localhost/chronicle"},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			for _, key := range []string{"PORT", "DATABASE_URL", "JWT_SECRET", "JWT_TTL_HOURS"} {
				t.Setenv(key, "")
			}
			for key, value := range testCase.env {
				t.Setenv(key, value)
			}

			cfg, err := Load()

			if testCase.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Port != testCase.wantPort {
				t.Fatalf("expected port %s, got %s", testCase.wantPort, cfg.Port)
			}
			if cfg.JWTTTL != testCase.wantTTL {
				t.Fatalf("expected TTL %v, got %v", testCase.wantTTL, cfg.JWTTTL)
			}
		})
	}
}
