package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
)

// TestConfig_Validate tests defaulting and clamping
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		check   func(t *testing.T, cfg Config)
	}{
		{
			name: "empty config gets defaults",
			cfg:  Config{},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "file", cfg.History.Backend)
				assert.NotEmpty(t, cfg.History.Path)
				assert.Equal(t, DefaultRenderTimeout, cfg.Rendering.Timeout)
			},
		},
		{
			name: "sub-second timeout clamped",
			cfg: Config{
				Rendering: RenderingConfig{Timeout: 100 * time.Millisecond},
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, DefaultRenderTimeout, cfg.Rendering.Timeout)
			},
		},
		{
			name: "badger backend accepted",
			cfg:  Config{History: HistoryConfig{Backend: "badger"}},
			check: func(t *testing.T, cfg Config) {
				assert.NotEmpty(t, cfg.History.Directory)
			},
		},
		{
			name:    "unknown backend rejected",
			cfg:     Config{History: HistoryConfig{Backend: "postgres"}},
			wantErr: true,
		},
		{
			name: "notifications require smtp server",
			cfg: Config{
				Notify: NotifyConfig{Enabled: true, From: "a@b.c", To: []string{"d@e.f"}},
			},
			wantErr: true,
		},
		{
			name: "notifications require recipients",
			cfg: Config{
				Notify: NotifyConfig{Enabled: true, SMTPServer: "smtp.example.com", From: "a@b.c"},
			},
			wantErr: true,
		},
		{
			name: "enabled notifications get default port",
			cfg: Config{
				Notify: NotifyConfig{
					Enabled:    true,
					SMTPServer: "smtp.example.com",
					From:       "watch@example.com",
					To:         []string{"me@example.com"},
				},
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, DefaultSMTPPort, cfg.Notify.SMTPPort)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, tt.cfg)
			}
		})
	}
}

// TestLoadPlans tests the tracked-plans file
func TestLoadPlans(t *testing.T) {
	writePlans := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "plans.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("valid file preserves order", func(t *testing.T) {
		path := writePlans(t, `plans:
  - name: plan-b
    url: https://example.com/floorplans/b
  - name: plan-a
    url: https://example.com/floorplans/a
`)
		plans, err := LoadPlans(path)
		require.NoError(t, err)
		require.Len(t, plans, 2)
		assert.Equal(t, "plan-b", plans[0].Name)
		assert.Equal(t, "plan-a", plans[1].Name)
	})

	t.Run("empty list", func(t *testing.T) {
		path := writePlans(t, "plans: []\n")
		_, err := LoadPlans(path)
		assert.True(t, errors.Is(err, domain.ErrNoPlans))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPlans(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid url rejected", func(t *testing.T) {
		path := writePlans(t, `plans:
  - name: plan-a
    url: not-a-url
`)
		_, err := LoadPlans(path)
		assert.Error(t, err)
	})

	t.Run("duplicate names rejected", func(t *testing.T) {
		path := writePlans(t, `plans:
  - name: plan-a
    url: https://example.com/a
  - name: plan-a
    url: https://example.com/b
`)
		_, err := LoadPlans(path)
		assert.Error(t, err)
	})
}
