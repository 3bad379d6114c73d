package service

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/ssuzyn/overthecam/token-service/config"

	"github.com/stretchr/testify/require"
)

// testTokenCfg — конфигурация для unit-тестов: ключ 32 байта, access TTL 1 час.
func testTokenCfg() config.TokenConfig {
	return config.TokenConfig{
		Secret:          base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 168 * time.Hour,
		TokenType:       "Bearer",
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	svc, err := New(testTokenCfg())
	require.NoError(t, err)

	return svc
}

func TestNew_OK(t *testing.T) {
	t.Parallel()

	svc, err := New(testTokenCfg())
	require.NoError(t, err)
	require.NotNil(t, svc)
	require.Len(t, svc.key, 32)
}

// TestNew_BadSecret_Table — инициализация обязана падать на пустом,
// небазе64 и слишком коротком секрете: без пригодного ключа процесс
// обслуживать запросы не может.
func TestNew_BadSecret_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		secret string
	}{
		{name: "empty", secret: ""},
		{name: "not_base64", secret: "%%%not-base64%%%"},
		{name: "too_short_16_bytes", secret: base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))},
		{name: "too_short_31_bytes", secret: base64.StdEncoding.EncodeToString(make([]byte, 31))},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testTokenCfg()
			cfg.Secret = tt.secret

			svc, err := New(cfg)
			require.Error(t, err)
			require.Nil(t, svc)
		})
	}
}
