package yahoo

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// 環境変数を変更するため並列実行しない
	for _, k := range []string{"YAHOO_QUOTE_BASE_URL", "YAHOO_CHART_BASE_URL", "YAHOO_USER_AGENT", "YAHOO_TIMEOUT", "YAHOO_REQUESTS_PER_MINUTE"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()

	if cfg.QuoteBaseURL != "https://query2.finance.yahoo.com" {
		t.Errorf("unexpected QuoteBaseURL %q", cfg.QuoteBaseURL)
	}
	if cfg.ChartBaseURL != "https://query1.finance.yahoo.com" {
		t.Errorf("unexpected ChartBaseURL %q", cfg.ChartBaseURL)
	}
	if cfg.UserAgent == "" {
		t.Error("expected default User-Agent")
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected Timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.RequestsPerMinute != 60 {
		t.Errorf("expected 60 requests per minute, got %d", cfg.RequestsPerMinute)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("YAHOO_QUOTE_BASE_URL", "http://quote.local")
	t.Setenv("YAHOO_CHART_BASE_URL", "http://chart.local")
	t.Setenv("YAHOO_USER_AGENT", "test-agent")
	t.Setenv("YAHOO_TIMEOUT", "5s")
	t.Setenv("YAHOO_REQUESTS_PER_MINUTE", "120")

	cfg := LoadConfig()

	if cfg.QuoteBaseURL != "http://quote.local" || cfg.ChartBaseURL != "http://chart.local" {
		t.Errorf("unexpected base URLs %+v", cfg)
	}
	if cfg.UserAgent != "test-agent" || cfg.Timeout != 5*time.Second || cfg.RequestsPerMinute != 120 {
		t.Errorf("unexpected overrides %+v", cfg)
	}
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("YAHOO_TIMEOUT", "-3s")
	t.Setenv("YAHOO_REQUESTS_PER_MINUTE", "lots")

	cfg := LoadConfig()

	if cfg.Timeout != 30*time.Second || cfg.RequestsPerMinute != 60 {
		t.Errorf("expected defaults for invalid values, got %+v", cfg)
	}
}
