package conf

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDurationUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{`"1.5s"`, 1500 * time.Millisecond},
		{`"15m"`, 15 * time.Minute},
		{`2`, 2 * time.Second},
		{`0.2`, 200 * time.Millisecond},
	}
	for _, tc := range cases {
		var d Duration
		if err := json.Unmarshal([]byte(tc.in), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if d.AsDuration() != tc.want {
			t.Fatalf("unmarshal %s: expected %v, got %v", tc.in, tc.want, d.AsDuration())
		}
	}

	var d Duration
	if err := json.Unmarshal([]byte(`"soon"`), &d); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestBootstrapScan(t *testing.T) {
	raw := `{
		"server": {"http": {"addr": "0.0.0.0:8000", "timeout": "1s"}},
		"data": {"database": {"driver": "sqlite", "source": "moviehub.db", "auto_migrate": true}},
		"auth": {"admin_token": "secret", "token_ttl": "24h"},
		"metadata": {"url": "", "max_retries": 2}
	}`
	var bc Bootstrap
	if err := json.Unmarshal([]byte(raw), &bc); err != nil {
		t.Fatalf("unmarshal bootstrap: %v", err)
	}
	if bc.Server.HTTP.Timeout.AsDuration() != time.Second {
		t.Fatalf("expected 1s http timeout, got %v", bc.Server.HTTP.Timeout.AsDuration())
	}
	if !bc.Data.Database.AutoMigrate || bc.Data.Database.Driver != "sqlite" {
		t.Fatalf("unexpected database config: %+v", bc.Data.Database)
	}
	if bc.Auth.TokenTTL.AsDuration() != 24*time.Hour {
		t.Fatalf("expected 24h token ttl")
	}
	if bc.Data.Redis != nil {
		t.Fatalf("expected nil redis config")
	}
	var nilDuration *Duration
	if nilDuration.AsDuration() != 0 {
		t.Fatalf("expected zero duration for nil receiver")
	}
}
