package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAdminList(t *testing.T) {
	cases := []struct {
		in      string
		want    []int64
		wantErr bool
	}{
		{in: "123", want: []int64{123}},
		{in: "123,456", want: []int64{123, 456}},
		{in: " 123 , 456 , ", want: []int64{123, 456}},
		{in: "-100123", want: []int64{-100123}},
		{in: "", wantErr: true},
		{in: " , ", wantErr: true},
		{in: "123,abc", wantErr: true},
	}

	for _, tc := range cases {
		cfg := Config{Intake: IntakeConfig{AdminIDs: tc.in}}
		got, err := cfg.AdminList()
		if tc.wantErr {
			if err == nil {
				t.Errorf("AdminList(%q) accepted", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("AdminList(%q): %v", tc.in, err)
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("AdminList(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("AdminList(%q)[%d] = %d, want %d", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
intake:
  admin_ids: "111,222"
  channel_url: "https://t.me/example"
  media_settle_ms: 300
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	admins, err := cfg.AdminList()
	if err != nil || len(admins) != 2 {
		t.Errorf("admins = %v, err = %v", admins, err)
	}
	if cfg.Intake.ChannelURL != "https://t.me/example" || cfg.Intake.MediaSettleMS != 300 {
		t.Errorf("intake config = %+v", cfg.Intake)
	}
	if cfg.Telegram.RunMode != "longpoll" {
		t.Errorf("run mode = %q, want longpoll default", cfg.Telegram.RunMode)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{
			name: "missing token",
			body: "intake:\n  admin_ids: \"111\"\n",
		},
		{
			name: "missing admins",
			body: "telegram:\n  token: \"123:abc\"\n",
		},
		{
			name: "negative settle",
			body: "telegram:\n  token: \"123:abc\"\nintake:\n  admin_ids: \"111\"\n  media_settle_ms: -1\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tc.body)); err == nil {
				t.Error("config accepted")
			}
		})
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("INTAKE_ADMIN_IDS", "999")

	path := writeConfig(t, `
telegram:
  token: "123:abc"
intake:
  admin_ids: "111"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	admins, err := cfg.AdminList()
	if err != nil {
		t.Fatal(err)
	}
	if len(admins) != 1 || admins[0] != 999 {
		t.Errorf("admins = %v, want [999]", admins)
	}
}
