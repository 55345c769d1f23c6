package sscfg

import (
	"os"
	"path/filepath"
	"testing"
)

const cfgContent = `
app:
  name: settingsrv
  http-addr: ":18090"
sql-config:
  schema: mysql
  host: 127.0.0.1
  port: 3306
  database: sdconv
  username: root
  password: root
sett-config:
  sessions-cap: 256
  locale: zh-Hans
`

func TestLoadStaticConfigFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settingsrv.yaml")
	if err := os.WriteFile(path, []byte(cfgContent), 0o644); err != nil {
		t.Fatalf("write temp config failed:%v", err)
	}

	cfg, err := LoadStaticConfigFrom(path)
	if err != nil {
		t.Fatalf("load failed:%v", err)
	}

	if cfg.App.HttpAddr != ":18090" {
		t.Fatalf("unexpected http addr:%s", cfg.App.HttpAddr)
	}

	if cfg.SqlCfg.Database != "sdconv" {
		t.Fatalf("unexpected database:%s", cfg.SqlCfg.Database)
	}

	if cfg.SettCfg.SessionsCap != 256 || cfg.SettCfg.Locale != "zh-Hans" {
		t.Fatalf("unexpected sett config:%+v", cfg.SettCfg)
	}

	// 未配置项要有兜底
	if cfg.App.RpcAddr == "" || cfg.SettCfg.LockStrip <= 0 || cfg.SettCfg.AsyncCoreWorkers <= 0 {
		t.Fatalf("defaults not applied:%+v", cfg)
	}
}

func TestLoadStaticConfigMissingFile(t *testing.T) {
	if _, err := LoadStaticConfigFrom(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file must fail")
	}
}
