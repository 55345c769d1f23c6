package sscfg

import (
	"fmt"
	"os"

	"github.com/sweemingdow/sdconv/pkg/parser/yaml"
)

const (
	ConfigPathEnv = "SETT_SRV_CONFIG"

	defaultConfigPath = "configs/settingsrv.yaml"
)

// LoadStaticConfig 启动期一次性加载, 路径可用SETT_SRV_CONFIG覆盖
func LoadStaticConfig() (StaticConfig, error) {
	path := os.Getenv(ConfigPathEnv)
	if path == "" {
		path = defaultConfigPath
	}

	return LoadStaticConfigFrom(path)
}

func LoadStaticConfigFrom(path string) (StaticConfig, error) {
	var cfg StaticConfig

	contents, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file failed, path:%s, err:%w", path, err)
	}

	if err = yaml.Parse(contents, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file failed, path:%s, err:%w", path, err)
	}

	cfg.normalize()

	return cfg, nil
}

func (cfg *StaticConfig) normalize() {
	if cfg.App.Name == "" {
		cfg.App.Name = "settingsrv"
	}

	if cfg.App.HttpAddr == "" {
		cfg.App.HttpAddr = ":8090"
	}

	if cfg.App.RpcAddr == "" {
		cfg.App.RpcAddr = ":9090"
	}

	if cfg.SettCfg.SessionsCap <= 0 {
		cfg.SettCfg.SessionsCap = 1024
	}

	if cfg.SettCfg.LockStrip <= 0 {
		cfg.SettCfg.LockStrip = 32
	}

	if cfg.SettCfg.Locale == "" {
		cfg.SettCfg.Locale = "en"
	}

	if cfg.SettCfg.AsyncCoreWorkers <= 0 {
		cfg.SettCfg.AsyncCoreWorkers = 4
	}

	if cfg.SettCfg.AsyncMaxWorkers <= cfg.SettCfg.AsyncCoreWorkers {
		cfg.SettCfg.AsyncMaxWorkers = cfg.SettCfg.AsyncCoreWorkers * 4
	}
}
