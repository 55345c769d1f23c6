package sscfg

import (
	"time"

	"github.com/sweemingdow/sdconv/external/econfig"
	"github.com/sweemingdow/sdconv/pkg/mylog"
)

type AppConfig struct {
	Name     string `yaml:"name"`
	HttpAddr string `yaml:"http-addr"`
	RpcAddr  string `yaml:"rpc-addr"`
}

type RpcClientConfig struct {
	UserSrvAddr string        `yaml:"user-srv-addr"`
	CallTimeout time.Duration `yaml:"call-timeout"`
}

type SettConfig struct {
	// 预估同时打开的设置页数量
	SessionsCap int `yaml:"sessions-cap"`

	LockStrip int `yaml:"lock-strip"`

	// 成员排序用的locale, 如en/zh-Hans
	Locale string `yaml:"locale"`

	AsyncCoreWorkers  int `yaml:"async-core-workers"`
	AsyncMaxWorkers   int `yaml:"async-max-workers"`
	AsyncMaxWaitQueue int `yaml:"async-max-wait-queue"`
}

type StaticConfig struct {
	App AppConfig `yaml:"app"`

	LogCfg mylog.LogCfg `yaml:"log-config"`

	SqlCfg econfig.SqlConfig `yaml:"sql-config"`

	RedisCfg econfig.RedisCfg `yaml:"redis-config"`

	NsqCfg econfig.NsqConfig `yaml:"nsq-config"`

	RpcCliCfg RpcClientConfig `yaml:"rpc-client-config"`

	SettCfg SettConfig `yaml:"sett-config"`
}
