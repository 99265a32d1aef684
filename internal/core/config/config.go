package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level      string
	JSON       bool
	File       string // 非空则同时写文件并切割
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Limits 传输层保护参数
type Limits struct {
	RateRPS           float64
	RateBurst         int
	RatePerIP         bool // true 则按客户端 IP 分桶限速
	MaxConcurrent     int64
	MaxBodyBytes      int64
	RequestTimeoutSec int
}

type Config struct {
	App    App
	Log    Log
	Limits Limits
}

// Load 读取 yaml + APP_ 环境变量覆盖；没有配置文件时用默认值起服务
func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	v.SetDefault("app.name", "user-api")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 3)
	v.SetDefault("log.maxagedays", 7)
	v.SetDefault("limits.raterps", 200)
	v.SetDefault("limits.rateburst", 400)
	v.SetDefault("limits.rateperip", false)
	v.SetDefault("limits.maxconcurrent", 300)
	v.SetDefault("limits.maxbodybytes", 1<<20)
	v.SetDefault("limits.requesttimeoutsec", 10)

	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			log.Fatalf("read config: %v", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}
