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

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string // development / staging / production
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string // mysql / postgres / sqlite
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Checkout 结算定价参数（默认即门店文案：满 50 免运费）
type Checkout struct {
	TaxRate         float64 `mapstructure:"tax_rate"`
	FreeShippingMin float64 `mapstructure:"free_shipping_min"`
	ShippingFlat    float64 `mapstructure:"shipping_flat"`
}

type Cache struct {
	ProductTTLSec int `mapstructure:"product_ttl_sec"`
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	DB       DB
	Redis    Redis    `mapstructure:"redis"`
	Checkout Checkout `mapstructure:"checkout"`
	Cache    Cache    `mapstructure:"cache"`
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("checkout.tax_rate", 0.085)
	v.SetDefault("checkout.free_shipping_min", 50)
	v.SetDefault("checkout.shipping_flat", 5.99)
	v.SetDefault("cache.product_ttl_sec", 60)
	v.SetDefault("jwt.accesstokenttlmin", 7*24*60)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}

	// 签名密钥必须显式配置；仅开发环境放行（绝不回退到硬编码默认值）
	if c.JWT.Secret == "" && !strings.EqualFold(c.App.Env, "development") {
		log.Fatalf("config: jwt.secret must be set outside development (env=%s)", c.App.Env)
	}
	return &c
}
