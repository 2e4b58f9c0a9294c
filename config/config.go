package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type ApiConf struct {
	Port string `mapstructure:"port"`
}

// DomainConf fixes the typed-data domain of the deployment. Signer tooling
// must be configured with identical values.
type DomainConf struct {
	Name            string `mapstructure:"name"`
	Version         string `mapstructure:"version"`
	ChainID         uint64 `mapstructure:"chain_id"`
	ContractAddress string `mapstructure:"contract_address"`
}

type DBConf struct {
	DSN          string `mapstructure:"dsn"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

// AdminConf names the principal granted the admin and upgrader roles when
// the engine initializes on first boot.
type AdminConf struct {
	Address string `mapstructure:"address"`
}

type Config struct {
	Api    ApiConf    `mapstructure:"api"`
	Domain DomainConf `mapstructure:"domain"`
	DB     DBConf     `mapstructure:"db"`
	Log    LogConf    `mapstructure:"log"`
	Admin  AdminConf  `mapstructure:"admin"`
}

// UnmarshalConfig reads a toml config file into Config.
func UnmarshalConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	c := new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if c.Api.Port == "" {
		c.Api.Port = ":9000"
	}
	return c, nil
}
