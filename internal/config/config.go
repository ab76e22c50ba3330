package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env-default:"info"`
	ServerName string    `yaml:"server-name" env-default:"Host"`
	Game       Game      `yaml:"game"`
	Discovery  Discovery `yaml:"discovery"`
	Bot        Bot       `yaml:"bot"`
	Archive    Archive   `yaml:"archive"`
}

type Game struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"9800"`
	Pin  string `yaml:"pin" env-default:""`
}

type Discovery struct {
	Enabled bool   `yaml:"enabled" env-default:"true"`
	Port    string `yaml:"port" env-default:"9998"`
}

// Bot - takes the first seat over loopback so a single human opponent can play offline.
type Bot struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	Name    string `yaml:"name" env-default:"HostPlayer"`
	Depth   int    `yaml:"depth" env-default:"0"`
}

type Archive struct {
	Enabled bool  `yaml:"enabled" env-default:"false"`
	Redis   Redis `yaml:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Game) GetGameAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
