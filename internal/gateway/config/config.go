package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	viper "github.com/spf13/viper"

	"github.com/dmi3ev1987/foodgram/internal/gateway/proxy"
)

const DefaultMaxBodyBytes = 10 << 20 // 10 MiB, nginx client_max_body_size

// RouteConfig declares a single dispatch rule. Exactly one of Upstream and
// Dir must be set.
type RouteConfig struct {
	Name     string `mapstructure:"name"`
	Prefix   string `mapstructure:"prefix"`
	Upstream string `mapstructure:"upstream"`
	Dir      string `mapstructure:"dir"`
	Alias    bool   `mapstructure:"alias"`
	Fallback string `mapstructure:"fallback"`
}

type GatewayConfig struct {
	ListenAddr   string        `mapstructure:"listen_addr"`
	AdminAddr    string        `mapstructure:"admin_addr"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	Routes       []RouteConfig `mapstructure:"routes"`
}

func loadEnv() error {
	err := viper.BindEnv("gateway_path", "FOODGRAM_GATEWAY_PATH")
	if err != nil {
		return err
	}
	viper.SetDefault("gateway_path", "/etc/foodgram")

	viper.SetDefault("listen_addr", ":80")
	viper.SetDefault("admin_addr", ":8081")
	viper.SetDefault("max_body_bytes", DefaultMaxBodyBytes)
	return nil
}

// NewGatewayConfig loads gateway.yml from /etc/foodgram or
// $FOODGRAM_GATEWAY_PATH. A missing config file is not an error: the built-in
// foodgram route table applies.
func NewGatewayConfig() (*GatewayConfig, error) {
	if err := loadEnv(); err != nil {
		return nil, err
	}

	viper.AddConfigPath("/etc/foodgram")
	viper.AddConfigPath(viper.GetString("gateway_path"))

	viper.SetConfigType("yml")
	viper.SetConfigName("gateway")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Debug().Msg("no gateway.yml found, using built-in route table")
	}

	var config GatewayConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}

	if len(config.Routes) == 0 {
		config.Routes = DefaultRoutes()
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Debug().Msgf("Loaded gateway config: %+v", config)

	return &config, nil
}

// DefaultRoutes is the foodgram deployment's route table.
func DefaultRoutes() []RouteConfig {
	return []RouteConfig{
		{Name: "api-docs", Prefix: "/api/docs/", Dir: "/usr/share/nginx/html", Fallback: "redoc.html"},
		{Name: "backend-api", Prefix: "/api/", Upstream: "http://backend:7000/api/"},
		{Name: "backend-admin", Prefix: "/admin/", Upstream: "http://backend:7000/admin/"},
		{Name: "backend-shortlinks", Prefix: "/s/", Upstream: "http://backend:7000/s/"},
		{Name: "media", Prefix: "/media/", Dir: "/var/www/foodgram/media/", Alias: true},
		{Name: "static", Prefix: "/", Dir: "/static/", Alias: true, Fallback: "index.html"},
	}
}

func (c *GatewayConfig) validate() error {
	for _, route := range c.Routes {
		if route.Name == "" {
			return fmt.Errorf("route with prefix %q has no name", route.Prefix)
		}
		if !strings.HasPrefix(route.Prefix, "/") {
			return fmt.Errorf("route %s: prefix %q must begin with /", route.Name, route.Prefix)
		}
		if (route.Upstream == "") == (route.Dir == "") {
			return fmt.Errorf("route %s: exactly one of upstream and dir must be set", route.Name)
		}
		if route.Upstream != "" {
			u, err := url.Parse(route.Upstream)
			if err != nil {
				return fmt.Errorf("route %s: invalid upstream: %w", route.Name, err)
			}
			if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("route %s: upstream %q must be an absolute http(s) URL", route.Name, route.Upstream)
			}
		}
	}
	return nil
}

// BuildRuleSet converts the validated route table into the immutable rule set
// the proxy server dispatches on.
func (c *GatewayConfig) BuildRuleSet() (*proxy.RuleSet, error) {
	rules := proxy.NewRuleSet()
	for _, route := range c.Routes {
		var rule proxy.RuleHandler
		if route.Upstream != "" {
			forward, err := url.Parse(route.Upstream)
			if err != nil {
				return nil, fmt.Errorf("route %s: %w", route.Name, err)
			}
			rule = &proxy.RedirectRule{
				PathPrefix:      route.Prefix,
				ForwardLocation: forward,
			}
		} else {
			rule = &proxy.FileServerRule{
				PathPrefix: route.Prefix,
				Dir:        route.Dir,
				Alias:      route.Alias,
				Fallback:   route.Fallback,
			}
		}
		if err := rules.Add(route.Name, rule); err != nil {
			return nil, err
		}
	}
	return rules, nil
}
