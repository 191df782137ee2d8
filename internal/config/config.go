// Package config loads gateway configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config is the full environment-driven configuration. Required variables
// fail Load with a descriptive error, not at request time.
type Config struct {
	Port  int  `env:"PORT,default=3000"`
	Debug bool `env:"DEBUG,default=false"`

	RPCURL     string        `env:"RPC_URL,required"`
	ChainID    uint64        `env:"CHAIN_ID,required"`
	PrivateKey string        `env:"PRIVATE_KEY,required"`
	RPCTimeout time.Duration `env:"RPC_TIMEOUT,default=30s"`

	ZonesAddress           string `env:"ZONES_ADDRESS,required"`
	DroneNFTAddress        string `env:"DRONE_IDENTITY_NFT_ADDRESS,required"`
	OperatorAddress        string `env:"OPERATOR_ADDRESS,required"`
	ReputationTokenAddress string `env:"REPUTATION_TOKEN_ADDRESS,required"`
	RouteLoggingAddress    string `env:"ROUTE_LOGGING_ADDRESS,required"`
	RoutePermissionAddress string `env:"ROUTE_PERMISSION_ADDRESS,required"`
	ViolationsAddress      string `env:"VIOLATIONS_ALERTING_ADDRESS,required"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=*"`
	RateLimit      int      `env:"RATE_LIMIT_RPS,default=50"`
	RateBurst      int      `env:"RATE_LIMIT_BURST,default=100"`
}

// Load reads .env when present, decodes the environment and validates the
// contract addresses.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional; real env always wins

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	addresses := map[string]string{
		"ZONES_ADDRESS":               c.ZonesAddress,
		"DRONE_IDENTITY_NFT_ADDRESS":  c.DroneNFTAddress,
		"OPERATOR_ADDRESS":            c.OperatorAddress,
		"REPUTATION_TOKEN_ADDRESS":    c.ReputationTokenAddress,
		"ROUTE_LOGGING_ADDRESS":       c.RouteLoggingAddress,
		"ROUTE_PERMISSION_ADDRESS":    c.RoutePermissionAddress,
		"VIOLATIONS_ALERTING_ADDRESS": c.ViolationsAddress,
	}
	for name, addr := range addresses {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("%s: invalid contract address %q", name, addr)
		}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT: %d out of range", c.Port)
	}
	return nil
}
