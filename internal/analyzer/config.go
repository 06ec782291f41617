package analyzer

import "github.com/orcasound-tools/shipnoise-analyzer/pkg/logger"

type Config struct {
	DataRoot   string
	WindowSize int
	Overlap    int
	Logger     *logger.Logger
}

type Option func(*Config)

func WithDataRoot(root string) Option {
	return func(c *Config) {
		c.DataRoot = root
	}
}

func WithWindowSize(n int) Option {
	return func(c *Config) {
		c.WindowSize = n
	}
}

func WithOverlap(n int) Option {
	return func(c *Config) {
		c.Overlap = n
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func defaultConfig() *Config {
	return &Config{
		DataRoot: "output",
	}
}
