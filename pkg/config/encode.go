package config

import (
	"io"

	"github.com/BurntSushi/toml"
)

// WriteTOML 以 TOML 格式输出配置（statusbar config 子命令使用）
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
