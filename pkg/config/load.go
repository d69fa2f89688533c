package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName   = "statusbar"
	envPrefix = "STATUSBAR"
)

// envKeys 没有 flag 绑定时 viper 只认识配置文件里出现过的 key，这里显式绑定环境变量
var envKeys = []string{
	"general.separator",
	"general.refresh",
	"general.sink",
	"log.level",
	"log.format",
	"log.path",
	"log.max_age",
	"metrics.textfile",
	"metrics.interval",
}

// Error 配置错误：文件缺失、解析失败或校验失败，启动阶段直接终止
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// LoadConfigWithCli (Flags + TOML + ENV)
// 未通过 -c 指定文件时按 SearchPaths 查找，全部不存在则使用内置默认配置
func LoadConfigWithCli(cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	// 1. 绑定 Cobra Flags → Viper
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, &Error{Err: fmt.Errorf("bind flags: %w", err)}
	}

	configFile, _ := cmd.Flags().GetString("config")
	return load(v, configFile, cmd.Flags().Changed("config"))
}

// LoadFile 从指定文件加载配置（文件必须存在），STATUSBAR_ 环境变量同样覆盖文件中的值
func LoadFile(path string) (*Config, error) {
	return load(viper.New(), path, true)
}

func load(v *viper.Viper, path string, explicit bool) (*Config, error) {
	file, err := resolvePath(path, explicit)
	if err != nil {
		return nil, err
	}

	// 2. 解析配置文件
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, &Error{Path: file, Err: fmt.Errorf("read: %w", err)}
		}
	}

	// 3. 环境变量 STATUSBAR_GENERAL_SEPARATOR -> general.separator
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, &Error{Path: file, Err: fmt.Errorf("bind env %s: %w", key, err)}
		}
	}

	// 4. 解码到结构体
	cfg := NewDefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		DecodeHook:       mapstructure.DecodeHookFuncType(rejectNegativeUnsigned),
	})
	if err != nil {
		return nil, &Error{Path: file, Err: fmt.Errorf("new decoder: %w", err)}
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, &Error{Path: file, Err: fmt.Errorf("decode: %w", err)}
	}

	cfg.File = file
	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultSources()
	}
	cfg.expandPaths()

	// 5. 校验配置
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Path: file, Err: fmt.Errorf("validate: %w", err)}
	}
	return cfg, nil
}

// rejectNegativeUnsigned 弱类型解码会把负数回绕成极大的无符号数，在解码前直接拒绝
func rejectNegativeUnsigned(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	val := reflect.ValueOf(data)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if val.Int() < 0 {
			return nil, fmt.Errorf("negative value %d for unsigned field", val.Int())
		}
	case reflect.Float32, reflect.Float64:
		if val.Float() < 0 {
			return nil, fmt.Errorf("negative value %v for unsigned field", val.Float())
		}
	}
	return data, nil
}

// resolvePath 显式指定的文件必须存在；否则返回第一个存在的候选路径，没有则返回空串
func resolvePath(path string, explicit bool) (string, error) {
	if explicit {
		if path == "" {
			return "", &Error{Err: errors.New("empty config path")}
		}
		path = expandHome(path)
		if _, err := os.Stat(path); err != nil {
			return "", &Error{Path: path, Err: err}
		}
		return path, nil
	}
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// SearchPaths 默认配置文件查找顺序
//  1. $XDG_CONFIG_HOME/statusbar/config.toml
//  2. ~/.config/statusbar/config.toml
//  3. ./config.toml
func SearchPaths() []string {
	var paths []string
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		paths = append(paths, filepath.Join(dir, appName, "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}
	return append(paths, "config.toml")
}

func (c *Config) expandPaths() {
	c.Log.Path = expandHome(c.Log.Path)
	c.Metrics.Textfile = expandHome(c.Metrics.Textfile)
	for i := range c.Sources {
		c.Sources[i].Path = expandHome(c.Sources[i].Path)
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
