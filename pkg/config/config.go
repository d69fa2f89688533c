package config

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

var valid = validator.New()

// MaxIntervalMillis 所有毫秒周期字段的上限（一天）
const MaxIntervalMillis = 24 * 60 * 60 * 1000

// 数据源类型（[[source]] 的 type 字段）
const (
	SourceCPU         = "cpu"
	SourceMemory      = "memory"
	SourceDisk        = "disk"
	SourceBattery     = "battery"
	SourceTemperature = "temperature"
	SourceVolume      = "volume"
	SourceNetwork     = "network"
	SourceScript      = "script"
	SourceWeather     = "weather"
	SourceDate        = "date"
)

// 输出端类型
const (
	SinkXSetRoot = "xsetroot"
	SinkStdout   = "stdout"
)

// Config 全局配置结构体（聚合所有核心模块）
type Config struct {
	General GeneralConfig  `toml:"general" mapstructure:"general" comment:"状态栏通用配置"`
	Log     ZapLogConfig   `toml:"log" mapstructure:"log" comment:"日志配置"`
	Metrics MetricsConfig  `toml:"metrics" mapstructure:"metrics" comment:"自监控指标导出"`
	Sources []SourceConfig `toml:"source" mapstructure:"source" validate:"dive" comment:"数据源列表，顺序即状态栏字段顺序"`

	// File 实际加载的配置文件路径，使用内置默认配置时为空
	File string `toml:"-" mapstructure:"-"`
}

// GeneralConfig 状态栏通用配置
type GeneralConfig struct {
	Separator string `toml:"separator" mapstructure:"separator" comment:"字段分隔符" default:"|"`
	Refresh   uint64 `toml:"refresh" mapstructure:"refresh" validate:"required,gt=0,lte=86400000" comment:"聚合刷新周期（毫秒）" default:"100"`
	Sink      string `toml:"sink" mapstructure:"sink" validate:"required,oneof=xsetroot stdout" comment:"输出端" default:"xsetroot"`
}

// ZapLogConfig 日志配置
type ZapLogConfig struct {
	Level  string `toml:"level" mapstructure:"level" validate:"required,oneof=debug info warn error" comment:"日志级别" default:"info"`
	Format string `toml:"format" mapstructure:"format" validate:"required,oneof=json console" comment:"控制台日志格式（json/console）" default:"console"`
	Path   string `toml:"path" mapstructure:"path" comment:"日志文件目录，为空时只输出到 stderr"`
	MaxAge int    `toml:"max_age" mapstructure:"max_age" validate:"gte=0" comment:"日志文件最大保存天数" default:"7"`
}

// MetricsConfig 自监控指标配置（textfile 方式导出，不监听端口）
type MetricsConfig struct {
	Textfile string `toml:"textfile" mapstructure:"textfile" comment:"node_exporter textfile 路径，为空则关闭"`
	Interval uint64 `toml:"interval" mapstructure:"interval" validate:"required,gt=0,lte=86400000" comment:"写入周期（毫秒）" default:"15000"`
}

// SourceConfig 单个数据源配置，可选字段为 nil 时由数据源自身给出默认值
type SourceConfig struct {
	Type string  `toml:"type" mapstructure:"type" validate:"required,oneof=cpu memory disk battery temperature volume network script weather date"`
	Time *uint64 `toml:"time,omitempty" mapstructure:"time" validate:"omitempty,gt=0,lte=86400000" comment:"采集间隔（毫秒）"`
	Name *string `toml:"name,omitempty" mapstructure:"name"`
	Icon *string `toml:"icon,omitempty" mapstructure:"icon"`

	// 电池
	IconFull   *string `toml:"icon_full,omitempty" mapstructure:"icon_full"`
	IconMedium *string `toml:"icon_medium,omitempty" mapstructure:"icon_medium"`
	IconLow    *string `toml:"icon_low,omitempty" mapstructure:"icon_low"`
	// 音量
	IconActive *string `toml:"icon_active,omitempty" mapstructure:"icon_active"`
	IconMuted  *string `toml:"icon_muted,omitempty" mapstructure:"icon_muted"`
	// 网络
	IconUp   *string `toml:"icon_up,omitempty" mapstructure:"icon_up"`
	IconDown *string `toml:"icon_down,omitempty" mapstructure:"icon_down"`

	Path     string `toml:"path,omitempty" mapstructure:"path" validate:"required_if=Type script"`
	Unit     string `toml:"unit,omitempty" mapstructure:"unit"`
	Mode     string `toml:"mode,omitempty" mapstructure:"mode" validate:"omitempty,oneof=usage load"`
	Format   string `toml:"format,omitempty" mapstructure:"format"`
	Location string `toml:"location,omitempty" mapstructure:"location"`
	URL      string `toml:"url,omitempty" mapstructure:"url" validate:"omitempty,url"`
	Address  string `toml:"address,omitempty" mapstructure:"address" validate:"omitempty,hostname_port"`
	Method   string `toml:"method,omitempty" mapstructure:"method" validate:"omitempty,oneof=http tcp"`
	Timeout  uint64 `toml:"timeout,omitempty" mapstructure:"timeout" comment:"探测超时（毫秒）"`
	Device   string `toml:"device,omitempty" mapstructure:"device"`
	Control  string `toml:"control,omitempty" mapstructure:"control"`
	Sensor   string `toml:"sensor,omitempty" mapstructure:"sensor"`
}

// NewDefaultConfig 创建默认配置（数据源列表为空，解码后再由 DefaultSources 兜底）
func NewDefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			Separator: "|",
			Refresh:   100,
			Sink:      SinkXSetRoot,
		},
		Log: ZapLogConfig{
			Level:  "info",
			Format: "console",
			Path:   defaultLogPath(),
			MaxAge: 7,
		},
		Metrics: MetricsConfig{
			Interval: 15000,
		},
	}
}

// DefaultSources 未配置任何数据源时使用的内置数据源
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{Type: SourceCPU},
		{Type: SourceMemory},
		{Type: SourceTemperature},
		{Type: SourceDisk},
		{Type: SourceBattery},
		{Type: SourceDate},
	}
}

// defaultLogPath $XDG_STATE_HOME/statusbar，回退到 ~/.local/state/statusbar
func defaultLogPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "statusbar")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "statusbar")
}
