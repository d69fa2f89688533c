package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Validate 配置校验
func (c *Config) Validate() error {
	if err := valid.Struct(c); err != nil {
		return err
	}
	// 	1，校验通用配置
	if err := c.General.Validate(); err != nil {
		return err
	}
	// 	2，校验日志配置
	if err := c.Log.Validate(); err != nil {
		return err
	}
	// 	3，校验数据源
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source must be configured")
	}
	for i := range c.Sources {
		if err := c.Sources[i].Validate(); err != nil {
			return fmt.Errorf("source[%d] (%s): %w", i, c.Sources[i].Type, err)
		}
	}
	return nil
}

// Validate 通用配置校验
func (g *GeneralConfig) Validate() error {
	if err := valid.Struct(g); err != nil {
		return err
	}
	if strings.ContainsAny(g.Separator, "\r\n") {
		return fmt.Errorf("general.separator must not contain line breaks, got %q", g.Separator)
	}
	return nil
}

// Validate 日志配置校验
func (l *ZapLogConfig) Validate() error {
	if err := valid.Struct(l); err != nil {
		return fmt.Errorf("日志配置字段非法: %w", err)
	}
	if l.Path == "" {
		return nil
	}
	if _, err := filepath.Abs(l.Path); err != nil {
		return fmt.Errorf("log.path failed to parse the log path, got %s: %w", l.Path, err)
	}
	return nil
}

// Validate 数据源配置校验（类型相关的参数组合）
func (s *SourceConfig) Validate() error {
	if err := valid.Struct(s); err != nil {
		return err
	}
	switch s.Type {
	case SourceMemory:
		if !oneOf(s.Format, "", "percent", "used") {
			return fmt.Errorf("memory format must be percent or used, got %q", s.Format)
		}
	case SourceDisk:
		if !oneOf(s.Format, "", "percent", "free") {
			return fmt.Errorf("disk format must be percent or free, got %q", s.Format)
		}
	case SourceNetwork:
		if s.Method == "tcp" && s.Address == "" {
			return fmt.Errorf("network method tcp requires address")
		}
	}
	if s.Mode != "" && s.Type != SourceCPU {
		return fmt.Errorf("mode is only supported by cpu sources")
	}
	return nil
}

// Interval 配置的采集间隔，未配置返回 0
func (s *SourceConfig) Interval() time.Duration {
	if s.Time == nil {
		return 0
	}
	return time.Duration(*s.Time) * time.Millisecond
}

// RefreshPeriod 聚合刷新周期
func (g *GeneralConfig) RefreshPeriod() time.Duration {
	return time.Duration(g.Refresh) * time.Millisecond
}

// WriteInterval textfile 写入周期
func (m *MetricsConfig) WriteInterval() time.Duration {
	return time.Duration(m.Interval) * time.Millisecond
}

func oneOf(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
