// Package sink delivers the joined status line to its display.
package sink

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/dwm-statusbar/pkg/config"
)

// Sink displays one complete status line. Any error is fatal to the caller.
type Sink interface {
	Deliver(ctx context.Context, line string) error
}

// DeliveryError 状态栏写出失败。Output 为外部程序的输出，可能为空
type DeliveryError struct {
	Line   string
	Err    error
	Output string
}

func (e *DeliveryError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("deliver status line: %v: %s", e.Err, e.Output)
	}
	return fmt.Sprintf("deliver status line: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Func 函数适配器，测试中常用
type Func func(ctx context.Context, line string) error

func (f Func) Deliver(ctx context.Context, line string) error { return f(ctx, line) }

// XSetRoot 通过 `xsetroot -name` 设置根窗口标题，dwm 会把它显示在状态栏
type XSetRoot struct {
	Path string
}

func NewXSetRoot() *XSetRoot {
	return &XSetRoot{Path: "xsetroot"}
}

// Deliver 程序不存在与非零退出码同样视为失败
func (x *XSetRoot) Deliver(ctx context.Context, line string) error {
	out, err := exec.CommandContext(ctx, x.Path, "-name", line).CombinedOutput()
	if err != nil {
		return &DeliveryError{Line: line, Err: err, Output: strings.TrimSpace(string(out))}
	}
	return nil
}

// Writer 每行写一次，主要用于调试或管道给其它状态栏程序
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (s *Writer) Deliver(_ context.Context, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, line+"\n"); err != nil {
		return &DeliveryError{Line: line, Err: err}
	}
	return nil
}

// New 按配置名创建 sink，stdout 写到 out
func New(name string, out io.Writer) (Sink, error) {
	switch name {
	case "", config.SinkXSetRoot:
		return NewXSetRoot(), nil
	case config.SinkStdout:
		return NewWriter(out), nil
	default:
		return nil, &config.Error{Err: fmt.Errorf("unknown sink %q", name)}
	}
}
