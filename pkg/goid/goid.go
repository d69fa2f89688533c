package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

var prefix = []byte("goroutine ")

// Get 获取当前 goroutine 的 ID，解析失败返回 0
// 栈信息类似: "goroutine 123 [running]:\n"
func Get() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], prefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// String Get 的字符串形式，用于日志字段
func String() string {
	return strconv.FormatUint(Get(), 10)
}
