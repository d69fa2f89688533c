package cli

import (
	"github.com/spf13/pflag"
)

func initGeneralFlags(f *pflag.FlagSet) {
	prefix := "general."

	f.String(
		prefix+"separator",
		defaultCfg.General.Separator,
		"-> Separator between fields | 字段分隔符")
	f.Uint64(
		prefix+"refresh",
		defaultCfg.General.Refresh,
		"-> Status line refresh period (ms) | 刷新周期（毫秒）")
	f.String(
		prefix+"sink",
		defaultCfg.General.Sink,
		"-> Output [xsetroot,stdout] | 输出端 [xsetroot,stdout]")
}
