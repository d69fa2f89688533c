package cli

import (
	"github.com/spf13/cobra"

	"github.com/dwm-statusbar/pkg/config"
)

// newConfigCmd 打印合并默认值、文件、环境变量与 flag 之后的生效配置，可直接作为配置文件使用
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigWithCli(cmd)
			if err != nil {
				return err
			}
			return cfg.WriteTOML(cmd.OutOrStdout())
		},
	}
}
