package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dwm-statusbar/pkg/util"
)

// Version 构建时通过 -ldflags "-X github.com/dwm-statusbar/cmd/cli.Version=..." 注入
var Version = "dev"

func newVersionCmd() *cobra.Command {
	var noBanner bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !noBanner {
				if err := util.PrintBanner(out, "statusbar", "blue"); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(out, "statusbar %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "-> Skip the ASCII banner | 不打印 banner")
	return cmd
}
