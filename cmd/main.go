package main

import (
	"github.com/dwm-statusbar/cmd/cli"
)

func main() {
	cli.Execute()
}
