package main

import (
	"github.com/robotalks/periph.go/pkg/cli/sh"
	env "github.com/robotalks/periph.go/pkg/env/connector"

	_ "github.com/robotalks/periph.go/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
