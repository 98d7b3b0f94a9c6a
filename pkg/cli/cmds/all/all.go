// Package all pulls in every command provider.
package all

import (
	_ "github.com/robotalks/periph.go/pkg/cli/cmds/dio"
	_ "github.com/robotalks/periph.go/pkg/cli/cmds/led"
	_ "github.com/robotalks/periph.go/pkg/cli/cmds/motor"
)
