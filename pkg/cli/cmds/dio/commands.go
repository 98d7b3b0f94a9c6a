package dio

import (
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/periph.go/pkg/cli/sh"
	"github.com/robotalks/periph.go/pkg/periph"
	"github.com/robotalks/periph.go/pkg/periph/msgs"
)

var (
	// GetCmd exposes GetDigitalIO command.
	GetCmd = ishell.Cmd{
		Name:    "dio.get",
		Aliases: []string{"get"},
		Help:    "PIN",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("PIN required"))
				return
			}
			sh.DoCommand(c, &msgs.GetDigitalIO{Pin: c.Args[0]})
		}),
	}

	// SetCmd exposes SetDigitalIO command.
	SetCmd = ishell.Cmd{
		Name:    "dio.set",
		Aliases: []string{"set"},
		Help:    "PIN high|low",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("PIN and LEVEL required"))
				return
			}
			level, err := periph.ParseLevel(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, &msgs.SetDigitalIO{Pin: c.Args[0], High: level == periph.High})
		}),
	}
)

func init() {
	sh.AddCmds(
		&GetCmd,
		&SetCmd,
	)
}
