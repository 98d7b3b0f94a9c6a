package motor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/periph.go/pkg/cli/sh"
	"github.com/robotalks/periph.go/pkg/periph/msgs"
)

var (
	// ConfigCmd exposes ChangeMotorConfig command.
	ConfigCmd = ishell.Cmd{
		Name:    "motor.config",
		Aliases: []string{"mc"},
		Help:    "MOTOR PARAM=VALUE ...",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("MOTOR and at least one PARAM=VALUE required"))
				return
			}
			msg := msgs.ChangeMotorConfig{
				Motor:  c.Args[0],
				Params: make(map[string]float64),
			}
			for _, arg := range c.Args[1:] {
				items := strings.SplitN(arg, "=", 2)
				if len(items) != 2 {
					c.Err(fmt.Errorf("invalid PARAM=VALUE: %q", arg))
					return
				}
				val, err := strconv.ParseFloat(items[1], 64)
				if err != nil {
					c.Err(fmt.Errorf("invalid value for %q: %v", items[0], err))
					return
				}
				msg.Params[items[0]] = val
			}
			sh.DoCommand(c, &msg)
		}),
	}
)

func init() {
	sh.AddCmds(&ConfigCmd)
}
