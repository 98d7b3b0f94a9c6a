package led

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/periph.go/pkg/cli/sh"
	"github.com/robotalks/periph.go/pkg/periph/msgs"
)

var (
	// BlinkCmd exposes LedBlinker command.
	BlinkCmd = ishell.Cmd{
		Name:    "led.blink",
		Aliases: []string{"lb"},
		Help:    "LED solid|blink|pulse [PERIOD(ms)]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("LED and KIND required"))
				return
			}
			msg := msgs.LedBlinker{Led: c.Args[0], Kind: c.Args[1]}
			if len(c.Args) > 2 {
				val, err := strconv.ParseInt(c.Args[2], 10, 64)
				if err != nil {
					c.Err(fmt.Errorf("invalid PERIOD: %v", err))
					return
				}
				msg.PeriodMs = val
			}
			sh.DoCommand(c, &msg)
		}),
	}
)

func init() {
	sh.AddCmds(&BlinkCmd)
}
