package system

import (
	"github.com/julianstephens/meter/internal/cli"
	"github.com/julianstephens/meter/internal/notifier"
	"github.com/julianstephens/meter/internal/session"
	"github.com/julianstephens/meter/internal/tui"
)

type TuiCmd struct {
	Format string `short:"f" help:"Invoice format for this session: pdf or text. Defaults to the configured format."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	gen, err := ctx.Generator(c.Format)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	sess := session.New(ctx.Store,
		session.WithNotifier(notifier.New("")),
		session.WithGenerator(gen),
		session.WithClock(ctx.Clock),
		session.WithLocation(ctx.Location()),
	)
	return tui.Run(sess, ctx.Config.TickInterval)
}
