package logs

import (
	"context"
	"fmt"

	"github.com/julianstephens/wird/internal/cli"
)

type ReasonCmd struct {
	List ReasonListCmd `cmd:"" help:"List saved reasons." default:"1"`
	Add  ReasonAddCmd  `cmd:"" help:"Save a reason for later use."`
}

type ReasonListCmd struct{}

func (c *ReasonListCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator(context.Background())
	if err != nil {
		return err
	}

	reasons := coord.Snapshot().Reasons
	if len(reasons) == 0 {
		fmt.Println("No saved reasons.")
		return nil
	}
	for _, r := range reasons {
		fmt.Println(r.Text)
	}
	return nil
}

type ReasonAddCmd struct {
	Text string `arg:"" help:"Reason text."`
}

func (c *ReasonAddCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	coord, err := ctx.Coordinator(bg)
	if err != nil {
		return err
	}
	if err := coord.AddReason(bg, c.Text); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	fmt.Printf("Saved reason: %s\n", c.Text)
	return nil
}
