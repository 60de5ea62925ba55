package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/mnemosyne/pkg/claudelog"

	"github.com/secmon-lab/mnemosyne/pkg/cli/config"
	"github.com/secmon-lab/mnemosyne/pkg/usecase"
	"github.com/secmon-lab/mnemosyne/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdStats() *cli.Command {
	var sessionsCfg config.Sessions
	var repoCfg config.Repository

	flags := append(sessionsCfg.Flags(), repoCfg.Flags()...)

	return &cli.Command{
		Name:  "stats",
		Usage: "Print aggregate counts for a sessions directory",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			store, err := sessionsCfg.Configure(ctx, "")
			if err != nil {
				return goerr.Wrap(err, "failed to initialize session store")
			}

			repo, err := repoCfg.Configure(ctx, "")
			if err != nil {
				return goerr.Wrap(err, "failed to initialize task store")
			}
			defer safe.Close(ctx, repo)

			uc := usecase.NewSessionUseCase(store, repo)
			stats, err := uc.Stats(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to collect stats")
			}

			sessions, err := store.List(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list sessions")
			}
			var edits, checks int
			var active time.Duration
			for _, session := range sessions {
				for i := range session.Interactions {
					interaction := &session.Interactions[i]
					edits += claudelog.EditCount(interaction)
					checks += claudelog.CheckCount(interaction)
					if d, ok := claudelog.Duration(interaction); ok && d > 0 {
						active += d
					}
				}
			}

			label := color.New(color.FgCyan).SprintFunc()
			fmt.Fprintf(os.Stdout, "%s %d\n", label("Sessions:"), stats.TotalSessions)
			fmt.Fprintf(os.Stdout, "%s %d\n", label("Interactions:"), stats.TotalInteractions)
			fmt.Fprintf(os.Stdout, "%s %d\n", label("Tasks:"), stats.TotalTasks)
			fmt.Fprintf(os.Stdout, "%s %d\n", label("Edit tool calls:"), edits)
			fmt.Fprintf(os.Stdout, "%s %d\n", label("Check tool calls:"), checks)
			fmt.Fprintf(os.Stdout, "%s %s\n", label("Active time:"), active.Round(time.Second))
			return nil
		},
	}
}
