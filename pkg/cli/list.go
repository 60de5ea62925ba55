package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mattn/go-isatty"

	"github.com/secmon-lab/mnemosyne/pkg/cli/config"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/repository/memory"
	"github.com/secmon-lab/mnemosyne/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdList() *cli.Command {
	var format string
	var sessionsCfg config.Sessions

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (table, plain or json); defaults to table on a terminal",
			Sources:     cli.EnvVars("MNEMOSYNE_FORMAT"),
			Destination: &format,
		},
	}
	flags = append(flags, sessionsCfg.Flags()...)

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List sessions in a directory",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			store, err := sessionsCfg.Configure(ctx, "")
			if err != nil {
				return goerr.Wrap(err, "failed to initialize session store")
			}

			uc := usecase.NewSessionUseCase(store, memory.New())
			summaries, err := uc.List(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list sessions")
			}

			return writeSummaries(os.Stdout, summaries, format)
		},
	}
}

func writeSummaries(w io.Writer, summaries []model.SessionSummary, format string) error {
	switch strings.ToLower(format) {
	case "":
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return writeSummariesTable(w, summaries)
		}
		return writeSummariesPlain(w, summaries)
	case "table":
		return writeSummariesTable(w, summaries)
	case "plain":
		return writeSummariesPlain(w, summaries)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	default:
		return goerr.New("unsupported format", goerr.V("format", format))
	}
}

func writeSummariesPlain(w io.Writer, summaries []model.SessionSummary) error {
	if _, err := fmt.Fprintln(w, "session_id\tstart_time\tinteractions\tsummary"); err != nil {
		return err
	}
	for _, s := range summaries {
		line := fmt.Sprintf("%s\t%s\t%d\t%s",
			s.SessionID,
			formatStartTime(s.StartTime),
			s.InteractionCount,
			escapeNewlines(s.Summary),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeSummariesTable(w io.Writer, summaries []model.SessionSummary) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 80},
	})

	tw.AppendHeader(table.Row{"#", "Session ID", "Start Time", "Interactions", "Summary"})
	for _, s := range summaries {
		num := "-"
		if s.NumericID != nil {
			num = fmt.Sprintf("%d", *s.NumericID)
		}
		tw.AppendRow(table.Row{
			num,
			s.SessionID,
			formatStartTime(s.StartTime),
			s.InteractionCount,
			escapeNewlines(s.Summary),
		})
	}

	if len(summaries) == 0 {
		tw.AppendRow(table.Row{"-", "(no sessions)", "-", 0, "-"})
	}

	_ = tw.Render()
	return nil
}

func formatStartTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}
