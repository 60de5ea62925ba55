package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/mnemosyne/pkg/claudelog"
	"github.com/urfave/cli/v3"
)

type fileReport struct {
	name     string
	entries  int
	badLines []int
	readErr  error
}

func cmdValidate() *cli.Command {
	var dir string

	return &cli.Command{
		Name:  "validate",
		Usage: "Parse every session file in a directory and report problems",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "sessions-dir",
				Usage:       "Directory containing session log files (*.jsonl)",
				Sources:     cli.EnvVars("MNEMOSYNE_SESSIONS_DIR"),
				Destination: &dir,
				Required:    true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return goerr.Wrap(err, "failed to read sessions directory", goerr.V("dir", dir))
			}

			var reports []fileReport
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
					continue
				}
				reports = append(reports, validateFile(filepath.Join(dir, e.Name())))
			}

			ok := color.New(color.FgGreen).SprintFunc()
			ng := color.New(color.FgRed).SprintFunc()
			warn := color.New(color.FgYellow).SprintFunc()

			var failed int
			for _, r := range reports {
				switch {
				case r.readErr != nil:
					failed++
					fmt.Fprintf(os.Stdout, "%s %s: %v\n", ng("NG"), r.name, r.readErr)
				case len(r.badLines) > 0:
					fmt.Fprintf(os.Stdout, "%s %s: %d entries, unparseable lines %v\n",
						warn("WARN"), r.name, r.entries, r.badLines)
				default:
					fmt.Fprintf(os.Stdout, "%s %s: %d entries\n", ok("OK"), r.name, r.entries)
				}
			}

			fmt.Fprintf(os.Stdout, "checked %d files\n", len(reports))
			if failed > 0 {
				return goerr.New("unreadable session files", goerr.V("failed", failed))
			}
			return nil
		},
	}
}

func validateFile(path string) fileReport {
	report := fileReport{name: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		report.readErr = err
		return report
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if _, err := claudelog.ParseLine(line); err != nil {
			report.badLines = append(report.badLines, lineNo)
			continue
		}
		report.entries++
	}
	if err := scanner.Err(); err != nil {
		report.readErr = err
	}
	return report
}
