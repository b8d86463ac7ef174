// chat2csv converts a chat export to CSV from the terminal, using the same
// parse and filter pipeline as the web app.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/waviz/waviz/internal/chat"
	"github.com/waviz/waviz/internal/export"
	"github.com/waviz/waviz/internal/filter"
	"github.com/waviz/waviz/internal/parser"
)

func main() {
	cmd := &cli.Command{
		Name:      "chat2csv",
		Usage:     "convert a WhatsApp chat export (.txt or .zip) to CSV",
		ArgsUsage: "<export file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "hformat",
				Usage: "header format hint, e.g. \"%d.%m.%y, %H:%M - %name:\"",
			},
			&cli.StringFlag{
				Name:  "encoding",
				Usage: "text encoding of the export",
				Value: "utf-8",
			},
			&cli.BoolFlag{
				Name:  "keep-system",
				Usage: "keep platform-generated system messages",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file",
				Value:   export.Filename,
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		color.Error.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("missing export file argument")
	}

	table, err := parser.Parse(path, parser.Options{
		HeaderFormat: cmd.String("hformat"),
		Encoding:     cmd.String("encoding"),
	})
	if err != nil {
		return err
	}
	if !cmd.Bool("keep-system") {
		table = filter.Apply(table)
	}

	csv, err := export.CSV(table)
	if err != nil {
		return err
	}
	out := cmd.String("output")
	if err := os.WriteFile(out, csv, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSummary(table)
	color.Success.Printf("Wrote %d messages to %s\n", table.Len(), out)
	return nil
}

func printSummary(t chat.Table) {
	type stats struct {
		messages   int
		characters int
	}
	perUser := make(map[string]*stats)
	for _, r := range t {
		s, ok := perUser[r.Username]
		if !ok {
			s = &stats{}
			perUser[r.Username] = s
		}
		s.messages++
		s.characters += utf8.RuneCountInString(r.Message)
	}

	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"Participant", "Messages", "Characters"})
	for _, u := range t.Usernames() {
		s := perUser[u]
		tw.Append([]string{u, strconv.Itoa(s.messages), strconv.Itoa(s.characters)})
	}
	tw.Render()
}
