package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/gauge/internal/output"
	"github.com/panbanda/gauge/pkg/gauge"
	"github.com/panbanda/gauge/pkg/lang"
)

func languagesCmd() *cli.Command {
	return &cli.Command{
		Name:   "languages",
		Usage:  "List the languages with dedicated lexical profiles",
		Action: runLanguagesCmd,
	}
}

// languageRow is the structured form of one languages row.
type languageRow struct {
	Tag        string   `json:"tag" toon:"tag"`
	Name       string   `json:"name" toon:"name"`
	Aliases    []string `json:"aliases,omitempty" toon:"aliases"`
	Extensions []string `json:"extensions" toon:"extensions"`
	Loops      []string `json:"loop_keywords" toon:"loop_keywords"`
}

func runLanguagesCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(languagesTable())
}

func languagesTable() *output.Table {
	var data []languageRow
	var rows [][]string
	for _, p := range lang.Profiles() {
		r := languageRow{
			Tag:        string(p.Language),
			Name:       p.Name,
			Aliases:    p.Aliases,
			Extensions: p.Extensions,
			Loops:      p.LoopKeywords,
		}
		data = append(data, r)

		ext := strings.Join(r.Extensions, " ")
		if p.IsFallback() {
			ext = "(any other)"
		}
		rows = append(rows, []string{r.Tag, r.Name, strings.Join(r.Aliases, ", "), ext, strings.Join(r.Loops, " ")})
	}

	footer := []string{fmt.Sprintf("Languages: %d", len(data)-1), "", "", "", ""}
	return output.NewTable("Languages", []string{"Tag", "Name", "Aliases", "Extensions", "Loops"}, rows, footer, data)
}

func templateCmd() *cli.Command {
	return &cli.Command{
		Name:      "template",
		Usage:     "Print a starter snippet for a language",
		ArgsUsage: "<language>",
		Action:    runTemplateCmd,
	}
}

func runTemplateCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected one language tag, one of: %s", strings.Join(lang.Supported(), ", "))
	}
	tag := c.Args().First()
	t, ok := gauge.Template(tag)
	if !ok {
		return fmt.Errorf("no template for %q, supported: %s", tag, strings.Join(lang.Supported(), ", "))
	}
	_, err := fmt.Fprint(c.App.Writer, t)
	return err
}
