// Command intasm-asm assembles Intcode assembly source into the
// comma-separated integer stream the interpreter consumes.
package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/urfave/cli/v2"

	"intasm/asm"
)

const maxReportedErrors = 50

func assembleFile(inputPath, outputPath string, pretty bool) error {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	tokens, errs := asm.Compile(string(src))
	if len(errs) > 0 {
		for i, e := range errs {
			if i >= maxReportedErrors {
				break
			}
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return cli.Exit(fmt.Sprintf("Build failed with %d errors.", len(errs)), 1)
	}

	text := asm.Join(tokens, pretty)
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".asm") + ".int"
	}
	if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
		return err
	}

	fmt.Printf("compiled %s to %s\n", inputPath, outputPath)
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "intasm-asm"
	app.Usage = "assemble Intcode source into an integer stream"
	app.ArgsUsage = "<input>"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file path (defaults to <input> with .int extension)",
		},
		&cli.BoolFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "pretty-print one instruction per line",
		},
	}
	app.Action = func(c *cli.Context) error {
		if c.Args().Len() < 1 {
			return cli.Exit("missing required <input> argument", 1)
		}
		return assembleFile(c.Args().First(), c.String("output"), c.Bool("format"))
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
