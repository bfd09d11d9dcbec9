// Command intasm-run loads an assembled Intcode program and executes it,
// printing each OUT value as it is produced.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	cli "github.com/urfave/cli/v2"

	"intasm/vm"
)

func runFile(inputPath string, queued []int64) error {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	program, err := vm.ParseProgram(string(src))
	if err != nil {
		return err
	}

	stdin := bufio.NewReader(os.Stdin)
	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	inputHandle := func() (int64, error) {
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return 0, err
		}
		return strconv.ParseInt(trimNewline(line), 10, 64)
	}
	outputHandle := func(v int64) error {
		if _, err := fmt.Fprintln(stdout, v); err != nil {
			return err
		}
		return stdout.Flush()
	}

	machine := vm.New(program, queued, inputHandle, outputHandle)
	_, err = machine.Run(context.Background())
	return err
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func main() {
	app := cli.NewApp()
	app.Name = "intasm-run"
	app.Usage = "run an assembled Intcode program"
	app.ArgsUsage = "<input> [intArg ...]"
	app.Action = func(c *cli.Context) error {
		if c.Args().Len() < 1 {
			return cli.Exit("missing required <input> argument", 1)
		}

		queued := make([]int64, 0, c.Args().Len()-1)
		for _, tok := range c.Args().Slice()[1:] {
			v, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid integer argument %q", tok), 1)
			}
			queued = append(queued, v)
		}

		if err := runFile(c.Args().First(), queued); err != nil {
			return cli.Exit(fmt.Sprintf("panic: %v", err), 1)
		}
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
