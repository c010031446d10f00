package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/reusee/rectm/debugs"
	"github.com/reusee/rectm/machines"
)

const consoleHelp = `s [n]  step n times, default 1
r      run until halt or the step bound
t      show the tape literal
d      show the definition
i      open a starlark tap on the machine
q      quit`

var errQuit = errors.New("quit")

type console struct {
	m       *machines.Machine
	run     RunMachine
	inspect debugs.InspectMachine
	out     io.Writer
}

// exec runs one console command. It returns errQuit on q.
func (c *console) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {

	case "s", "step":
		n := 1
		if len(fields) > 1 {
			var err error
			n, err = strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				return fmt.Errorf("bad step count: %s", fields[1])
			}
		}
		c.m.StepN(n)
		fmt.Fprintln(c.out, renderStatus(c.m))

	case "r", "run":
		err := c.run(ctx, c.m)
		fmt.Fprintln(c.out, renderStatus(c.m))
		if err != nil {
			return err
		}

	case "t", "tape":
		fmt.Fprintln(c.out, c.m.Tape().Literal())

	case "d", "def":
		fmt.Fprint(c.out, c.m.Definition().String())

	case "i", "inspect":
		c.inspect(ctx, "console", c.m)

	case "q", "quit":
		return errQuit

	case "h", "help":
		fmt.Fprintln(c.out, consoleHelp)

	default:
		return fmt.Errorf("unknown command %q, h for help", fields[0])
	}
	return nil
}

func runConsole(ctx context.Context, c *console) {
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".tmrun_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "tm> ",
		HistoryFile: historyFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	defer rl.Close()
	c.out = rl.Stdout()

	fmt.Fprintln(c.out, renderStatus(c.m))
	for {
		line, err := rl.Readline()
		if err != nil { // Ctrl-C or Ctrl-D
			break
		}
		if err := c.exec(ctx, line); errors.Is(err, errQuit) {
			break
		} else if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}
