package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/reusee/dscope"
	"github.com/reusee/rectm/cmds"
	"github.com/reusee/rectm/logs"
	"github.com/reusee/rectm/meters"
	"github.com/reusee/rectm/modes"
	"github.com/reusee/rectm/tmconfigs"
	"github.com/reusee/rectm/vars"
)

var (
	sourceFile = cmds.Var[string]("-file")
	funcName   = cmds.Var[string]("-func")
	targetName = cmds.Var[string]("-target")
	outFile    = cmds.Var[string]("-out")
	runArgs    = cmds.Collect[int]("-arg")
	runFlag    = cmds.Switch("-run")
	verifyFlag = cmds.Switch("-verify")
	verifyMax  = cmds.Var[int]("-verify-max")
)

func main() {
	cmds.Execute(os.Args[1:])
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dscope.New(
		new(Module),
		modes.ForProduction(),
	).Call(func(
		logger logs.Logger,
		newSpan logs.NewSpan,
		compile Compile,
		verify Verify,
		serve meters.Serve,
		maxSteps tmconfigs.MaxSteps,
	) {
		go func() {
			if err := serve(ctx); err != nil {
				logger.Error("metrics", "error", err)
			}
		}()

		if *sourceFile == "" {
			fail(fmt.Errorf("-file is required"))
		}
		program, err := loadProgram(*sourceFile)
		if err != nil {
			fail(err)
		}

		if *verifyFlag {
			report, err := verify(ctx, program, vars.FirstNonZero(*verifyMax, 2))
			if err != nil {
				fail(err)
			}
			fmt.Printf("checked %d, skipped %d\n", report.Checked, report.Skipped)
			return
		}

		f, err := selectFunc(program, *funcName)
		if err != nil {
			fail(err)
		}
		target, err := ParseTarget(*targetName)
		if err != nil {
			fail(err)
		}
		ctx, _ := newSpan(ctx, "", "compile")
		compiled, err := compile(ctx, f, target)
		if err != nil {
			fail(err)
		}

		if *runFlag {
			if len(*runArgs) != f.Arity() {
				fail(fmt.Errorf("%s takes %d arguments, got %d", f, f.Arity(), len(*runArgs)))
			}
			result, steps, err := compiled.Run(ctx, *runArgs, int(maxSteps))
			if err != nil {
				fail(logs.WrapSpan(ctx, err))
			}
			fmt.Printf("%d\t%d steps\n", result, steps)
			return
		}

		text := compiled.String()
		if *outFile == "" {
			fmt.Print(text)
			if !strings.HasSuffix(text, "\n") {
				fmt.Println()
			}
			return
		}
		if err := os.WriteFile(*outFile, []byte(text), 0644); err != nil {
			fail(err)
		}
	})
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(-1)
}
