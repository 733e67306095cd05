package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	exec(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the studyhub CLI.
//
// It reads a line from reader, splits it into words and hands them to
// a.exec, which parses them as a command line. Errors are printed and the
// loop continues. The loop exits on EOF, on context cancellation, or when
// the user types "exit" or "quit".
//
// Type "help" at the prompt for the command list.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("studyhub %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			printlnFn()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if err := a.exec(ctx, parts); err != nil {
			printlnFn(errorText(err, a.isLoggedIn()))
		}
		if ctx.Err() != nil {
			return
		}
	}
}
