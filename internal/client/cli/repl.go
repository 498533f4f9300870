package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	Refresh(ctx context.Context) error
	Me(ctx context.Context) error
	Rename(ctx context.Context) error
	Logout(ctx context.Context) error
	Secrets(ctx context.Context) error
}

// runREPL reads commands until EOF or "exit"/"quit". Command errors are
// printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("authgate%s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		var err error
		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, rename, refresh, logout, secrets, exit")
			} else {
				printlnFn("Available commands: signup, signin, refresh, logout, secrets, exit")
			}
		case "signup", "register":
			err = a.SignUp(ctx)
		case "signin", "login":
			err = a.SignIn(ctx)
		case "refresh":
			err = a.Refresh(ctx)
		case "me":
			err = a.Me(ctx)
		case "rename":
			err = a.Rename(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "secrets":
			err = a.Secrets(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
