package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printFn and printlnFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printFn   = fmt.Print
	printlnFn = fmt.Println
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ShowCart(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Qty(ctx context.Context, args []string) error
	Refresh(ctx context.Context) error
	Checkout(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the CartSync CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	help                   show available commands
//	register               create an account
//	login                  authenticate
//	logout                 drop the session and cart
//	cart | l               show the cart
//	add <productId> [qty]  add a product
//	remove <itemId>        remove a cart line
//	qty <itemId> <n>       change a line's quantity
//	refresh                reload the cart from the server
//	checkout               purchase the cart
//	status                 show user, sync state and cart
//	exit | quit            leave the program
//
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("cart %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: cart (l), add, remove, qty, refresh, checkout, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, cart (l), status, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "l", "cart":
			err = a.ShowCart(ctx)

		case "add":
			err = a.Add(ctx, args)

		case "remove":
			err = a.Remove(ctx, args)

		case "qty":
			err = a.Qty(ctx, args)

		case "refresh":
			err = a.Refresh(ctx)

		case "checkout":
			err = a.Checkout(ctx)

		case "status":
			err = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", describe(err))
		}
		if readErr != nil {
			return
		}
	}
}
