// Package cli provides the interactive CartSync command-line client.
//
// It wires configuration, the durable session store, the shop API client
// and the session/cart coordinator, then runs a small REPL on top of them.
//
// Key features:
//   - Register / Login / Logout
//   - Show the cart, add and remove lines, change quantities
//   - Refresh from the server and check out
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See NewApp and runREPL for details.
package cli
