package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/cartsync/internal/client/coordinator"
	"github.com/dmitrijs2005/cartsync/internal/client/models"
)

// cartCoordinator is the surface of coordinator.Coordinator the CLI uses.
type cartCoordinator interface {
	Login(ctx context.Context, creds models.Credentials) (models.User, error)
	Logout(ctx context.Context)
	Signup(ctx context.Context, reg models.Registration) (models.SignupResult, error)
	AddToCart(ctx context.Context, product models.Product, quantity int) (models.Cart, error)
	RemoveFromCart(ctx context.Context, itemID int64) models.Cart
	UpdateQuantity(ctx context.Context, itemID int64, quantity int) (models.Cart, error)
	Checkout(ctx context.Context) (models.Cart, error)
	Refresh(ctx context.Context) (models.Cart, error)
	Snapshot() coordinator.Snapshot
}

type App struct {
	coord   cartCoordinator
	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

func newApp(coord cartCoordinator, in io.Reader, out io.Writer) *App {
	return &App{coord: coord, reader: bufio.NewReader(in), out: out}
}

// Run starts the REPL and blocks until the user leaves or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to CartSync CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases the store, the HTTP client and the metrics server, in
// reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.coord.Snapshot().LoggedIn()
}

func (a *App) getStatus() string {
	s := a.coord.Snapshot()
	if s.User == nil {
		return "(anonymous)"
	}
	return fmt.Sprintf("(%s %s)", s.User.Username, s.State)
}
