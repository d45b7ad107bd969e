package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cartsync/internal/client/coordinator"
	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/client/services"
	"github.com/dmitrijs2005/cartsync/internal/common"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}

// ShowCart prints the mirrored cart.
func (a *App) ShowCart(context.Context) error {
	renderCart(a.out, a.coord.Snapshot())
	return nil
}

// Add puts a product into the cart: add <productId> [qty].
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("add <productId> [qty]")
	}
	productID, ok := parseID(args[0])
	if !ok {
		return usage("add <productId> [qty]")
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return usage("add <productId> [qty]")
		}
		qty = n
	}

	if _, err := a.coord.AddToCart(ctx, models.Product{ID: productID}, qty); err != nil {
		return err
	}
	renderCart(a.out, a.coord.Snapshot())
	return nil
}

// Remove deletes a cart line: remove <itemId>.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("remove <itemId>")
	}
	itemID, ok := parseID(args[0])
	if !ok {
		return usage("remove <itemId>")
	}
	a.coord.RemoveFromCart(ctx, itemID)
	renderCart(a.out, a.coord.Snapshot())
	return nil
}

// Qty changes a line's quantity: qty <itemId> <n>. Zero removes the line.
func (a *App) Qty(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("qty <itemId> <n>")
	}
	itemID, ok := parseID(args[0])
	n, err := strconv.Atoi(args[1])
	if !ok || err != nil || n < 0 {
		return usage("qty <itemId> <n>")
	}
	if _, err := a.coord.UpdateQuantity(ctx, itemID, n); err != nil {
		return err
	}
	renderCart(a.out, a.coord.Snapshot())
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if _, err := a.coord.Refresh(ctx); err != nil {
		return err
	}
	renderCart(a.out, a.coord.Snapshot())
	return nil
}

func (a *App) Checkout(ctx context.Context) error {
	before := a.coord.Snapshot().Cart
	if _, err := a.coord.Checkout(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Purchased %d line(s), total %.2f\n", before.Len(), before.Total())
	return nil
}

// Status prints who is logged in, the sync state and the cart.
func (a *App) Status(context.Context) error {
	s := a.coord.Snapshot()
	if s.User == nil {
		fmt.Fprintln(a.out, "Not logged in")
	} else {
		fmt.Fprintf(a.out, "User: %s <%s> (id %d)\n", s.User.Username, s.User.Email, s.User.ID)
	}
	renderCart(a.out, s)
	return nil
}

func renderCart(w io.Writer, s coordinator.Snapshot) {
	if s.State.Status == models.SyncError {
		fmt.Fprintf(w, "Sync: %s\n", s.State)
	}
	if s.Cart.IsEmpty() {
		fmt.Fprintln(w, "Cart is empty")
		return
	}
	for _, it := range s.Cart.Items {
		name := it.Product.Name
		if name == "" {
			name = fmt.Sprintf("product %d", it.Product.ID)
		}
		fmt.Fprintf(w, "  #%-6d %-30s x%-3d %8.2f\n", it.ID, name, it.Quantity, it.Product.Price*float64(it.Quantity))
	}
	fmt.Fprintf(w, "  Total: %.2f\n", s.Cart.Total())
}

// describe turns an error into the text shown at the prompt.
func describe(err error) string {
	var ae *services.AuthError
	switch {
	case errors.As(err, &ae):
		if len(ae.Fields) == 0 {
			return ae.Message
		}
		keys := make([]string, 0, len(ae.Fields))
		for k := range ae.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(ae.Message)
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %s", k, ae.Fields[k])
		}
		return b.String()
	case errors.Is(err, common.ErrNotAuthenticated):
		return err.Error() + " (type 'login')"
	case errors.Is(err, common.ErrEmptyCart):
		return "nothing to check out, the cart is empty"
	default:
		return err.Error()
	}
}
