package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/cartsync/internal/client/coordinator"
	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/common"
)

// fakeCoord implements cartCoordinator with canned results.
type fakeCoord struct {
	user  *models.User
	cart  models.Cart
	state models.SyncState

	loginRet  models.User
	loginErr  error
	signupRet models.SignupResult
	signupErr error
	addErr    error
	qtyErr    error
	buyErr    error

	lastCreds models.Credentials
	lastReg   models.Registration
	lastAdd   models.Product
	lastQty   int
	lastItem  int64
	calls     []string
}

func (f *fakeCoord) Login(_ context.Context, creds models.Credentials) (models.User, error) {
	f.calls = append(f.calls, "login")
	f.lastCreds = creds
	if f.loginErr != nil {
		return models.User{}, f.loginErr
	}
	u := f.loginRet
	f.user = &u
	return u, nil
}

func (f *fakeCoord) Logout(context.Context) {
	f.calls = append(f.calls, "logout")
	f.user = nil
	f.cart = models.Cart{}
}

func (f *fakeCoord) Signup(_ context.Context, reg models.Registration) (models.SignupResult, error) {
	f.calls = append(f.calls, "signup")
	f.lastReg = reg
	return f.signupRet, f.signupErr
}

func (f *fakeCoord) AddToCart(_ context.Context, p models.Product, qty int) (models.Cart, error) {
	f.calls = append(f.calls, "add")
	if f.user == nil {
		return f.cart, common.ErrNotAuthenticated
	}
	f.lastAdd, f.lastQty = p, qty
	return f.cart, f.addErr
}

func (f *fakeCoord) RemoveFromCart(_ context.Context, itemID int64) models.Cart {
	f.calls = append(f.calls, "remove")
	f.lastItem = itemID
	return f.cart
}

func (f *fakeCoord) UpdateQuantity(_ context.Context, itemID int64, qty int) (models.Cart, error) {
	f.calls = append(f.calls, "qty")
	f.lastItem, f.lastQty = itemID, qty
	return f.cart, f.qtyErr
}

func (f *fakeCoord) Checkout(context.Context) (models.Cart, error) {
	f.calls = append(f.calls, "checkout")
	if f.buyErr != nil {
		return f.cart, f.buyErr
	}
	f.cart = models.Cart{}
	return f.cart, nil
}

func (f *fakeCoord) Refresh(context.Context) (models.Cart, error) {
	f.calls = append(f.calls, "refresh")
	if f.user == nil {
		return models.Cart{}, common.ErrNotAuthenticated
	}
	return f.cart, nil
}

func (f *fakeCoord) Snapshot() coordinator.Snapshot {
	return coordinator.Snapshot{User: f.user, Cart: f.cart, State: f.state}
}

func newTestApp(f *fakeCoord, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return newApp(f, strings.NewReader(input), &out), &out
}

func stubInputs(t *testing.T, texts []string, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(texts) {
			return "", io.EOF
		}
		i++
		return texts[i-1], nil
	}
	getPassword = func(_ *bufio.Reader, _ io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

var sampleCart = models.Cart{Items: []models.CartItem{
	{ID: 7, Product: models.Product{ID: 3, Name: "Green tea", Price: 2.5}, Quantity: 2},
}}
