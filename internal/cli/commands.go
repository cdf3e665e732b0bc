package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/velora-shop/storefront-go/internal/api"
	"github.com/velora-shop/storefront-go/internal/domain/order"
	"github.com/velora-shop/storefront-go/internal/domain/product"
)

func (a *App) login(ctx context.Context) error {
	email, err := a.readLine("email: ")
	if err != nil {
		return err
	}
	password, err := a.readPassword("password: ")
	if err != nil {
		return err
	}

	if err := a.deps.Sessions.Login(ctx, api.Credentials{Email: email, Password: password}); err != nil {
		// The store keeps the user-facing message; show that one.
		return fmt.Errorf("%s", a.deps.Sessions.Current().Err)
	}
	a.printf("signed in as %s\n", a.deps.Sessions.Current().User.Email)
	return nil
}

func (a *App) register(ctx context.Context) error {
	name, err := a.readLine("name: ")
	if err != nil {
		return err
	}
	email, err := a.readLine("email: ")
	if err != nil {
		return err
	}
	password, err := a.readPassword("password: ")
	if err != nil {
		return err
	}
	confirm, err := a.readPassword("confirm password: ")
	if err != nil {
		return err
	}

	reg := api.Registration{Name: name, Email: email, Password: password}
	if err := a.deps.Sessions.Register(ctx, reg, confirm); err != nil {
		return fmt.Errorf("%s", a.deps.Sessions.Current().Err)
	}
	a.printf("account created, signed in as %s\n", email)
	return nil
}

func (a *App) whoami() error {
	st := a.deps.Sessions.Current()
	if !st.SignedIn() {
		a.printf("not signed in\n")
		return nil
	}
	a.printf("%s <%s> (%s)\n", st.User.Name, st.User.Email, st.User.Role)
	if exp, ok := a.deps.Sessions.TokenExpiry(); ok {
		a.printf("access token expires %s\n", exp.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (a *App) products(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("bad page %q", args[0])
		}
		page = n
	}
	if err := a.deps.Catalog.FetchPage(ctx, page, api.ProductQuery{}); err != nil {
		return err
	}
	return a.printListing()
}

func (a *App) category(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: category <name>")
	}
	if err := a.deps.Catalog.FetchByCategory(ctx, product.Category(args[0])); err != nil {
		return err
	}
	return a.printListing()
}

func (a *App) printListing() error {
	st := a.deps.Catalog.Current()
	for _, p := range st.Items {
		a.printProductLine(p)
	}
	if st.Meta != nil {
		a.printf("page %d/%d (%d products)\n", st.Meta.Page, st.Meta.TotalPages, st.Meta.Total)
	}
	return nil
}

func (a *App) featured(ctx context.Context) error {
	if err := a.deps.Catalog.FetchFeatured(ctx); err != nil {
		return err
	}
	for _, p := range a.deps.Catalog.Current().Featured {
		a.printProductLine(p)
	}
	return nil
}

func (a *App) product(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: product <id>")
	}
	if err := a.deps.Catalog.FetchByID(ctx, args[0]); err != nil {
		return err
	}
	p := a.deps.Catalog.Current().Current
	a.printf("%s\n  %s / %s\n  price %s", p.Name, p.Category, p.Slug, p.Price.StringFixed(2))
	if p.Discount > 0 {
		a.printf(" (was %s, -%d%%)", p.OldPrice.StringFixed(2), p.Discount)
	}
	a.printf("\n  stock %d\n", p.Stock)
	return nil
}

func (a *App) printProductLine(p product.Product) {
	stock := ""
	if !p.InStock() {
		stock = "  [out of stock]"
	}
	a.printf("%-26s %-12s %8s  %s%s\n", p.ID, p.Category, p.Price.StringFixed(2), p.Name, stock)
}

func (a *App) showCart() error {
	items := a.deps.Carts.Items()
	if len(items) == 0 {
		a.printf("cart is empty\n")
		return nil
	}
	for _, e := range items {
		a.printf("%-26s x%-3d %8s  %s\n", e.Product.ID, e.Quantity, e.Subtotal().StringFixed(2), e.Product.Name)
	}
	a.printf("subtotal %s (%d items)\n", a.deps.Carts.Subtotal().StringFixed(2), a.deps.Carts.Count())
	return nil
}

func (a *App) addToCart(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: add <id> [qty]")
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("bad quantity %q", args[1])
		}
		qty = n
	}

	if err := a.deps.Catalog.FetchByID(ctx, args[0]); err != nil {
		return err
	}
	p := *a.deps.Catalog.Current().Current
	if !p.InStock() {
		return fmt.Errorf("%s is out of stock", p.Name)
	}
	if err := a.deps.Carts.AddItem(p, qty); err != nil {
		return err
	}
	return a.showCart()
}

func (a *App) removeFromCart(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: remove <id>")
	}
	return a.deps.Carts.RemoveItem(args[0])
}

func (a *App) setQuantity(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: qty <id> <n>")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad quantity %q", args[1])
	}
	return a.deps.Carts.UpdateItem(args[0], n)
}

func (a *App) checkout(ctx context.Context) error {
	if !a.deps.Sessions.Current().SignedIn() {
		return fmt.Errorf("sign in before checking out")
	}
	items := a.deps.Carts.Items()
	if len(items) == 0 {
		return fmt.Errorf("cart is empty")
	}

	shipping, err := a.readShipping()
	if err != nil {
		return err
	}

	placed, err := a.deps.Orders.PlaceOrder(ctx, items, shipping)
	if err != nil {
		return err
	}
	a.printf("order %s placed, total %s\n", placed.Number, placed.Total.StringFixed(2))

	if err := a.deps.Orders.ConfirmPayment(ctx); err != nil {
		a.printf("payment pending: %s\n", err)
		return nil
	}
	a.printf("payment confirmed\n")
	return a.deps.Carts.Clear()
}

func (a *App) readShipping() (order.ShippingAddress, error) {
	var s order.ShippingAddress
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"full name: ", &s.FullName},
		{"address: ", &s.Line1},
		{"city: ", &s.City},
		{"postal code: ", &s.PostalCode},
		{"country: ", &s.Country},
		{"phone: ", &s.Phone},
	}
	for _, f := range fields {
		v, err := a.readLine(f.prompt)
		if err != nil {
			return s, err
		}
		*f.dst = v
	}
	return s, nil
}

func (a *App) orders(ctx context.Context) error {
	list, err := a.deps.Orders.FetchOrders(ctx, 1)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.printf("no orders\n")
		return nil
	}
	for _, o := range list {
		a.printf("%-26s %-10s %8s  %s\n", o.ID, o.Status, o.Total.StringFixed(2), o.CreatedAt.Format("2006-01-02"))
	}
	if m := a.deps.Orders.Meta(); m != nil && m.TotalPages > 1 {
		a.printf("page %d/%d (%d orders)\n", m.Page, m.TotalPages, m.Total)
	}
	return nil
}

func (a *App) cancelOrder(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: cancel <id>")
	}
	if err := a.deps.Orders.CancelOrder(ctx, args[0]); err != nil {
		return err
	}
	a.printf("order cancelled\n")
	return nil
}

func (a *App) changeStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: status <id> <status>")
	}
	st := a.deps.Sessions.Current()
	if !st.SignedIn() || !st.User.IsAdmin() {
		return fmt.Errorf("admin only")
	}
	if err := a.deps.Orders.ChangeStatus(ctx, args[0], order.Status(args[1])); err != nil {
		return err
	}
	a.printf("order updated\n")
	return nil
}
