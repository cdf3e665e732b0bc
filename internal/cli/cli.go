// Package cli is the interactive storefront front end: a small REPL over
// the state stores. One command per line; state mutations go through the
// stores so the CLI observes exactly what any other front end would.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/velora-shop/storefront-go/internal/cart"
	"github.com/velora-shop/storefront-go/internal/catalog"
	"github.com/velora-shop/storefront-go/internal/checkout"
	"github.com/velora-shop/storefront-go/internal/session"
	"github.com/velora-shop/storefront-go/pkg/availability"
)

// Deps are the stores the CLI operates on.
type Deps struct {
	Sessions *session.Store
	Carts    *cart.Store
	Catalog  *catalog.Store
	Orders   *checkout.Workflow
	Prober   *availability.Prober

	// In and Out default to stdin/stdout; tests replace them.
	In  io.Reader
	Out io.Writer
}

// App is the REPL.
type App struct {
	deps Deps
	in   *bufio.Scanner
	out  io.Writer
}

// New creates the REPL over the given stores.
func New(deps Deps) *App {
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	return &App{
		deps: deps,
		in:   bufio.NewScanner(deps.In),
		out:  deps.Out,
	}
}

// Run reads and dispatches commands until EOF, "exit", or context
// cancellation.
func (a *App) Run(ctx context.Context) error {
	a.printf("Velora storefront. Type 'help' for commands.\n")

	for {
		a.printf("%s> ", a.prompt())
		if !a.in.Scan() {
			return a.in.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := strings.TrimSpace(a.in.Text())
		if line == "" {
			continue
		}
		cmd, args := splitCommand(line)
		if cmd == "exit" || cmd == "quit" {
			return nil
		}

		if err := a.dispatch(ctx, cmd, args); err != nil {
			a.printf("error: %s\n", err)
		}
	}
}

func (a *App) prompt() string {
	parts := []string{"velora"}
	if st := a.deps.Sessions.Current(); st.SignedIn() {
		parts = append(parts, st.User.Email)
	}
	if a.deps.Prober != nil && !a.deps.Prober.Online() {
		parts = append(parts, "offline")
	}
	if n := a.deps.Carts.Count(); n > 0 {
		parts = append(parts, fmt.Sprintf("cart:%d", n))
	}
	return strings.Join(parts, " ")
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		a.printHelp()
		return nil
	case "login":
		return a.login(ctx)
	case "register":
		return a.register(ctx)
	case "logout":
		a.deps.Sessions.Logout(ctx)
		a.printf("signed out\n")
		return nil
	case "whoami":
		return a.whoami()
	case "products":
		return a.products(ctx, args)
	case "product":
		return a.product(ctx, args)
	case "featured":
		return a.featured(ctx)
	case "category":
		return a.category(ctx, args)
	case "cart":
		return a.showCart()
	case "add":
		return a.addToCart(ctx, args)
	case "remove":
		return a.removeFromCart(args)
	case "qty":
		return a.setQuantity(args)
	case "clear":
		return a.deps.Carts.Clear()
	case "checkout":
		return a.checkout(ctx)
	case "orders":
		return a.orders(ctx)
	case "cancel":
		return a.cancelOrder(ctx, args)
	case "status":
		return a.changeStatus(ctx, args)
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
}

func (a *App) printHelp() {
	a.printf(`Commands:
  products [page]       browse the catalogue
  product <id>          show one product
  featured              show featured products
  category <name>       browse a category
  add <id> [qty]        add a product to the cart
  remove <id>           remove a cart line
  qty <id> <n>          change a line quantity (0 removes)
  cart                  show the cart
  clear                 empty the cart
  checkout              place the order and pay
  orders                list your orders
  cancel <id>           cancel an order
  status <id> <status>  change an order status (admin)
  login, register, logout, whoami
  exit
`)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// splitCommand splits a line into the command word and its arguments.
func splitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	return strings.ToLower(fields[0]), fields[1:]
}
