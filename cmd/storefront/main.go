package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/harvestgreens/storefront/config"
	"github.com/harvestgreens/storefront/internal/app/model"
	"github.com/harvestgreens/storefront/internal/app/service"
	"github.com/harvestgreens/storefront/internal/app/store"
	apperrors "github.com/harvestgreens/storefront/internal/errors"
	"github.com/harvestgreens/storefront/internal/localstore"
	"github.com/harvestgreens/storefront/pkg/logger"
	"github.com/harvestgreens/storefront/internal/storeapi"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// app bundles the wired stores and services for command handlers.
type app struct {
	cfg      *config.Config
	local    localstore.Store
	cart     *store.CartStore
	wishlist *store.WishlistStore
	session  *store.SessionStore
	catalog  service.CatalogService
	checkout service.CheckoutService
	orders   service.OrderService
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		EnableColor: true,
	})

	local, err := localstore.Open(cfg.State.Dir)
	if err != nil {
		logger.Fatal("Failed to open local store", err)
	}
	defer local.Close()

	client, err := storeapi.NewClient(storeapi.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create API client", err)
	}

	var demo *store.DemoRegistry
	if cfg.DemoMode {
		logger.Warn("Demo mode enabled: authentication is local-only")
		demo = store.NewDemoRegistry(local)
	}

	a := &app{
		cfg:      cfg,
		local:    local,
		cart:     store.NewCartStore(local),
		wishlist: store.NewWishlistStore(local),
		session:  store.NewSessionStore(client, local, demo),
	}
	a.catalog = service.NewCatalogService(client)
	a.checkout = service.NewCheckoutService(a.cart, a.session, client)
	a.orders = service.NewOrderService(a.session, client)

	cliApp := &cli.App{
		Name:  "storefront",
		Usage: "fresh produce storefront client",
		Commands: []*cli.Command{
			a.productsCommand(),
			a.categoriesCommand(),
			a.cartCommand(),
			a.wishlistCommand(),
			a.loginCommand(),
			a.registerCommand(),
			a.logoutCommand(),
			a.whoamiCommand(),
			a.checkoutCommand(),
			a.ordersCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// fail turns any internal error into the user-facing message for that code.
func fail(err error) error {
	info := apperrors.ParseError(err)
	if len(info.Fields) > 0 {
		lines := make([]string, 0, len(info.Fields)+1)
		lines = append(lines, info.Message)
		for field, msg := range info.Fields {
			lines = append(lines, fmt.Sprintf("  %s: %s", field, msg))
		}
		return cli.Exit(strings.Join(lines, "\n"), 1)
	}
	return cli.Exit(info.Message, 1)
}

// requireLogin is the route guard: it restores the session and refuses the
// command when no one is signed in.
func (a *app) requireLogin(c *cli.Context) error {
	if err := a.session.RestoreSession(c.Context); err != nil {
		return fail(err)
	}
	if !a.session.IsLoggedIn() {
		return cli.Exit("Please sign in first: storefront login", 1)
	}
	return nil
}

func (a *app) productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "browse the catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list products",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "category, or organic/seasonal"},
					&cli.Float64Flag{Name: "min-price"},
					&cli.Float64Flag{Name: "max-price"},
				},
				Action: func(c *cli.Context) error {
					products, err := a.catalog.ListProducts(c.Context, service.ProductFilters{
						Category: c.String("category"),
						MinPrice: c.Float64("min-price"),
						MaxPrice: c.Float64("max-price"),
					})
					if err != nil {
						return fail(err)
					}
					for _, p := range products {
						printProduct(p)
					}
					if len(products) == 0 {
						fmt.Println("No products match.")
					}
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "show one product with its variants",
				ArgsUsage: "<product-id>",
				Action: func(c *cli.Context) error {
					id, err := parseID(c.Args().First())
					if err != nil {
						return cli.Exit("Usage: storefront products show <product-id>", 1)
					}
					p, err := a.catalog.GetProduct(c.Context, id)
					if err != nil {
						return fail(err)
					}
					printProduct(*p)
					for _, v := range p.Variants {
						fmt.Printf("    variant %d: %g %s\n", v.ID, v.Weight, v.Unit)
					}
					return nil
				},
			},
		},
	}
}

func (a *app) categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "list categories",
		Action: func(c *cli.Context) error {
			categories, err := a.catalog.ListCategories(c.Context)
			if err != nil {
				return fail(err)
			}
			for _, cat := range categories {
				fmt.Printf("%-3d %s\n", cat.ID, cat.Name)
			}
			return nil
		},
	}
}

func (a *app) cartCommand() *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "manage the cart",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "add a product variant",
				ArgsUsage: "<product-id> <variant-id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "quantity", Aliases: []string{"q"}, Value: 1},
				},
				Action: func(c *cli.Context) error {
					productID, err := parseID(c.Args().Get(0))
					if err != nil {
						return cli.Exit("Usage: storefront cart add <product-id> <variant-id>", 1)
					}
					variantID, err := parseID(c.Args().Get(1))
					if err != nil {
						return cli.Exit("Usage: storefront cart add <product-id> <variant-id>", 1)
					}

					product, err := a.catalog.GetProduct(c.Context, productID)
					if err != nil {
						return fail(err)
					}
					variant, ok := product.FindVariant(variantID)
					if !ok {
						return cli.Exit(fmt.Sprintf("Product %d has no variant %d", productID, variantID), 1)
					}

					if err := a.cart.AddItem(*product, variant, c.Int("quantity")); err != nil {
						return fail(err)
					}
					fmt.Printf("Added %s (%g %s) x%d\n", product.Name, variant.Weight, variant.Unit, c.Int("quantity"))
					return nil
				},
			},
			{
				Name:      "remove",
				ArgsUsage: "<product-id> <variant-id>",
				Action: func(c *cli.Context) error {
					productID, err := parseID(c.Args().Get(0))
					if err != nil {
						return cli.Exit("Usage: storefront cart remove <product-id> <variant-id>", 1)
					}
					variantID, err := parseID(c.Args().Get(1))
					if err != nil {
						return cli.Exit("Usage: storefront cart remove <product-id> <variant-id>", 1)
					}
					if err := a.cart.RemoveItem(productID, variantID); err != nil {
						return fail(err)
					}
					fmt.Println("Removed.")
					return nil
				},
			},
			{
				Name:      "update",
				Usage:     "set a line's quantity",
				ArgsUsage: "<product-id> <variant-id> <quantity>",
				Action: func(c *cli.Context) error {
					productID, err1 := parseID(c.Args().Get(0))
					variantID, err2 := parseID(c.Args().Get(1))
					quantity, err3 := parseID(c.Args().Get(2))
					if err1 != nil || err2 != nil || err3 != nil {
						return cli.Exit("Usage: storefront cart update <product-id> <variant-id> <quantity>", 1)
					}
					if err := a.cart.UpdateQuantity(productID, variantID, int(quantity)); err != nil {
						return fail(err)
					}
					fmt.Println("Updated.")
					return nil
				},
			},
			{
				Name: "show",
				Action: func(c *cli.Context) error {
					cart := a.cart.Snapshot()
					if cart.IsEmpty() {
						fmt.Println("Your cart is empty.")
						return nil
					}
					for _, line := range cart.Items {
						fmt.Printf("%-25s %g %s x%d\n", line.Product.Name, line.Variant.Weight, line.Variant.Unit, line.Quantity)
					}
					fmt.Printf("Total items: %d, total weight: %g\n", cart.TotalItems, cart.TotalWeight())
					return nil
				},
			},
			{
				Name: "clear",
				Action: func(c *cli.Context) error {
					if err := a.cart.Clear(); err != nil {
						return fail(err)
					}
					fmt.Println("Cart cleared.")
					return nil
				},
			},
		},
	}
}

func (a *app) wishlistCommand() *cli.Command {
	return &cli.Command{
		Name:  "wishlist",
		Usage: "save products for later",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				ArgsUsage: "<product-id>",
				Action: func(c *cli.Context) error {
					id, err := parseID(c.Args().First())
					if err != nil {
						return cli.Exit("Usage: storefront wishlist add <product-id>", 1)
					}
					product, err := a.catalog.GetProduct(c.Context, id)
					if err != nil {
						return fail(err)
					}
					if err := a.wishlist.Add(*product); err != nil {
						return fail(err)
					}
					fmt.Printf("Saved %s\n", product.Name)
					return nil
				},
			},
			{
				Name:      "remove",
				ArgsUsage: "<product-id>",
				Action: func(c *cli.Context) error {
					id, err := parseID(c.Args().First())
					if err != nil {
						return cli.Exit("Usage: storefront wishlist remove <product-id>", 1)
					}
					if err := a.wishlist.Remove(id); err != nil {
						return fail(err)
					}
					fmt.Println("Removed.")
					return nil
				},
			},
			{
				Name: "show",
				Action: func(c *cli.Context) error {
					items := a.wishlist.Items()
					if len(items) == 0 {
						fmt.Println("Your wishlist is empty.")
						return nil
					}
					for _, p := range items {
						printProduct(p)
					}
					return nil
				},
			},
			{
				Name: "clear",
				Action: func(c *cli.Context) error {
					if err := a.wishlist.Clear(); err != nil {
						return fail(err)
					}
					fmt.Println("Wishlist cleared.")
					return nil
				},
			},
		},
	}
}

func (a *app) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}},
			&cli.BoolFlag{Name: "remember", Usage: "remember this email"},
		},
		Action: func(c *cli.Context) error {
			email := c.String("email")
			if email == "" {
				email = a.session.RememberedEmail()
			}
			if email == "" {
				return cli.Exit("Usage: storefront login --email <email>", 1)
			}

			fmt.Print("Password: ")
			password, err := readPassword()
			if err != nil {
				return cli.Exit("Could not read password", 1)
			}

			if err := a.session.Login(c.Context, email, password, c.Bool("remember")); err != nil {
				return fail(err)
			}
			fmt.Printf("Signed in as %s\n", a.session.CurrentUser().Email)
			return nil
		},
	}
}

func (a *app) registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "mobile"},
			&cli.StringFlag{Name: "address"},
		},
		Action: func(c *cli.Context) error {
			fmt.Print("Password: ")
			password, err := readPassword()
			if err != nil {
				return cli.Exit("Could not read password", 1)
			}
			fmt.Print("Confirm password: ")
			confirmation, err := readPassword()
			if err != nil {
				return cli.Exit("Could not read password", 1)
			}

			err = a.session.Register(c.Context, store.RegisterDetails{
				Name:                 c.String("name"),
				Email:                c.String("email"),
				Mobile:               c.String("mobile"),
				Address:              c.String("address"),
				Password:             password,
				PasswordConfirmation: confirmation,
			})
			if err != nil {
				return fail(err)
			}
			fmt.Printf("Welcome, %s!\n", a.session.CurrentUser().Name)
			return nil
		},
	}
}

func (a *app) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "sign out and forget the session",
		Action: func(c *cli.Context) error {
			if err := a.session.Logout(); err != nil {
				return fail(err)
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func (a *app) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "show the signed-in profile",
		Before: a.requireLogin,
		Action: func(c *cli.Context) error {
			u := a.session.CurrentUser()
			fmt.Printf("%s <%s>\n", u.Name, u.Email)
			if u.Address != "" {
				fmt.Println(u.Address)
			}
			return nil
		},
	}
}

func (a *app) checkoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "checkout",
		Usage:  "place an order for the current cart",
		Before: a.requireLogin,
		Action: func(c *cli.Context) error {
			order, err := a.checkout.PlaceOrder(c.Context)
			if err != nil {
				return fail(err)
			}
			fmt.Printf("Order #%d placed (%s).\n", order.ID, order.Status)
			return nil
		},
	}
}

func (a *app) ordersCommand() *cli.Command {
	return &cli.Command{
		Name:   "orders",
		Usage:  "order history",
		Before: a.requireLogin,
		Subcommands: []*cli.Command{
			{
				Name: "list",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1},
				},
				Action: func(c *cli.Context) error {
					page, err := a.orders.History(c.Context, c.Int("page"))
					if err != nil {
						return fail(err)
					}
					if page.TotalCount == 0 {
						fmt.Println("No orders yet.")
						return nil
					}
					for _, o := range page.Orders {
						printOrder(o)
					}
					fmt.Printf("Page %d of %d (%d orders)\n", page.Page, page.TotalPages, page.TotalCount)
					return nil
				},
			},
			{
				Name:  "export",
				Usage: "export order history to a spreadsheet",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: "orders.xlsx"},
				},
				Action: func(c *cli.Context) error {
					path := c.String("out")
					if err := a.orders.ExportXLSX(c.Context, path); err != nil {
						return fail(err)
					}
					fmt.Printf("Exported to %s\n", path)
					return nil
				},
			},
		},
	}
}

func printProduct(p model.Product) {
	tags := []string{}
	if p.Organic {
		tags = append(tags, "organic")
	}
	if p.Seasonal {
		tags = append(tags, "seasonal")
	}
	label := ""
	if len(tags) > 0 {
		label = " [" + strings.Join(tags, ", ") + "]"
	}
	if p.DiscountPrice != nil {
		fmt.Printf("%-3d %-25s $%.2f (was $%.2f)%s\n", p.ID, p.Name, *p.DiscountPrice, p.Price, label)
		return
	}
	fmt.Printf("%-3d %-25s $%.2f%s\n", p.ID, p.Name, p.Price, label)
}

func printOrder(o model.Order) {
	items := 0
	for _, line := range o.OrderProducts {
		items += line.Quantity
	}
	fmt.Printf("#%-5d %-12s %3d items  %8.2f kg  %s\n",
		o.ID, o.Status, items, o.TotalWeight, o.CreatedAt.Format("2006-01-02 15:04"))
}

func parseID(s string) (uint, error) {
	var id uint
	_, err := fmt.Sscanf(s, "%d", &id)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func readPassword() (string, error) {
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(data), nil
}
