package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
	"github.com/CameronXie/cake-shop-explorer/cakeshop/catalog"
	"github.com/CameronXie/cake-shop-explorer/cakeshop/catalog/memstore"
	"github.com/CameronXie/cake-shop-explorer/cakeshop/ordercoordinator"
	"github.com/CameronXie/cake-shop-explorer/internal/admin"
	"github.com/CameronXie/cake-shop-explorer/internal/auditlog"
	"github.com/CameronXie/cake-shop-explorer/internal/config"
	"github.com/CameronXie/cake-shop-explorer/internal/dashboard"
	"github.com/CameronXie/cake-shop-explorer/internal/ledger"
	"github.com/CameronXie/cake-shop-explorer/internal/ledger/postgres"
	"github.com/CameronXie/cake-shop-explorer/internal/ledger/sqlite"
	"github.com/CameronXie/cake-shop-explorer/internal/stafftoken"
	"github.com/CameronXie/cake-shop-explorer/internal/version"
)

const (
	ConfigPathEnv      = "CAKESHOP_CONFIG"
	StaffPrivateKeyEnv = "STAFF_PRIVATE_KEY_BASE64"
	StaffPublicKeyEnv  = "STAFF_PUBLIC_KEY_BASE64"

	StaffKeyBits = 2048
)

type sampleOrder struct {
	customer    string
	kind        cake.Kind
	size        cake.Size
	decorations []cake.Decoration
}

var sampleOrders = []sampleOrder{
	{customer: "Alice Smith", kind: cake.Apple, size: cake.Large, decorations: []cake.Decoration{cake.Cream}},
	{customer: "Bob Johnson", kind: cake.Chocolate, size: cake.Medium, decorations: []cake.Decoration{cake.Cream, cake.ChocolateChips, cake.Skittles}},
	{customer: "Carol Williams", kind: cake.Cheese, size: cake.Small, decorations: []cake.Decoration{cake.ChocolateChips}},
	{customer: "David Brown", kind: cake.Apple, size: cake.Medium, decorations: []cake.Decoration{}},
	{customer: "Eva Davis", kind: cake.Chocolate, size: cake.Large, decorations: []cake.Decoration{cake.Skittles}},
}

var rushOrders = []sampleOrder{
	{customer: "Frank Miller", kind: cake.Cheese, size: cake.Large, decorations: []cake.Decoration{cake.Cream}},
	{customer: "Grace Lee", kind: cake.Apple, size: cake.Small, decorations: []cake.Decoration{cake.Skittles, cake.Skittles}},
	{customer: "Henry Wilson", kind: cake.Chocolate, size: cake.Small, decorations: []cake.Decoration{}},
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With(
		slog.String("version", version.Version),
	)

	if err := run(context.Background(), logger); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load(os.Getenv(ConfigPathEnv))
	if err != nil {
		return err
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	prices, err := cfg.PriceTable()
	if err != nil {
		return err
	}

	surcharges, err := cfg.SurchargeTable()
	if err != nil {
		return err
	}

	cat := memstore.New(memstore.WithPrices(prices))
	ordercoordinator.Init(cat, logger, ordercoordinator.WithSurcharges(surcharges))

	coordinator, err := ordercoordinator.Instance()
	if err != nil {
		return err
	}

	customerBoard := dashboard.NewCustomerBoard(os.Stdout)
	sinks := []ordercoordinator.Sink{
		customerBoard,
		dashboard.NewManagerBoard(os.Stdout, cat),
		auditlog.NewSink(logger, cfg.Audit.Level),
	}

	repo, closeLedger, err := openLedger(ctx, cfg.Ledger, logger)
	if err != nil {
		return err
	}
	defer closeLedger()

	if repo != nil {
		sinks = append(sinks, ledger.NewSink(repo, logger))
	}

	for _, s := range sinks {
		if err := coordinator.RegisterSink(s); err != nil {
			return err
		}
	}

	fmt.Println(banner("Cake Shop Ordering System Demo"))

	for i, o := range sampleOrders {
		fmt.Printf("\n>>> Order %d\n", i+1)
		if _, err := placeOrder(ctx, coordinator, o); err != nil {
			return err
		}
	}

	if err := runAdmin(ctx, cfg, cat, logger); err != nil {
		return err
	}

	fmt.Println("\n>>> Rush batch")
	g, gctx := errgroup.WithContext(ctx)
	for _, o := range rushOrders {
		g.Go(func() error {
			_, err := placeOrder(gctx, coordinator, o)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Println(summary(customerBoard.CompletedOrders(), cat))

	if repo != nil {
		entries, err := repo.List(ctx)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "ledger_summary", slog.Int("entries", len(entries)))
	}

	return nil
}

func placeOrder(ctx context.Context, coordinator ordercoordinator.Coordinator, o sampleOrder) (cake.Cake, error) {
	return coordinator.PlaceOrder(ctx, &ordercoordinator.OrderRequest{
		Kind:        o.kind,
		Size:        o.size,
		Decorations: o.decorations,
		Customer:    o.customer,
	})
}

// openLedger returns a nil repository when the ledger is disabled.
func openLedger(ctx context.Context, cfg config.LedgerConfig, logger *slog.Logger) (ledger.Repository, func(), error) {
	switch cfg.Driver {
	case config.LedgerSQLite:
		repo, err := sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}

		logger.InfoContext(ctx, "ledger_opened",
			slog.String("driver", sqlite.DriverName),
			slog.String("build_mode", sqlite.BuildMode),
		)
		return repo, func() { _ = repo.Close() }, nil
	case config.LedgerPostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		repo := postgres.NewRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		logger.InfoContext(ctx, "ledger_opened", slog.String("driver", config.LedgerPostgres))
		return repo, pool.Close, nil
	default:
		return nil, func() {}, nil
	}
}

// runAdmin exercises the guarded price operations with an owner and a manager token.
func runAdmin(ctx context.Context, cfg *config.Config, cat catalog.Catalog, logger *slog.Logger) error {
	privateKeys, publicKeys, err := staffKeys()
	if err != nil {
		return err
	}

	authorizer, err := newAuthorizer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	issuer := stafftoken.NewIssuer(privateKeys)
	service := admin.NewService(cat, stafftoken.NewVerifier(publicKeys), authorizer, logger)

	ownerToken, err := issuer.Issue("alice@cakeshop.example", []string{"owner"})
	if err != nil {
		return err
	}

	managerToken, err := issuer.Issue("bob@cakeshop.example", []string{"manager"})
	if err != nil {
		return err
	}

	fmt.Println("\n>>> Price administration")
	if err := service.SetPrice(ctx, managerToken, cake.Cheese, cake.Large, decimal.RequireFromString("16.00")); err != nil {
		return err
	}

	if err := service.ResetPrices(ctx, managerToken); err != nil {
		if !errors.Is(err, admin.ErrForbidden) {
			return err
		}
		fmt.Println("manager may not reset prices")
	}

	if err := service.ResetPrices(ctx, ownerToken); err != nil {
		return err
	}

	return service.SetPrice(ctx, ownerToken, cake.Cheese, cake.Large, decimal.RequireFromString("16.00"))
}

// staffKeys reads the RSA pair from the environment, or generates a throwaway pair when unset.
func staffKeys() (stafftoken.PrivateKeyFetcher, stafftoken.PublicKeyFetcher, error) {
	if os.Getenv(StaffPrivateKeyEnv) != "" && os.Getenv(StaffPublicKeyEnv) != "" {
		return stafftoken.FromBase64Env(StaffPrivateKeyEnv), stafftoken.FromBase64Env(StaffPublicKeyEnv), nil
	}

	key, err := rsa.GenerateKey(rand.Reader, StaffKeyBits)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate staff key: %w", err)
	}

	privBytes, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, err
	}

	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, err
	}

	return stafftoken.FromPEM(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privBytes})),
		stafftoken.FromPEM(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})),
		nil
}

func banner(title string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		Border(lipgloss.DoubleBorder()).
		Padding(0, 4).
		Render(title)
}

func summary(orders []cake.Cake, counter dashboard.KindCounter) string {
	revenue := decimal.Zero
	for _, c := range orders {
		revenue = revenue.Add(c.TotalPrice())
	}

	lines := []string{fmt.Sprintf("Total orders placed: %d", len(orders))}
	for _, kind := range cake.Kinds() {
		lines = append(lines, fmt.Sprintf("%s: %d", kind.DisplayName(), counter.CountForKind(kind)))
	}
	lines = append(lines, fmt.Sprintf("Revenue: $%s", revenue.StringFixed(2)))

	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("FINAL SUMMARY")
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}
