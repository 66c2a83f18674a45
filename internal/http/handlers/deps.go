package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"productcatalog/internal/config"
	applog "productcatalog/internal/log"
	"productcatalog/internal/repos"
	"productcatalog/internal/services"
)

// Store is a product store that can report its own health.
type Store interface {
	services.ProductStore
	Ping(ctx context.Context) error
}

type Deps struct {
	ProductHandler *ProductHandler
	HealthHandler  *HealthHandler

	db *sqlx.DB
}

// NewDeps opens the store named by cfg and wires the handlers on top of it.
func NewDeps(cfg config.Config) (*Deps, error) {
	if cfg.Store == config.StoreMemory {
		return NewDepsWithStore(repos.NewMemoryStore()), nil
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if cfg.SeedDemo {
		if err := repos.SeedDemo(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	d := NewDepsWithStore(repos.NewProductRepo(db))
	d.db = db
	return d, nil
}

func NewDepsWithStore(st Store) *Deps {
	catalogSvc := services.NewCatalogService(st, nil)
	return &Deps{
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		HealthHandler:  &HealthHandler{Store: st},
	}
}

func (d *Deps) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

type HealthHandler struct {
	Store Store
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		applog.Error(c, "health.fail", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
	}
	return c.JSON(fiber.Map{"ok": true})
}
