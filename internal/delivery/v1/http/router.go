package http

import (
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const adminRatePerMinute = 120

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// UseCases: зависимости обработчиков.
type UseCases struct {
	Catalog  usecase.CatalogUC
	Product  usecase.ProductUC
	Category usecase.CategoryUC
	Extra    usecase.ExtraUC
	Cart     usecase.CartUC
	Checkout usecase.CheckoutUC
}

func (r *Router) Init(uc UseCases, httpCfg *cfg.HTTPConfig, checkoutCfg *cfg.CheckoutCfg, adminCfg *cfg.AdminCfg) {
	r.router.Use(
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		secureHeaders(),
	)

	catalogHandler := NewCatalogHandler(uc.Catalog, r.logger)
	cartHandler := NewCartHandler(uc.Cart, uc.Checkout, r.logger)
	adminHandler := NewAdminHandler(uc.Catalog, uc.Product, uc.Category, uc.Extra, r.logger)
	liveHandler := NewLiveHandler(uc.Catalog, r.logger)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		// WebSocket живёт дольше любого таймаута запроса
		v1.Get("/catalog/live", liveHandler.serve)

		v1.Group(func(g chi.Router) {
			g.Use(middleware.Timeout(requestTimeout(httpCfg)))

			registerCatalogRoutes(g, catalogHandler)
			registerCartRoutes(g, cartHandler, checkoutCfg.RatePerMinute)
			g.Route("/admin", func(admin chi.Router) {
				admin.Use(adminAuth(adminCfg.Token, r.logger), rateLimit(adminRatePerMinute))
				registerAdminRoutes(admin, adminHandler)
			})
		})
	})
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler) {
	router.Route("/catalog", func(c chi.Router) {
		c.Get("/products", h.listProducts)
		c.Get("/products/{id}", h.getProduct)
		c.Get("/categories", h.listCategories)
		c.Get("/brands", h.listBrands)
	})
}

func registerCartRoutes(router chi.Router, h *CartHandler, checkoutPerMinute int) {
	router.Route("/cart", func(c chi.Router) {
		c.Post("/", h.createCart)
		c.Route("/{cartID}", func(cart chi.Router) {
			cart.Get("/", h.getCart)
			cart.Delete("/", h.clearCart)
			cart.Post("/items", h.addItem)
			cart.Patch("/items/{productID}", h.changeQuantity)
			cart.Delete("/items/{productID}", h.removeItem)
			cart.With(rateLimit(checkoutPerMinute)).Post("/checkout", h.checkout)
		})
	})
}

func registerAdminRoutes(router chi.Router, h *AdminHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Post("/", h.createProduct)
		pr.Get("/{id}", h.getProduct)
		pr.Put("/{id}", h.updateProduct)
		pr.Delete("/{id}", h.deleteProduct)
		pr.Patch("/{id}/active", h.setProductActive)
		pr.Put("/{id}/image", h.setProductImage)
	})

	router.Route("/categories", func(c chi.Router) {
		c.Get("/", h.listCategories)
		c.Post("/", h.createCategory)
		c.Put("/{id}", h.updateCategory)
		c.Delete("/{id}", h.deleteCategory)
		c.Put("/{id}/image", h.setCategoryImage)
	})

	router.Route("/extras", func(x chi.Router) {
		x.Get("/", h.listExtras)
		x.Post("/", h.createExtra)
		x.Put("/{id}", h.updateExtra)
		x.Delete("/{id}", h.deleteExtra)
	})
}

func requestTimeout(c *cfg.HTTPConfig) time.Duration {
	if c == nil || c.RequestTimeout <= 0 {
		return 30 * time.Second
	}

	return c.RequestTimeout
}
