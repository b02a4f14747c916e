package router

import (
	"time"

	"mercadito/internal/config"
	"mercadito/internal/handler"
	"mercadito/internal/middleware"
	"mercadito/internal/repository"
	"mercadito/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs. Services are built by the
// composition root in cmd/server because the background workers share them.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client // nil when Redis is disabled

	Productos    repository.ProductoRepository
	Inventario   service.InventarioService
	Pedidos      service.PedidoService
	Ventas       service.VentaService
	Promociones  service.PromocionService
	Cotizaciones service.CotizacionService
	Gastos       service.GastoService
	Metricas     service.MetricasService

	// Done stops the rate limiter purge goroutines. Nil disables purging.
	Done <-chan struct{}
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	global := middleware.NewRateLimiter("global", 1000, time.Minute)
	checkout := middleware.NewRateLimiter("checkout", cfg.CheckoutRateLimitPerMinute, time.Minute)
	if d.Done != nil {
		global.StartPurge(5*time.Minute, d.Done)
		checkout.StartPurge(5*time.Minute, d.Done)
	}

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(global.Middleware())

	// ── Handlers ─────────────────────────────────────────────────────────────
	pedidosH := handler.NewPedidosHandler(d.Pedidos)
	ventasH := handler.NewVentasHandler(d.Ventas)
	productosH := handler.NewProductosHandler(d.Productos, d.Inventario)
	promocionesH := handler.NewPromocionesHandler(d.Promociones)
	cotizacionesH := handler.NewCotizacionesHandler(d.Cotizaciones)
	gastosH := handler.NewGastosHandler(d.Gastos)
	metricasH := handler.NewMetricasHandler(d.Metricas)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DB, d.Redis, d.Inventario.Atomico()))
	r.POST("/v1/pedidos", checkout.Middleware(), pedidosH.Crear)

	// Staff panel
	staff := middleware.RequireRole(middleware.RolStaff, middleware.RolAdmin)
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), staff)
	{
		v1.GET("/pedidos", pedidosH.Listar)
		v1.GET("/pedidos/buscar", pedidosH.Buscar)
		v1.GET("/pedidos/:id", pedidosH.Obtener)
		v1.POST("/pedidos/:id/transicion", pedidosH.Transicionar)
		v1.POST("/pedidos/cancelar-vencidos", pedidosH.CancelarVencidos)

		v1.POST("/ventas", ventasH.Registrar)
		v1.GET("/ventas", ventasH.Listar)
		v1.GET("/ventas/:id", ventasH.Obtener)
		v1.PATCH("/ventas/:id/pagada", ventasH.MarcarPagada)
		v1.DELETE("/ventas/:id", ventasH.Anular)
		v1.PATCH("/ventas/:id/reactivar", ventasH.Reactivar)
		v1.GET("/ventas/:id/ticket", ventasH.Ticket)

		v1.GET("/productos/:id", productosH.Obtener)
		v1.PATCH("/productos/:id/stock", productosH.AjustarStock)
		v1.GET("/productos/:id/movimientos", productosH.Movimientos)

		v1.PUT("/promociones/:id/items", promocionesH.SincronizarItems)
		v1.GET("/promociones/:id", promocionesH.Obtener)

		v1.GET("/cotizaciones/actual", cotizacionesH.Actual)
		v1.POST("/cotizaciones", cotizacionesH.Registrar)

		v1.POST("/gastos", gastosH.Crear)
		v1.GET("/gastos", gastosH.Listar)
		v1.DELETE("/gastos/:id", gastosH.Desactivar)

		v1.GET("/metricas", metricasH.Periodo)

		// Catalog writes: admin only
		admin := v1.Group("", middleware.RequireRole(middleware.RolAdmin))
		{
			admin.POST("/productos", productosH.Crear)
			admin.PUT("/productos/:id/precios", productosH.ActualizarPrecios)
			admin.POST("/promociones", promocionesH.Crear)
		}
	}

	return r
}
