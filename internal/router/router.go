package router

import (
	"gestorstock/internal/config"
	"gestorstock/internal/handler"
	"gestorstock/internal/metrics"
	"gestorstock/internal/middleware"
	"gestorstock/internal/repository"
	"gestorstock/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb and dispatcher may be nil (no price cache, no async cierre report).
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher service.CierreEnqueuer) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	if cfg.PrometheusEnabled {
		r.Use(metrics.Middleware())
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoStockRepo)
	productoSvc := service.NewProductoService(productoRepo)
	ventaSvc := service.NewVentaService(ventaRepo, inventarioSvc, cfg.NombreNegocio)
	cajaSvc := service.NewCajaService(cajaRepo, ventaRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ventasH := handler.NewVentasHandler(ventaSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	productosH := handler.NewProductosHandler(productoSvc, inventarioSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoRepo, rdb, cfg.CachePrecioTTL)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))
	if cfg.PrometheusEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/v1")
	{
		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.Crear)
			ventas.GET("", ventasH.Listar)
			ventas.GET("/:id", ventasH.Obtener)
			ventas.PUT("/:id", ventasH.Actualizar)
			ventas.DELETE("/:id", ventasH.Eliminar)
			ventas.GET("/:id/pdf", ventasH.Ticket)
		}

		cajas := v1.Group("/cajas")
		{
			cajas.GET("", cajaH.Listar)
			cajas.GET("/resumen-diario", cajaH.ResumenDiario)
			cajas.POST("/cerrar", cajaH.Cerrar)
			cajas.GET("/:id/ventas", cajaH.Ventas)
		}

		productos := v1.Group("/productos")
		{
			productos.POST("", productosH.Crear)
			productos.GET("/:id", productosH.ObtenerPorID)
			productos.GET("/:id/movimientos", productosH.Movimientos)
		}

		v1.GET("/precio/:barcode", consultaH.GetPrecioPorBarcode)
	}

	// Swagger UI: only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
