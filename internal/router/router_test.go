package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercadito/internal/cache"
	"mercadito/internal/config"
	"mercadito/internal/infra"
	"mercadito/internal/middleware"
	"mercadito/internal/repository"
	"mercadito/internal/router"
	"mercadito/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const secret = "test-secret"

func newEngine(t *testing.T, checkoutLimit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	productos := repository.NewProductoRepository(db)
	promociones := repository.NewPromocionRepository(db)
	ventas := repository.NewVentaRepository(db)
	gastos := repository.NewGastoRepository(db)
	stock := repository.DetectStockRepository(context.Background(), db, "auto")

	cotizaciones := service.NewCotizacionService(repository.NewCotizacionRepository(db), cache.NoopCotizacionCache{})
	inventario := service.NewInventarioService(productos, stock, nil, repository.NewMovimientoStockRepository(db))
	ventaSvc := service.NewVentaService(ventas, productos, promociones, cotizaciones)

	cfg := &config.Config{Env: "test", JWTSecret: secret, CheckoutRateLimitPerMinute: checkoutLimit}
	return router.New(cfg, router.Deps{
		DB:           db,
		Productos:    productos,
		Inventario:   inventario,
		Pedidos:      service.NewPedidoService(repository.NewPedidoRepository(db), productos, promociones, inventario, ventaSvc),
		Ventas:       ventaSvc,
		Promociones:  service.NewPromocionService(promociones, productos),
		Cotizaciones: cotizaciones,
		Gastos:       service.NewGastoService(gastos),
		Metricas:     service.NewMetricasService(ventas, gastos, cotizaciones),
	})
}

func token(t *testing.T, rol string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   "u-1",
		Username: "caja",
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func do(r http.Handler, method, path, tok string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth_SinRedis(t *testing.T) {
	r := newEngine(t, 30)
	w := do(r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "disabled", body["redis"])
	assert.Equal(t, "best_effort", body["stock"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuth_Roles(t *testing.T) {
	r := newEngine(t, 30)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/v1/gastos", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/v1/gastos", "no-es-un-jwt", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/v1/gastos", token(t, "cliente"), nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/v1/gastos", token(t, middleware.RolStaff), nil).Code)

	producto := map[string]any{"nombre": "Yerba", "precio_venta": "2500", "costo": "1800", "stock": 10}
	assert.Equal(t, http.StatusForbidden,
		do(r, http.MethodPost, "/v1/productos", token(t, middleware.RolStaff), producto).Code,
		"catalog writes are admin only")
	assert.Equal(t, http.StatusCreated,
		do(r, http.MethodPost, "/v1/productos", token(t, middleware.RolAdmin), producto).Code)
}

func TestCheckout_PublicoConLimite(t *testing.T) {
	r := newEngine(t, 2)
	body := map[string]any{"cliente_nombre": "Ana", "items": []any{}}

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodPost, "/v1/pedidos", "", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "no token needed, body is rejected by validation")
	}
	w := do(r, http.MethodPost, "/v1/pedidos", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
