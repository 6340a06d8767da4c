package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"craftshop-checkout/internal/handler"
	"craftshop-checkout/internal/metrics"
	"craftshop-checkout/internal/middleware"
	"craftshop-checkout/internal/service"
)

type Server struct {
	echo            *echo.Echo
	checkoutHandler *handler.CheckoutHandler
	cartHandler     *handler.CartHandler
	jwtSecret       string
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func NewServer(checkoutService service.CheckoutService, jwtSecret string) *Server {
	e := echo.New()
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:            e,
		checkoutHandler: handler.NewCheckoutHandler(checkoutService),
		cartHandler:     handler.NewCartHandler(checkoutService),
		jwtSecret:       jwtSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := s.echo.Group("/api", middleware.SessionMiddleware(s.jwtSecret))

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- cart --------
	cart := api.Group("/cart")
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.PATCH("/items/:lineID", s.cartHandler.UpdateQuantity)
	cart.DELETE("/items/:lineID", s.cartHandler.RemoveItem)

	// -------- checkout --------
	checkout := api.Group("/checkout")
	checkout.POST("", s.checkoutHandler.StartCheckout)

	// -------- gateway return legs --------
	checkout.GET("/return", s.checkoutHandler.HandleReturn)
	checkout.GET("/cancel", s.checkoutHandler.HandleCancel)

	// -------- orders --------
	api.GET("/orders", s.checkoutHandler.ListOrders)
	api.GET("/orders/:orderNumber", s.checkoutHandler.GetOrder)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
