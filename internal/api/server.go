package api

import (
	"github.com/gin-gonic/gin"

	"github.com/igorpreis/Store-Back-End/internal/pkg/token"
	"github.com/igorpreis/Store-Back-End/internal/service"
)

type Server struct {
	engine     *gin.Engine
	tokenMaker *token.Maker
	auth       service.IAuthService
	tshirts    service.ITshirtService
	carts      service.ICartService
	orders     service.IOrderService
}

func NewServer(
	tokenMaker *token.Maker,
	auth service.IAuthService,
	tshirts service.ITshirtService,
	carts service.ICartService,
	orders service.IOrderService,
) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s := &Server{
		engine:     r,
		tokenMaker: tokenMaker,
		auth:       auth,
		tshirts:    tshirts,
		carts:      carts,
		orders:     orders,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	authed := authMiddleware(s.tokenMaker)

	api := s.engine.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)

		tshirts := api.Group("/tshirts")
		tshirts.GET("", s.getTshirts)
		tshirts.GET(":id", s.getTshirt)
		tshirts.POST("", authed, s.createTshirt)
		tshirts.PUT(":id", authed, s.updateTshirt)
		tshirts.DELETE(":id", authed, s.deleteTshirt)

		cart := api.Group("/cart", authed)
		cart.POST("", s.createCart)
		cart.GET("", s.getCart)
		cart.PUT("", s.updateCart)
		cart.DELETE(":id", s.deleteCartItem)

		order := api.Group("/order")
		order.GET("", s.getOrders)
		order.POST("", authed, s.createOrder)
		order.PUT(":orderId/pay", authed, s.payOrder)
		order.PUT(":orderId/cancel", authed, s.cancelOrder)
	}
}
