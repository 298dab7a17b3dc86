package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
)

type createOrderReq struct {
	ShippingAddress struct {
		Street     string `json:"street" binding:"required"`
		City       string `json:"city" binding:"required"`
		District   string `json:"district" binding:"required"`
		PostalCode string `json:"postalCode" binding:"required"`
		Country    string `json:"country" binding:"required"`
	} `json:"shipping_address" binding:"required"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shipping_address with street, city, district, postalCode and country is required"})
		return
	}

	address := model.ShippingAddress{
		Street:     req.ShippingAddress.Street,
		City:       req.ShippingAddress.City,
		District:   req.ShippingAddress.District,
		PostalCode: req.ShippingAddress.PostalCode,
		Country:    req.ShippingAddress.Country,
	}
	order, err := s.orders.CreateOrder(c, getActor(c), address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) getOrders(c *gin.Context) {
	orders, err := s.orders.GetAllOrders(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) payOrder(c *gin.Context) {
	order, err := s.orders.PayOrder(c, getActor(c), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) cancelOrder(c *gin.Context) {
	order, err := s.orders.CancelOrder(c, getActor(c), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
