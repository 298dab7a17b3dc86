package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
)

type cartItemReq struct {
	TshirtID string `json:"tshirt_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type cartReq struct {
	Tshirts []cartItemReq `json:"tshirts"`
}

func (r cartReq) toItems() []model.CartItem {
	items := make([]model.CartItem, len(r.Tshirts))
	for i, item := range r.Tshirts {
		items[i] = model.CartItem{TshirtID: item.TshirtID, Quantity: item.Quantity}
	}
	return items
}

func (s *Server) createCart(c *gin.Context) {
	var req cartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tshirts must be an array of tshirt_id and quantity"})
		return
	}

	cart, err := s.carts.CreateCart(c, getActor(c), req.toItems())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cart)
}

func (s *Server) getCart(c *gin.Context) {
	cart, err := s.carts.GetCart(c, getActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (s *Server) updateCart(c *gin.Context) {
	var req cartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tshirts must be an array of tshirt_id and quantity"})
		return
	}

	cart, err := s.carts.UpdateCart(c, getActor(c), req.toItems())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (s *Server) deleteCartItem(c *gin.Context) {
	cart, err := s.carts.RemoveCartItem(c, getActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
