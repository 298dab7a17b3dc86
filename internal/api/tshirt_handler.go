package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
)

func (s *Server) getTshirts(c *gin.Context) {
	tshirts, err := s.tshirts.GetAllTshirts(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tshirts)
}

func (s *Server) getTshirt(c *gin.Context) {
	tshirt, err := s.tshirts.GetTshirtByID(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tshirt)
}

type createTshirtReq struct {
	SKU          string          `json:"sku" binding:"required"`
	Gender       string          `json:"gender" binding:"required"`
	Model        string          `json:"model" binding:"required"`
	Size         string          `json:"size" binding:"required"`
	CustomName   string          `json:"custom_name"`
	CustomNumber int             `json:"custom_number"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	Stock        int             `json:"stock"`
}

func (s *Server) createTshirt(c *gin.Context) {
	var req createTshirtReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku, gender, model, size and price are required"})
		return
	}

	tshirt := &model.Tshirt{
		SKU:          req.SKU,
		Gender:       model.Gender(req.Gender),
		Model:        req.Model,
		Size:         req.Size,
		CustomName:   req.CustomName,
		CustomNumber: req.CustomNumber,
		Price:        req.Price,
		Stock:        req.Stock,
	}
	if err := s.tshirts.CreateTshirt(c, getActor(c), tshirt); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tshirt)
}

func (s *Server) updateTshirt(c *gin.Context) {
	var update model.TshirtUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	changed, err := s.tshirts.UpdateTshirt(c, getActor(c), c.Param("id"), &update)
	if err != nil {
		respondError(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusOK, gin.H{"message": "nothing to update, the item already has these values"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item updated successfully"})
}

func (s *Server) deleteTshirt(c *gin.Context) {
	result, err := s.tshirts.DeleteTshirt(c, getActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"message":       "item deleted successfully",
		"carts_total":   result.TotalCount,
		"carts_updated": result.SuccessCarts,
	}
	if len(result.FailedCarts) > 0 {
		failed := make(map[string]string, len(result.FailedCarts))
		for cartID, cartErr := range result.FailedCarts {
			failed[cartID] = cartErr.Error()
		}
		resp["carts_failed"] = failed
	}
	c.JSON(http.StatusOK, resp)
}
