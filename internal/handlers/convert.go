package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ConvertRequest struct {
	Messages []string `json:"messages" binding:"required,min=1"`
}

type ConversionResult struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	SizeBytes int    `json:"size_bytes"`
}

// Convert forwards TAC messages to the external conversion engine. Sits
// behind APIKeyAuth; the engine itself knows nothing about users.
func (h *Handler) Convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := make([]ConversionResult, 0, len(req.Messages))
	var errs []string
	for i, tac := range req.Messages {
		xml, err := h.converter.Convert(c.Request.Context(), tac)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		results = append(results, ConversionResult{
			Name:      fmt.Sprintf("message_%d.xml", i+1),
			Content:   xml,
			SizeBytes: len(xml),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"results":         results,
		"errors":          errs,
		"total_processed": len(req.Messages),
		"successful":      len(results),
		"failed":          len(errs),
	})
}
