package handler

import (
	"net/http"

	"booktracker/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
)

// Every body is either {"data": ...} or {"error": "...", "fields"?: {...}}.

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func respondValidation(c *gin.Context, fields dto.FieldErrors) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "Validation failed",
		"fields": fields,
	})
}
