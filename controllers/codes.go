package controllers

import (
	"net/http"

	"tailorshop-backend/services"

	"github.com/gin-gonic/gin"
)

type CodeController struct {
	codes *services.CodeGenerator
}

func NewCodeController(codes *services.CodeGenerator) *CodeController {
	return &CodeController{codes: codes}
}

// PreviewCode shows the code the next tailor, vendor, expense or
// inventory item (?name=) would receive. Nothing is reserved.
func (cc *CodeController) PreviewCode(c *gin.Context) {
	family, err := services.ParseCodeFamily(c.Param("family"))
	if err != nil {
		respondError(c, err, gin.H{"family": c.Param("family")})
		return
	}
	code, err := cc.codes.Preview(c.Request.Context(), family, c.Query("name"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"family": family, "code": code})
}
