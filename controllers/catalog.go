package controllers

import (
	"io"
	"net/http"
	"strings"

	"tailorshop-backend/services"
	"tailorshop-backend/storage"
	"tailorshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type CreateUOMInput struct {
	Name string `json:"name" form:"name"`
}

type CatalogController struct {
	catalog *services.CatalogService
	files   storage.Store
}

func NewCatalogController(catalog *services.CatalogService, files storage.Store) *CatalogController {
	return &CatalogController{catalog: catalog, files: files}
}

func (cc *CatalogController) GetUOMs(c *gin.Context) {
	uoms, err := cc.catalog.ListUOMs(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, uoms)
}

func (cc *CatalogController) CreateUOM(c *gin.Context) {
	var input CreateUOMInput
	if err := c.ShouldBind(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	uom, err := cc.catalog.AddUOM(c.Request.Context(), input.Name)
	if err != nil {
		respondError(c, err, input)
		return
	}
	c.JSON(http.StatusCreated, uom)
}

// DeleteUOM removes a unit; items and purchases using it are unlinked
func (cc *CatalogController) DeleteUOM(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := cc.catalog.DeleteUOM(c.Request.Context(), id); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unit deleted successfully"})
}

func (cc *CatalogController) GetRequirements(c *gin.Context) {
	icons, err := cc.catalog.ListRequirements(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, icons)
}

// CreateRequirement takes a multipart form with "name" and an "icon" file
func (cc *CatalogController) CreateRequirement(c *gin.Context) {
	form, err := postForm(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid form: "+err.Error())
		return
	}
	var icon services.ImageUpload
	if files := uploads(c, "icon", nil); len(files) > 0 {
		icon = files[0]
	}
	req, err := cc.catalog.AddRequirement(c.Request.Context(), form.Get("name"), icon)
	if err != nil {
		respondError(c, err, gin.H{"name": form.Get("name")})
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (cc *CatalogController) DeleteRequirement(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := cc.catalog.DeleteRequirement(c.Request.Context(), id); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Requirement deleted successfully"})
}

// GetFile streams a stored order image or requirement icon by key
func (cc *CatalogController) GetFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	r, err := cc.files.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "File not found")
			return
		}
		log.Error().Err(err).Str("key", key).Msg("Failed to read stored file")
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to read file")
		return
	}
	defer r.Close()

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, r); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to stream file")
	}
}
