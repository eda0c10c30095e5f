package controllers

import (
	"net/http"

	"tailorshop-backend/services"
	"tailorshop-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreateCategoryInput struct {
	Name            string `json:"name" form:"category_name"`
	MeasurementType string `json:"measurementType" form:"measurement_type"`
}

type CreateSubcategoryInput struct {
	CategoryID uint   `json:"categoryId" form:"subcategory_category_id"`
	Name       string `json:"name" form:"subcategory_name"`
}

// ReplaceFieldsInput accepts either a JSON list of fields or the form's
// parallel field_key/field_label arrays.
type ReplaceFieldsInput struct {
	Fields []services.FieldSpec `json:"fields"`
	Keys   []string             `json:"-" form:"field_key"`
	Labels []string             `json:"-" form:"field_label"`
}

func (in ReplaceFieldsInput) specs() []services.FieldSpec {
	if len(in.Fields) > 0 {
		return in.Fields
	}
	specs := make([]services.FieldSpec, 0, len(in.Labels))
	for i, label := range in.Labels {
		spec := services.FieldSpec{Label: label}
		if i < len(in.Keys) {
			spec.Key = in.Keys[i]
		}
		specs = append(specs, spec)
	}
	return specs
}

type SchemaController struct {
	registry *services.SchemaRegistry
}

func NewSchemaController(registry *services.SchemaRegistry) *SchemaController {
	return &SchemaController{registry: registry}
}

func (sc *SchemaController) GetCategories(c *gin.Context) {
	categories, err := sc.registry.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (sc *SchemaController) CreateCategory(c *gin.Context) {
	var input CreateCategoryInput
	if err := c.ShouldBind(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	category, err := sc.registry.AddCategory(c.Request.Context(), input.Name, input.MeasurementType)
	if err != nil {
		respondError(c, err, input)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (sc *SchemaController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := sc.registry.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// GetSubcategories lists subcategories, filtered by ?category_id= when given
func (sc *SchemaController) GetSubcategories(c *gin.Context) {
	categoryID := utils.ParseOptionalID(c.Query("category_id"))
	subcategories, err := sc.registry.ListSubcategories(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, subcategories)
}

func (sc *SchemaController) CreateSubcategory(c *gin.Context) {
	var input CreateSubcategoryInput
	if err := c.ShouldBind(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	sub, err := sc.registry.AddSubcategory(c.Request.Context(), input.CategoryID, input.Name)
	if err != nil {
		respondError(c, err, input)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (sc *SchemaController) DeleteSubcategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := sc.registry.DeleteSubcategory(c.Request.Context(), id); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subcategory deleted successfully"})
}

func (sc *SchemaController) GetFields(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	fields, err := sc.registry.ListFields(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, fields)
}

// ReplaceFields makes the submitted list the subcategory's field set
func (sc *SchemaController) ReplaceFields(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input ReplaceFieldsInput
	if err := c.ShouldBind(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	fields, err := sc.registry.ReplaceFields(c.Request.Context(), id, input.specs())
	if err != nil {
		respondError(c, err, input)
		return
	}
	c.JSON(http.StatusOK, fields)
}
