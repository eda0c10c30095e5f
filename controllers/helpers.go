package controllers

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tailorshop-backend/models"
	"tailorshop-backend/services"
	"tailorshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxUploadMemory = 32 << 20

// isJSON reports whether the request body is JSON rather than a form
func isJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON
}

// postForm parses a url-encoded or multipart body
func postForm(c *gin.Context) (url.Values, error) {
	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
			return nil, err
		}
	} else if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.Request.PostForm, nil
}

// uploads returns the files posted under field, labelled from labels by
// position.
func uploads(c *gin.Context, field string, labels []string) []services.ImageUpload {
	if c.Request.MultipartForm == nil {
		return nil
	}
	headers := c.Request.MultipartForm.File[field]
	files := make([]services.ImageUpload, 0, len(headers))
	for i, fh := range headers {
		fh := fh
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		files = append(files, services.ImageUpload{
			Filename:    fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Label:       label,
			Open:        openHeader(fh),
		})
	}
	return files
}

func openHeader(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors to responses. Validation failures carry
// the submitted form back.
func respondError(c *gin.Context, err error, form interface{}) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondWithFormError(c, http.StatusUnprocessableEntity, verr.Message, form)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrCodeExhausted):
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Could not allocate a code, please retry")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// respondEditError is respondError for edit paths: a missing row sends the
// client back to the listing.
func respondEditError(c *gin.Context, err error, form interface{}, listing string) {
	if errors.Is(err, services.ErrNotFound) {
		c.Redirect(http.StatusSeeOther, listing)
		c.Abort()
		return
	}
	respondError(c, err, form)
}

// measurementsFromForm collects the measure_* arrays of a form
func measurementsFromForm(form url.Values) services.MeasurementForm {
	measurements := services.MeasurementForm{
		CategoryIDs:    form["measure_category_id"],
		SubcategoryIDs: form["measure_subcategory_id"],
		Labels:         form["measure_label"],
		Fields:         make(map[string][]string, len(models.MeasurementFieldNames)),
	}
	for _, name := range models.MeasurementFieldNames {
		if values, ok := form["measure_"+name]; ok {
			measurements.Fields[name] = values
		}
	}
	return measurements
}

func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
