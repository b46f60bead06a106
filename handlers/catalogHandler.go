package handlers

import (
	"HospiCare/middlewares"
	"HospiCare/models"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the immutable treatment and coverage catalogs from
// the in-memory lookup.
type CatalogHandler struct {
	catalog *models.Catalog
}

func NewCatalogHandler(catalog *models.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GetTreatments handles GET /treatments
func (h *CatalogHandler) GetTreatments(c *gin.Context) {
	treatments := h.catalog.Treatments()
	sort.Slice(treatments, func(i, j int) bool { return treatments[i].ID < treatments[j].ID })
	middlewares.RespondJSON(c, treatments, http.StatusOK)
}

// GetCoverages handles GET /coverages
func (h *CatalogHandler) GetCoverages(c *gin.Context) {
	coverages := h.catalog.Coverages()
	sort.Slice(coverages, func(i, j int) bool { return coverages[i].ID < coverages[j].ID })
	middlewares.RespondJSON(c, coverages, http.StatusOK)
}
