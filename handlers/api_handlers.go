package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"students-api-go/db"
	"students-api-go/models"
)

// APIHandler holds the dependencies for API handlers
type APIHandler struct {
	Dataset *db.Dataset
	Message string // Identification returned by GET /
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(dataset *db.Dataset, message string) *APIHandler {
	return &APIHandler{
		Dataset: dataset,
		Message: message,
	}
}

// studentsQuery is the bound query string of GET /api
type studentsQuery struct {
	Class []string `form:"class"` // Repeatable
}

// Root handles GET /
func (h *APIHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResponse{Message: h.Message})
}

// GetStudents handles GET /api
func (h *APIHandler) GetStudents(c *gin.Context) {
	var q studentsQuery
	if err := bindStudentsQuery(c, &q); err != nil {
		slog.Warn("invalid query", "query", c.Request.URL.RawQuery, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	students := models.FilterByClass(h.Dataset.Records(), q.Class)
	if students == nil {
		// Return empty list instead of null for JSON consistency
		students = []models.StudentRecord{}
	}

	c.JSON(http.StatusOK, models.StudentsResponse{Students: students})
}

// bindStudentsQuery rejects query strings that do not decode cleanly;
// gin would otherwise drop the broken pairs silently.
func bindStudentsQuery(c *gin.Context, q *studentsQuery) error {
	if _, err := url.ParseQuery(c.Request.URL.RawQuery); err != nil {
		return err
	}
	return c.ShouldBindQuery(q)
}
