package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/routine-admin-api/internal/middleware"
	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/routine"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// pageParams reads page and limit. A missing limit is returned as 0 so the
// service applies its configured default.
func pageParams(c *gin.Context) (int, int) {
	page, size := 1, 0
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		size = v
	}
	return page, size
}

// queryList accepts both repeated (?p=a&p=b) and comma separated (?p=a,b) values.
func queryList(c *gin.Context, key string) []string {
	var values []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				values = append(values, trimmed)
			}
		}
	}
	return values
}

// criteriaFromQuery reads categorical filters by field name, numeric ranges as
// min<Field>/max<Field> and the free-text "search" parameter.
func criteriaFromQuery[T any](c *gin.Context, fields routine.Fields[T]) routine.Criteria {
	criteria := routine.Criteria{
		Categories: make(map[string][]string),
		Ranges:     make(map[string]routine.Range),
		Search:     strings.TrimSpace(c.Query("search")),
	}
	for field := range fields.Categorical {
		if values := queryList(c, field); len(values) > 0 {
			criteria.Categories[field] = values
		}
	}
	for field := range fields.Numeric {
		suffix := strings.ToUpper(field[:1]) + field[1:]
		r := routine.Range{Min: c.Query("min" + suffix), Max: c.Query("max" + suffix)}
		if r.Min != "" || r.Max != "" {
			criteria.Ranges[field] = r
		}
	}
	return criteria
}
