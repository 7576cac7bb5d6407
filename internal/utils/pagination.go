package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chronicle-dev/chronicle/internal/types"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type PageRequest struct {
	Page   int
	Limit  int
	Offset int
}

// GetPagination reads page/limit query params, clamping them to sane bounds.
func GetPagination(ctx *gin.Context) PageRequest {
	page, err := strconv.Atoi(ctx.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return PageRequest{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// BuildPagination assembles the envelope for a counted list response.
func BuildPagination(req PageRequest, total int64) types.Pagination {
	totalPages := total / int64(req.Limit)
	if total%int64(req.Limit) != 0 {
		totalPages++
	}

	return types.Pagination{
		Page:         req.Page,
		Limit:        req.Limit,
		TotalRecords: total,
		TotalPages:   totalPages,
	}
}
