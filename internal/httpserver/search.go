package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"essenza-backend/internal/domain"
	perfumerepo "essenza-backend/internal/repository/perfume"
)

type searchResponse struct {
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Count   int              `json:"count"`
	Total   int              `json:"total"`
	Results []domain.Perfume `json:"results"`
}

func searchPerfumesHandler(perfumes PerfumeStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, err := parseSearchQuery(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		results, total, searchErr := perfumes.Search(c.Request.Context(), in)
		if searchErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
			return
		}
		if results == nil {
			results = []domain.Perfume{}
		}

		c.JSON(http.StatusOK, searchResponse{
			Limit:   in.Limit,
			Offset:  in.Offset,
			Count:   len(results),
			Total:   total,
			Results: results,
		})
	}
}

func getPerfumeHandler(perfumes PerfumeStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := perfumes.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "perfume not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func parseSearchQuery(c *gin.Context) (perfumerepo.SearchInput, error) {
	in := perfumerepo.SearchInput{
		Query: strings.TrimSpace(c.Query("q")),
		Brand: strings.TrimSpace(c.Query("brand")),
		Limit: 20,
	}

	var err error
	if in.MinPriceCents, err = optionalInt64(c.Query("min_price")); err != nil {
		return in, err
	}
	if in.MaxPriceCents, err = optionalInt64(c.Query("max_price")); err != nil {
		return in, err
	}
	if v := c.Query("limit"); v != "" {
		limit, convErr := strconv.Atoi(v)
		if convErr != nil {
			return in, convErr
		}
		in.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, convErr := strconv.Atoi(v)
		if convErr != nil {
			return in, convErr
		}
		in.Offset = offset
	}
	return in, nil
}

func optionalInt64(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
