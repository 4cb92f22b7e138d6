package api

import (
	"errors"
	"io"

	"bookstore/internal/domain"
	"bookstore/internal/validate"

	"github.com/gin-gonic/gin"
)

// pageQuery is the page/limit/q query string shared by the list endpoints
type pageQuery struct {
	Page  int    `form:"page,default=1" validate:"gte=1"`
	Limit int    `form:"limit,default=10" validate:"gte=1,lte=100"`
	Q     string `form:"q" validate:"max=100"`
}

// bindPage reads and checks the pagination query. Out of range values are rejected
// rather than clamped.
func bindPage(c *gin.Context, v *validate.Validator) (domain.Page, string, error) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		var res validate.Result
		res.Add("", "invalid_type", "page and limit must be integers")
		return domain.Page{}, "", res.Err("query")
	}
	res := v.Struct(q)
	if res.OK() && q.Page > domain.MaxPage(q.Limit) {
		res.Add("page", "too_big", "page is out of range")
	}
	if err := res.Err("query"); err != nil {
		return domain.Page{}, "", err
	}
	return domain.Page{Page: q.Page, Limit: q.Limit}, q.Q, nil
}

// idParam returns the named path parameter once it is a well formed id
func idParam(c *gin.Context, v *validate.Validator, name string) (string, error) {
	id := c.Param(name)
	if err := v.Var(name, id, "required,objectid").Err("params"); err != nil {
		return "", err
	}
	return id, nil
}

// trimmer is implemented by bodies that normalize whitespace before validation
type trimmer interface {
	trim()
}

// bindBody decodes a JSON body and checks it against its validate tags
func bindBody(c *gin.Context, v *validate.Validator, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var res validate.Result
		if errors.Is(err, io.EOF) {
			res.Add("", "invalid_type", "Request body is required")
		} else {
			res.Add("", "invalid_json", "Malformed JSON body")
		}
		return res.Err("body")
	}
	if t, ok := dst.(trimmer); ok {
		t.trim()
	}
	return v.Struct(dst).Err("body")
}

// listResponse is the envelope every paginated endpoint returns
func listResponse[T any](r domain.PageResult[T]) gin.H {
	return gin.H{
		"data":       r.Data,
		"total":      r.Total,
		"page":       r.Page,
		"limit":      r.Limit,
		"totalPages": r.TotalPages(),
	}
}
