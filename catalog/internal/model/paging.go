package model

import (
	"strconv"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
)

type PageRequest struct {
	Number int
	Last   bool
}

// ParsePageRequest reads the ?page= value: empty, a positive number or "last".
func ParsePageRequest(raw string) (PageRequest, error) {
	switch raw {
	case "":
		return PageRequest{Number: 1}, nil
	case "last":
		return PageRequest{Last: true}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return PageRequest{}, errs.ErrNotFound
	}
	return PageRequest{Number: n}, nil
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
	NumPages      int `json:"numPages"`
}

// NewPaging resolves req against the total count.
// Page 1 of an empty result is valid, any other page past the end is not found.
func NewPaging(req PageRequest, size, total int) (Paging, error) {
	if size <= 0 {
		size = PaginateBy
	}
	numPages := (total + size - 1) / size
	if numPages == 0 {
		numPages = 1
	}
	page := req.Number
	if req.Last {
		page = numPages
	}
	if page < 1 || page > numPages {
		return Paging{}, errs.ErrNotFound
	}
	return Paging{
		Page:          page,
		PageSize:      size,
		TotalElements: total,
		NumPages:      numPages,
	}, nil
}

func (p Paging) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Paging) IsPaginated() bool {
	return p.NumPages > 1
}

func (p Paging) HasNext() bool {
	return p.Page < p.NumPages
}

func (p Paging) HasPrevious() bool {
	return p.Page > 1
}

func (p Paging) NextPage() int {
	return p.Page + 1
}

func (p Paging) PreviousPage() int {
	return p.Page - 1
}
