// Package mapper converts between the stored product record and its wire
// shape. Fields are paired by name: id, name and price. Timestamps belong to
// the record only and are never touched here.
package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"productcatalog/internal/domain"
)

var errNonPositiveID = errors.New("id must be positive")

// MappingError reports a shared field whose value could not be converted
// between the two shapes.
type MappingError struct {
	Field string
	From  string
	To    string
	Err   error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping %s: cannot convert %s to %s: %v", e.Field, e.From, e.To, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

// ToEntity builds a fresh record from a DTO. An empty id stays 0 so the store
// assigns one; CreatedAt and UpdatedAt are left zero.
func ToEntity(dto domain.ProductDTO) (domain.Product, error) {
	var p domain.Product

	if s := strings.TrimSpace(dto.ID); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err == nil && id <= 0 {
			err = errNonPositiveID
		}
		if err != nil {
			return domain.Product{}, &MappingError{Field: "id", From: "string", To: "int64", Err: err}
		}
		p.ID = id
	}

	p.Name = dto.Name

	if s := dto.Price.String(); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return domain.Product{}, &MappingError{Field: "price", From: "json.Number", To: "decimal.Decimal", Err: err}
		}
		p.Price = d
	}
	return p, nil
}

// ToDTO never fails: every record value has a wire form.
func ToDTO(p domain.Product) domain.ProductDTO {
	dto := domain.ProductDTO{
		Name:  p.Name,
		Price: json.Number(p.Price.String()),
	}
	if p.ID != 0 {
		dto.ID = FormatID(p.ID)
	}
	return dto
}

// ToDTOs maps a slice; the result is never nil.
func ToDTOs(ps []domain.Product) []domain.ProductDTO {
	out := make([]domain.ProductDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToDTO(p))
	}
	return out
}

func FormatID(id int64) string { return strconv.FormatInt(id, 10) }
