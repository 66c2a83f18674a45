package mapper_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productcatalog/internal/domain"
	"productcatalog/internal/mapper"
)

func TestDecodeDTO_AcceptedShapes(t *testing.T) {
	cases := []struct {
		body string
		want domain.ProductDTO
	}{
		{`{"name":"Widget","price":9.99}`, domain.ProductDTO{Name: "Widget", Price: "9.99"}},
		{`{"id":5,"name":"Widget","price":9.99}`, domain.ProductDTO{ID: "5", Name: "Widget", Price: "9.99"}},
		{`{"id":"5","name":"Widget","price":"9.99"}`, domain.ProductDTO{ID: "5", Name: "Widget", Price: "9.99"}},
		{`{"id":null,"name":null,"price":null}`, domain.ProductDTO{}},
		{`{"name":"Widget","colour":"red"}`, domain.ProductDTO{Name: "Widget"}},
	}
	for _, tc := range cases {
		got, err := mapper.DecodeDTO([]byte(tc.body))
		require.NoError(t, err, tc.body)
		assert.Equal(t, tc.want, got, tc.body)
	}
}

func TestDecodeDTO_WrongKindNamesField(t *testing.T) {
	cases := []struct {
		body, field, from string
	}{
		{`{"name":"Widget","price":true}`, "price", "JSON bool"},
		{`{"name":5,"price":1}`, "name", "JSON number"},
		{`{"id":{"n":1},"name":"Widget"}`, "id", "JSON object"},
		{`{"name":["a"]}`, "name", "JSON array"},
	}
	for _, tc := range cases {
		_, err := mapper.DecodeDTO([]byte(tc.body))
		var me *mapper.MappingError
		require.True(t, errors.As(err, &me), "%s: %v", tc.body, err)
		assert.Equal(t, tc.field, me.Field, tc.body)
		assert.Equal(t, tc.from, me.From, tc.body)
	}
}

// Numeric text gets through decoding; ToEntity decides whether it is a price.
func TestDecodeDTO_PriceTextCheckedByToEntity(t *testing.T) {
	dto, err := mapper.DecodeDTO([]byte(`{"name":"Widget","price":"abc"}`))
	require.NoError(t, err)

	_, err = mapper.ToEntity(dto)
	var me *mapper.MappingError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "price", me.Field)
}

func TestDecodeDTO_MalformedBody(t *testing.T) {
	for _, body := range []string{``, `{"name":`, `[1,2]`} {
		_, err := mapper.DecodeDTO([]byte(body))
		require.Error(t, err, body)
		var me *mapper.MappingError
		assert.False(t, errors.As(err, &me), body)
	}
}
