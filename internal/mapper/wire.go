package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"

	gojson "github.com/goccy/go-json"

	"productcatalog/internal/domain"
)

// DecodeDTO reads a JSON product body one field at a time. The id may be a
// number or text, the price a number or numeric text, the name text only.
// Null and missing fields stay empty and unknown keys are ignored. A known
// field holding any other JSON kind is a *MappingError naming that field.
func DecodeDTO(body []byte) (domain.ProductDTO, error) {
	var raw struct {
		ID    json.RawMessage `json:"id"`
		Name  json.RawMessage `json:"name"`
		Price json.RawMessage `json:"price"`
	}
	if err := gojson.Unmarshal(body, &raw); err != nil {
		return domain.ProductDTO{}, err
	}

	var dto domain.ProductDTO
	var err error
	if dto.ID, err = scalar("id", "string", raw.ID, true); err != nil {
		return domain.ProductDTO{}, err
	}
	if dto.Name, err = scalar("name", "string", raw.Name, false); err != nil {
		return domain.ProductDTO{}, err
	}
	price, err := scalar("price", "json.Number", raw.Price, true)
	if err != nil {
		return domain.ProductDTO{}, err
	}
	dto.Price = json.Number(price)
	return dto, nil
}

// scalar returns the text of a JSON string, or the literal of a JSON number
// when numbers are allowed.
func scalar(field, to string, raw []byte, numbers bool) (string, error) {
	raw = bytes.TrimSpace(raw)
	k := jsonKind(raw)
	switch {
	case k == "null":
		return "", nil
	case k == "string":
		var s string
		if err := gojson.Unmarshal(raw, &s); err != nil {
			return "", &MappingError{Field: field, From: "JSON string", To: to, Err: err}
		}
		return s, nil
	case k == "number" && numbers:
		return string(raw), nil
	}
	return "", &MappingError{Field: field, From: "JSON " + k, To: to, Err: fmt.Errorf("unexpected JSON %s", k)}
}

func jsonKind(raw []byte) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "null"
	}
	switch raw[0] {
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case '{':
		return "object"
	case '[':
		return "array"
	}
	return "number"
}
