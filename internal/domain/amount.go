package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-entered amount. Empty or unparseable input is zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// lenientDecimal decodes a JSON number or string, falling back to zero
func lenientDecimal(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero
	}
	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero
		}
	} else {
		s = string(raw)
	}
	return ParseAmount(s)
}

// UnmarshalJSON accepts quantities and amounts as numbers or strings.
// "price" is read as the unit amount when unit_amount is absent.
func (i *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Description string          `json:"description"`
		Quantity    json.RawMessage `json:"quantity"`
		UnitAmount  json.RawMessage `json:"unit_amount"`
		Price       json.RawMessage `json:"price"`
		VATIncluded bool            `json:"vat_included"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	unit := raw.UnitAmount
	if len(unit) == 0 {
		unit = raw.Price
	}

	i.Description = raw.Description
	i.Quantity = lenientDecimal(raw.Quantity)
	i.UnitAmount = lenientDecimal(unit)
	i.VATIncluded = raw.VATIncluded
	return nil
}
