package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SKU is the opaque stock-keeping unit code joining catalog, inventory and
// order records. The remote services emit it either as a JSON number or as a
// string; it always normalizes to its string form.
type SKU string

func (s *SKU) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty sku value")
	}

	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = SKU(v)
		return nil
	}

	var v json.Number
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("sku is neither string nor number: %w", err)
	}
	*s = SKU(v.String())
	return nil
}

func (s SKU) String() string {
	return string(s)
}

// SKUFromInt builds a SKU from a numeric code.
func SKUFromInt(code int64) SKU {
	return SKU(strconv.FormatInt(code, 10))
}

// Product is the catalog entry the storefront offers. Immutable once
// projected from an inventory listing; replaced wholesale on re-fetch.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	SKU   SKU     `json:"sku"`
}
