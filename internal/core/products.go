package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ProductID identifies a product across fetches. The catalog API uses integer
// ids while older device data may carry strings, so both decode into the same
// value and numeric ids are written back as JSON numbers.
type ProductID string

func (id ProductID) String() string { return string(id) }

func (id ProductID) numeric() bool {
	if id == "" {
		return false
	}
	n, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == string(id)
}

func (id ProductID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = ProductID(n.String())
	return nil
}

type Product struct {
	ID                 ProductID `json:"id"`
	Title              string    `json:"title"`
	Brand              string    `json:"brand,omitempty"`
	Thumbnail          string    `json:"thumbnail,omitempty"`
	Price              float64   `json:"price"`
	Category           string    `json:"category,omitempty"`
	Description        string    `json:"description,omitempty"`
	DiscountPercentage *float64  `json:"discountPercentage,omitempty"`
	Rating             float64   `json:"rating,omitempty"`
	Stock              int       `json:"stock,omitempty"`
	Images             []string  `json:"images,omitempty"`
}

// Clone returns a copy that shares no memory with p.
func (p Product) Clone() Product {
	out := p
	if p.DiscountPercentage != nil {
		d := *p.DiscountPercentage
		out.DiscountPercentage = &d
	}
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	return out
}

func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing product id", ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	return nil
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func indexOfProduct(list []Product, id ProductID) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
