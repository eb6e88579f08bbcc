package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductID_JSON(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"title":"x","price":1}`), &p))
	assert.Equal(t, ProductID("42"), p.ID)

	out, err := json.Marshal(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "42", string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"id":"sku-1"}`), &p))
	out, err = json.Marshal(p.ID)
	require.NoError(t, err)
	assert.Equal(t, `"sku-1"`, string(out))

	out, err = json.Marshal(ProductID("007"))
	require.NoError(t, err)
	assert.Equal(t, `"007"`, string(out))
}

func TestProduct_CloneIsDeep(t *testing.T) {
	d := 12.5
	p := Product{ID: "1", DiscountPercentage: &d, Images: []string{"a"}}
	c := p.Clone()
	*c.DiscountPercentage = 1
	c.Images[0] = "b"
	assert.Equal(t, 12.5, *p.DiscountPercentage)
	assert.Equal(t, "a", p.Images[0])
}
