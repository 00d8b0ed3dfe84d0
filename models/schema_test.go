package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidate(t *testing.T) {
	values, err := BillSchema.Validate(map[string]string{"embasa": "120.50", "coelba": " 89.3 "})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"embasa": 120.5, "coelba": 89.3}, values)

	values, err = BillSchema.Validate(map[string]string{"embasa": "0", "coelba": "0.00"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, values["embasa"])
}

func TestSchemaValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
		raw    map[string]string
		field  string
	}{
		{"negative", BillSchema, map[string]string{"embasa": "-0.01", "coelba": "1"}, "embasa"},
		{"not a number", BillSchema, map[string]string{"embasa": "10", "coelba": "ten"}, "coelba"},
		{"NaN", BillSchema, map[string]string{"embasa": "NaN", "coelba": "1"}, "embasa"},
		{"infinity", BillSchema, map[string]string{"embasa": "Infinity", "coelba": "1"}, "embasa"},
		{"trailing garbage", BillSchema, map[string]string{"embasa": "12abc", "coelba": "1"}, "embasa"},
		{"empty", BillSchema, map[string]string{"embasa": "", "coelba": "1"}, "embasa"},
		{"blank name", ItemSchema, map[string]string{"name": "  ", "price": "1"}, "name"},
		{"negative price", ItemSchema, map[string]string{"name": "Lamp", "price": "-5"}, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.schema.Validate(tt.raw)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestSchemaNormalize(t *testing.T) {
	values, err := ItemSchema.Normalize(map[string]any{"name": " Lamp ", "price": "10.5", "extra": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Lamp", "price": 10.5}, values)

	values, err = BillSchema.Normalize(map[string]any{"embasa": 1.5, "coelba": "2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"embasa": 1.5, "coelba": 2.0}, values)

	_, err = BillSchema.Normalize(map[string]any{"embasa": -1.0, "coelba": 2.0})
	assert.True(t, IsValidation(err))

	_, err = ItemSchema.Normalize(map[string]any{"name": 3.0, "price": 2.0})
	assert.True(t, IsValidation(err))

	_, err = ItemSchema.Normalize(map[string]any{"name": "Lamp", "price": nil})
	assert.True(t, IsValidation(err))
}

func TestFieldFormatValue(t *testing.T) {
	embasa, ok := BillSchema.Field("embasa")
	require.True(t, ok)
	name, _ := ItemSchema.Field("name")

	assert.Equal(t, "10.00", embasa.FormatValue(10.0))
	assert.Equal(t, "89.30", embasa.FormatValue(89.3))
	assert.Equal(t, "20.00", embasa.FormatValue("20"))
	assert.Equal(t, "", embasa.FormatValue(nil))
	assert.Equal(t, "Lamp", name.FormatValue("Lamp"))
}

func TestSchemaFor(t *testing.T) {
	s, ok := SchemaFor("items")
	require.True(t, ok)
	assert.Equal(t, "item", s.Singular)
	assert.Equal(t, "No items found for the selected date range", s.Placeholder())

	_, ok = SchemaFor("invoices")
	assert.False(t, ok)
	assert.Len(t, Schemas(), 2)
}
