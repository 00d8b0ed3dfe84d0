package models

// ItemSchema describes generic priced items.
var ItemSchema = Schema{
	Collection: "items",
	Singular:   "item",
	Plural:     "items",
	Fields: []Field{
		{Name: "name", Label: "Name", Kind: KindText},
		{Name: "price", Label: "Price", Kind: KindAmount},
	},
}
