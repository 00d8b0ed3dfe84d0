package models

// BillSchema describes monthly utility bills: water (EMBASA) and power
// (COELBA) amounts.
var BillSchema = Schema{
	Collection: "bills",
	Singular:   "bill",
	Plural:     "bills",
	Fields: []Field{
		{Name: "embasa", Label: "EMBASA", Kind: KindAmount},
		{Name: "coelba", Label: "COELBA", Kind: KindAmount},
	},
}
