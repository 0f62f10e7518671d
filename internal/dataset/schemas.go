package dataset

import "github.com/mithrel/gridspike/pkg/api"

// Stocks is the daily ETF price schema.
var Stocks = api.Schema{Name: "stocks", Columns: []api.Column{
	{ID: "Name", Header: "Symbol", Kind: api.KindString, Width: 8, EnableGlobalFilter: true, DefaultPinned: api.PinLeft},
	{ID: "date", Header: "Date", Kind: api.KindDate, Width: 12, EnableSorting: true, EnableHiding: true},
	{ID: "open", Header: "Open", Kind: api.KindNumber, Width: 10, Group: "Prices", EnableSorting: true, EnableGlobalFilter: true, EnableHiding: true},
	{ID: "high", Header: "High", Kind: api.KindNumber, Width: 10, Group: "Prices", EnableSorting: true, EnableGlobalFilter: true, EnableHiding: true},
	{ID: "low", Header: "Low", Kind: api.KindNumber, Width: 10, Group: "Prices", EnableSorting: true, EnableGlobalFilter: true, EnableHiding: true},
	{ID: "close", Header: "Close", Kind: api.KindNumber, Width: 10, Group: "Prices", EnableSorting: true, EnableGlobalFilter: true, EnableHiding: true},
	{ID: "volume", Header: "Volume", Kind: api.KindNumber, Width: 14, Group: "Trading", EnableSorting: true, EnableHiding: true},
}}

// Houses is the house price schema.
var Houses = api.Schema{Name: "houses", Columns: []api.Column{
	{ID: "price", Header: "Price", Kind: api.KindNumber, Width: 12, EnableSorting: true, DefaultPinned: api.PinLeft},
	{ID: "area", Header: "Area (sqft)", Kind: api.KindNumber, Width: 11, EnableSorting: true, EnableHiding: true},
	{ID: "bedrooms", Header: "Bedrooms", Kind: api.KindNumber, Width: 8, EnableSorting: true, EnableHiding: true},
	{ID: "bathrooms", Header: "Bathrooms", Kind: api.KindNumber, Width: 9, EnableSorting: true, EnableHiding: true},
	{ID: "stories", Header: "Stories", Kind: api.KindNumber, Width: 7, EnableSorting: true, EnableGlobalFilter: true, EnableHiding: true},
	{ID: "furnishingstatus", Header: "Furnishing", Kind: api.KindString, Width: 14, EnableSorting: true, EnableHiding: true},
	{ID: "mainroad", Header: "Main Road", Kind: api.KindBool, Width: 9, Group: "Features", EnableSorting: true, EnableHiding: true},
	{ID: "guestroom", Header: "Guest Room", Kind: api.KindBool, Width: 10, Group: "Features", EnableSorting: true, EnableHiding: true, DefaultHidden: true},
	{ID: "basement", Header: "Basement", Kind: api.KindBool, Width: 8, Group: "Features", EnableSorting: true, EnableHiding: true, DefaultHidden: true},
	{ID: "hotwaterheating", Header: "Hot Water", Kind: api.KindBool, Width: 9, Group: "Features", EnableSorting: true, EnableHiding: true, DefaultHidden: true},
	{ID: "airconditioning", Header: "AC", Kind: api.KindBool, Width: 4, Group: "Features", EnableSorting: true, EnableHiding: true},
	{ID: "parking", Header: "Parking", Kind: api.KindNumber, Width: 7, EnableSorting: true, EnableGlobalFilter: true, EnableHiding: true},
	{ID: "prefarea", Header: "Preferred Area", Kind: api.KindBool, Width: 14, Group: "Features", EnableSorting: true, EnableHiding: true},
}}

// Builtin returns a registered schema by name.
func Builtin(name string) (api.Schema, bool) {
	switch name {
	case Stocks.Name:
		return Stocks, true
	case Houses.Name:
		return Houses, true
	}
	return api.Schema{}, false
}

// BuiltinNames lists the registered schema names.
func BuiltinNames() []string { return []string{Stocks.Name, Houses.Name} }
