package filterstate

import "github.com/mithrel/gridspike/internal/params"

// ControlKind says how a control's raw value becomes a filter value.
type ControlKind string

const (
	KindSelect    ControlKind = "select"    // exact match, "all" disables
	KindThreshold ControlKind = "threshold" // column >= value
	KindRangeMin  ControlKind = "rangeMin"
	KindRangeMax  ControlKind = "rangeMax"
	KindDateFrom  ControlKind = "dateFrom"
	KindDateTo    ControlKind = "dateTo"
)

// Control binds a persisted key to the column it filters.
type Control struct {
	Key     string      `json:"key"`
	Column  string      `json:"column"`
	Kind    ControlKind `json:"kind"`
	Label   string      `json:"label"`
	Default string      `json:"default"`
	// Options lists fixed choices for a select or threshold control. When
	// empty, choices come from the data.
	Options []string `json:"options,omitempty"`
}

// StockControls drive the stocks grid.
var StockControls = []Control{
	{Key: params.KeySymbol, Column: "Name", Kind: KindSelect, Label: "Symbol", Default: params.All},
	{Key: params.KeyVolumeThreshold, Column: "volume", Kind: KindThreshold, Label: "Min volume", Default: params.All,
		Options: []string{"1000000", "5000000", "10000000", "50000000"}},
	{Key: params.KeyDateFrom, Column: "date", Kind: KindDateFrom, Label: "From"},
	{Key: params.KeyDateTo, Column: "date", Kind: KindDateTo, Label: "To"},
}

// HouseControls drive the houses grid.
var HouseControls = []Control{
	{Key: params.KeyBedrooms, Column: "bedrooms", Kind: KindSelect, Label: "Bedrooms", Default: params.All},
	{Key: params.KeyBathrooms, Column: "bathrooms", Kind: KindSelect, Label: "Bathrooms", Default: params.All},
	{Key: params.KeyFurnishingStatus, Column: "furnishingstatus", Kind: KindSelect, Label: "Furnishing", Default: params.All,
		Options: []string{"furnished", "semi-furnished", "unfurnished"}},
	{Key: params.KeyPriceMin, Column: "price", Kind: KindRangeMin, Label: "Min price"},
	{Key: params.KeyPriceMax, Column: "price", Kind: KindRangeMax, Label: "Max price"},
	{Key: params.KeyAreaMin, Column: "area", Kind: KindRangeMin, Label: "Min area"},
	{Key: params.KeyAreaMax, Column: "area", Kind: KindRangeMax, Label: "Max area"},
}

// ControlsFor returns the controls registered for a dataset schema name.
func ControlsFor(schema string) []Control {
	switch schema {
	case "stocks":
		return StockControls
	case "houses":
		return HouseControls
	}
	return nil
}
