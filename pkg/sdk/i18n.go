package sdk

// I18n is the locale context a command runs under.
type I18n struct {
	Locale   string  `json:"locale,omitempty" mapstructure:"locale"`
	Timezone string  `json:"timezone,omitempty" mapstructure:"timezone"`
	Location *LatLng `json:"location,omitempty" mapstructure:"location"`
}

// LatLng is a geographic coordinate.
type LatLng struct {
	Lat float64 `json:"lat" mapstructure:"lat"`
	Lng float64 `json:"lng" mapstructure:"lng"`
}
