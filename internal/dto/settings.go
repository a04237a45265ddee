package dto

type AdminSettings struct {
	StoreName             string  `json:"store_name"`
	SupportEmail          string  `json:"support_email"`
	Currency              string  `json:"currency"`
	TaxRate               float64 `json:"tax_rate"`
	FreeShippingThreshold float64 `json:"free_shipping_threshold"`
	MaintenanceMode       bool    `json:"maintenance_mode"`
}
