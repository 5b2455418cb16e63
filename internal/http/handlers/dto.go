package handlers

// SuccessResponse wraps a single resource.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ListResponse wraps a collection together with its size.
type ListResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Count   int  `json:"count"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportProductsResult struct {
	Imported int              `json:"imported"`
	Errors   []ImportRowError `json:"errors"`
}
