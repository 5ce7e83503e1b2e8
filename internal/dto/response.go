package dto

// Envelope is the uniform response body: {code, status, message, data}.
type Envelope struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationEnvelope carries a field -> message map for binding failures.
type ValidationEnvelope struct {
	Code    int               `json:"code"`
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Page wraps a collection with the pagination block clients expect.
type Page struct {
	Data        any `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

func NewPage(data any, page, perPage, total int) Page {
	lastPage := 1
	if total > 0 {
		lastPage = (total + perPage - 1) / perPage
	}
	return Page{
		Data:        data,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
}
