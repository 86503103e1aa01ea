package models

// Fundamentals holds descriptive metadata for one ticker
type Fundamentals struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
}
