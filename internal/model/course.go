package model

// Course is one entry of the static course catalog.
type Course struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}
