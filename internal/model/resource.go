package model

// Resource is a standalone learning resource managed by admins.
type Resource struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Link     string `json:"link"`
	Category string `json:"category"`
}

// ResourceRequest is the payload for POST /resources.
type ResourceRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Link     string `json:"link" binding:"required,url"`
	Category string `json:"category" binding:"required,max=100"`
}
