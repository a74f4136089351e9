package model

// Stakeholder is an organisation or group involved in a document.
type Stakeholder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DocumentType classifies documents (design, prescriptive, agreement, ...).
type DocumentType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
