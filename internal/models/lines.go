package models

// Line is a transit line as listed by the upstream reference data.
type Line struct {
	ID            string `json:"lineId"`
	Code          string `json:"lineCode"`
	Description   string `json:"description"`
	DescriptionEn string `json:"descriptionEn,omitempty"`
}

func NewLine(id, code, description, descriptionEn string) Line {
	return Line{
		ID:            id,
		Code:          code,
		Description:   description,
		DescriptionEn: descriptionEn,
	}
}

// Route is one direction of a Line.
type Route struct {
	Code        string `json:"routeCode"`
	LineCode    string `json:"lineCode,omitempty"`
	Description string `json:"description"`
}

func NewRoute(code, lineCode, description string) Route {
	return Route{
		Code:        code,
		LineCode:    lineCode,
		Description: description,
	}
}
