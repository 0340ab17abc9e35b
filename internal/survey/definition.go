package survey

import "github.com/evyataryagoni/locationsurvey/internal/models"

// Element is one node of the survey definition consumed by the renderer
type Element struct {
	Type             string    `json:"type"`
	Name             string    `json:"name"`
	Title            string    `json:"title,omitempty"`
	IsRequired       bool      `json:"isRequired,omitempty"`
	ReadOnly         bool      `json:"readOnly,omitempty"`
	Visible          *bool     `json:"visible,omitempty"`
	Width            string    `json:"width,omitempty"`
	StartWithNewLine *bool     `json:"startWithNewLine,omitempty"`
	Placeholder      string    `json:"placeholder,omitempty"`
	Choices          []Choice  `json:"choices,omitempty"`
	Elements         []Element `json:"elements,omitempty"`
}

// Definition is the static survey layout
type Definition struct {
	ShowQuestionNumbers string    `json:"showQuestionNumbers"`
	Elements            []Element `json:"elements"`
}

// NewDefinition builds the location panel with countries as dropdown choices
func NewDefinition(countries []models.Country) Definition {
	choices := make([]Choice, 0, len(countries))
	for _, c := range countries {
		choices = append(choices, Choice{Value: c.Code, Text: c.Name})
	}

	sameLine := false
	hidden := false

	return Definition{
		ShowQuestionNumbers: "off",
		Elements: []Element{
			{
				Type:  "panel",
				Name:  "locationSection",
				Title: "Location Details",
				Elements: []Element{
					{
						Type:       "dropdown",
						Name:       FieldCountry,
						Title:      "Country",
						IsRequired: true,
						Width:      "50%",
						Choices:    choices,
					},
					{
						Type:             "text",
						Name:             FieldPhone,
						Title:            "Phone Number",
						IsRequired:       true,
						Width:            "50%",
						StartWithNewLine: &sameLine,
					},
					{
						Type:        "dropdown",
						Name:        FieldState,
						Title:       "State/Province",
						IsRequired:  true,
						Width:       "50%",
						Placeholder: PlaceholderSelectCountryFirst,
					},
					{
						Type:             "dropdown",
						Name:             FieldCity,
						Title:            "City",
						IsRequired:       true,
						Width:            "50%",
						StartWithNewLine: &sameLine,
						Placeholder:      PlaceholderSelectStateFirst,
					},
					{
						Type:     "text",
						Name:     FieldCountryIso,
						ReadOnly: true,
						Visible:  &hidden,
					},
					{
						Type:     "text",
						Name:     FieldCountryFlag,
						ReadOnly: true,
						Visible:  &hidden,
					},
				},
			},
		},
	}
}
