package v1

import (
	"github.com/evyataryagoni/locationsurvey/internal/handler"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures all v1 API routes
// This function is called by the main router to setup /v1/* endpoints
//
// Parameters:
//   - refData: countries, states, cities and the survey definition
//   - forms: form session lifecycle
//
// Returns:
//   - chi.Router: configured v1 router
func SetupRoutes(refData *handler.RefDataHandler, forms *handler.FormHandler) chi.Router {
	r := chi.NewRouter()

	r.Get("/survey", refData.SurveyDefinition)

	r.Route("/countries", func(r chi.Router) {
		r.Get("/", refData.ListCountries)
		r.Get("/{code}", refData.GetCountry)
		r.Get("/{code}/states", refData.ListStates)
		r.Get("/{code}/states/{state}/cities", refData.ListCities)
	})

	r.Route("/forms", func(r chi.Router) {
		r.Post("/", forms.Create)
		r.Get("/{id}", forms.Get)
		r.Delete("/{id}", forms.Delete)
		r.Put("/{id}/fields/{field}", forms.SetField)
		r.Post("/{id}/submit", forms.Submit)
	})

	return r
}
