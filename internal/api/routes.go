package api

import "github.com/go-chi/chi/v5"

// Handlers groups the handlers mounted under /api.
type Handlers struct {
	Words     *WordHandler
	Exercises *ExerciseHandler
	Progress  *ProgressHandler
}

// Mount registers the authenticated API routes on r. Authentication
// middleware must already be installed on r.
func (h Handlers) Mount(r chi.Router) {
	r.Route("/words", func(r chi.Router) {
		r.Post("/", h.Words.AddWord)
		r.Get("/", h.Words.ListWords)
		r.Get("/due", h.Words.GetDueWords)
		r.Get("/{id}", h.Words.GetWord)
		r.Put("/{id}", h.Words.UpdateWord)
		r.Delete("/{id}", h.Words.DeleteWord)
		r.Post("/{id}/review", h.Words.ReviewWord)
	})

	r.Route("/exercises", func(r chi.Router) {
		r.Post("/generate", h.Exercises.Generate)
		r.Get("/", h.Exercises.List)
		r.Post("/{id}/submit", h.Exercises.Submit)
	})

	r.Post("/check-in", h.Progress.CheckIn)
	r.Get("/check-in", h.Progress.CheckInStatus)
	r.Get("/progress", h.Progress.Summary)
	r.Get("/activities", h.Progress.Activities)
}
