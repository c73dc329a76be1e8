package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lexi-api/internal/api/shared"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/phrazzld/lexi-api/internal/service"
)

// WordHandler handles vocabulary requests.
type WordHandler struct {
	vocab  service.VocabularyService
	logger *slog.Logger
}

// NewWordHandler creates a new WordHandler.
func NewWordHandler(vocab service.VocabularyService, logger *slog.Logger) *WordHandler {
	if vocab == nil {
		panic("vocab cannot be nil for WordHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WordHandler{
		vocab:  vocab,
		logger: logger.With(slog.String("component", "word_handler")),
	}
}

// AddWord handles POST /words.
func (h *WordHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	var req AddWordRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}

	word, err := h.vocab.AddWord(r.Context(), userID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add word")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, word)
}

// ListWords handles GET /words?limit=&offset=.
func (h *WordHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	words, err := h.vocab.ListWords(r.Context(), userID, service.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list words")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, WordListResponse{
		Words:  words,
		Count:  len(words),
		Limit:  limit,
		Offset: offset,
	})
}

// GetDueWords handles GET /words/due.
func (h *WordHandler) GetDueWords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	words, err := h.vocab.GetDueWords(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due words")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, WordListResponse{Words: words, Count: len(words)})
}

// GetWord handles GET /words/{id}.
func (h *WordHandler) GetWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, wordID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	word, err := h.vocab.GetWord(r.Context(), userID, wordID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get word")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, word)
}

// UpdateWord handles PUT /words/{id}.
func (h *WordHandler) UpdateWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, wordID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateWordRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}

	word, err := h.vocab.UpdateWord(r.Context(), userID, wordID, req.toUpdate())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update word")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, word)
}

// DeleteWord handles DELETE /words/{id}.
func (h *WordHandler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, wordID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.vocab.DeleteWord(r.Context(), userID, wordID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete word")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReviewWord handles POST /words/{id}/review.
func (h *WordHandler) ReviewWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, wordID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req ReviewWordRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}

	word, err := h.vocab.UpdateSrsData(r.Context(), userID, wordID, *req.Quality)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to review word")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, word)
}
