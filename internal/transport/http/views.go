package http

import (
	"encoding/json"
	"net/http"

	"animation-quiz/internal/app"
	"animation-quiz/internal/domain"
)

type questionView struct {
	ID           int      `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctIndex,omitempty"`
}

type stateView struct {
	Phase        domain.Phase    `json:"phase"`
	Position     int             `json:"position"`
	Questions    []questionView  `json:"questions"`
	Answers      []domain.Answer `json:"answers"`
	Answered     int             `json:"answered"`
	AudioEnabled bool            `json:"audioEnabled"`
	Result       *domain.Result  `json:"result,omitempty"`
}

// newStateView hides correct answers until the attempt is completed.
func newStateView(snap domain.Snapshot) stateView {
	view := stateView{
		Phase:        snap.Phase,
		Position:     snap.Position,
		Questions:    make([]questionView, 0, len(snap.Questions)),
		Answers:      snap.Answers,
		Answered:     snap.Answered,
		AudioEnabled: snap.AudioEnabled,
		Result:       snap.Result,
	}
	if view.Answers == nil {
		view.Answers = []domain.Answer{}
	}
	for _, q := range snap.Questions {
		qv := questionView{ID: q.ID, Prompt: q.Prompt, Options: q.Options}
		if snap.Phase == domain.PhaseCompleted {
			correct := q.CorrectIndex
			qv.CorrectIndex = &correct
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

// HistoryHandler serves a player's persisted results as JSON.
type HistoryHandler struct {
	service *app.QuizService
}

func NewHistoryHandler(service *app.QuizService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(historyPayload{Records: h.service.History(r.Context(), playerID)})
}
