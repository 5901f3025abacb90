package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/theirongolddev/lifesim/internal/model"
	"github.com/theirongolddev/lifesim/internal/projection"
	"github.com/theirongolddev/lifesim/internal/scenario"
)

const maxBodyBytes = 1 << 20

type itemRequest struct {
	Name      string  `json:"name" validate:"required"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Frequency string  `json:"frequency" validate:"omitempty,oneof=yearly monthly daily"`
	StartAge  int     `json:"start_age" validate:"gte=0,lte=150"`
	EndAge    *int    `json:"end_age" validate:"omitempty,gte=0,lte=150"`
}

func (ir itemRequest) entry() scenario.ItemEntry {
	return scenario.ItemEntry{
		Name:      ir.Name,
		Amount:    ir.Amount,
		Frequency: ir.Frequency,
		StartAge:  ir.StartAge,
		EndAge:    ir.EndAge,
	}
}

type createSessionRequest struct {
	Name     string        `json:"name" validate:"required"`
	Age      *int          `json:"age" validate:"required,gte=0,lte=150"`
	Capital  float64       `json:"capital"`
	Backward string        `json:"backward" validate:"omitempty,oneof=fallback invert"`
	Expenses []itemRequest `json:"expenses" validate:"dive"`
	Incomes  []itemRequest `json:"incomes" validate:"dive"`
}

func (req createSessionRequest) toScenario() *scenario.Scenario {
	sc := &scenario.Scenario{
		Person: scenario.PersonEntry{Name: req.Name, Age: *req.Age, Capital: req.Capital},
	}
	for _, it := range req.Expenses {
		sc.Expenses = append(sc.Expenses, it.entry())
	}
	for _, it := range req.Incomes {
		sc.Incomes = append(sc.Incomes, it.entry())
	}
	return sc
}

// sessionView is the JSON form of a session.
type sessionView struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Age       int          `json:"age"`
	Capital   float64      `json:"capital"`
	Balance   float64      `json:"balance"`
	Backward  string       `json:"backward"`
	Expenses  []model.Item `json:"expenses"`
	Incomes   []model.Item `json:"incomes"`
	CreatedAt time.Time    `json:"created_at"`
}

func viewOf(id string, sess *session) sessionView {
	p := sess.engine.Snapshot()
	return sessionView{
		ID:        id,
		Name:      p.Name,
		Age:       p.Age,
		Capital:   p.Capital,
		Balance:   p.CurrentBalance(),
		Backward:  sess.engine.BackwardMode().String(),
		Expenses:  nonNil(p.Expenses),
		Incomes:   nonNil(p.Incomes),
		CreatedAt: sess.created,
	}
}

func nonNil(items []model.Item) []model.Item {
	if items == nil {
		return []model.Item{}
	}
	return items
}

type balanceResponse struct {
	Age          int     `json:"age"`
	Balance      float64 `json:"balance"`
	Source       string  `json:"source"`
	Approximated bool    `json:"approximated"`
}

type reportResponse struct {
	Rows         []projection.Row `json:"rows"`
	DepletionAge *int             `json:"depletion_age"`
}

// decode reads a JSON body into v and validates it.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if err := requestCheck.Struct(v); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{Type: "hello", Timestamp: time.Now()})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	slices.Sort(ids)

	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Service) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, err := projection.ParseBackwardMode(req.Backward)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, sess, err := s.createSession(req.toScenario(), projection.WithBackwardMode(mode))
	switch {
	case errors.Is(err, errCapacity):
		writeError(w, http.StatusTooManyRequests, err)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.log.Info("session created", "session", id, "name", req.Name)

	sess.mu.Lock()
	view := viewOf(id, sess)
	sess.mu.Unlock()
	w.Header().Set("Location", "/v1/sessions/"+id)
	writeJSON(w, http.StatusCreated, view)
}

func (s *Service) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session) {
		writeJSON(w, http.StatusOK, viewOf(id, sess))
	})
}

func (s *Service) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.deleteSession(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleAddItem(role model.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		it, err := req.entry().Item()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		var added bool
		s.withSession(w, r, func(id string, sess *session) {
			sess.engine.Add(role, it)
			added = true
			writeJSON(w, http.StatusCreated, viewOf(id, sess))
		})
		if added {
			s.publishEvent(string(role)+"_added", r.PathValue("id"), it.Name)
		}
	}
}

func (s *Service) handleBalance(w http.ResponseWriter, r *http.Request) {
	age, ok, err := requestedAge(r, "age")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("age is required"))
		return
	}

	s.withSession(w, r, func(_ string, sess *session) {
		proj := sess.engine.Project(age)
		s.metrics.projections.WithLabelValues(proj.Source.String()).Inc()
		writeJSON(w, http.StatusOK, balanceResponse{
			Age:          proj.Age,
			Balance:      proj.Balance,
			Source:       proj.Source.String(),
			Approximated: proj.Approximated(),
		})
	})
}

func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(_ string, sess *session) {
		writeJSON(w, http.StatusOK, sess.engine.Points())
	})
}

// handleReport projects up to ?to= when given, then reports every memoized
// year.
func (s *Service) handleReport(w http.ResponseWriter, r *http.Request) {
	to, ok, err := requestedAge(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.withSession(w, r, func(_ string, sess *session) {
		if ok {
			sess.engine.ProjectRange(to)
		}
		resp := reportResponse{Rows: sess.engine.Report()}
		if age, found := sess.engine.DepletionAge(); found {
			resp.DepletionAge = &age
		}
		writeJSON(w, http.StatusOK, resp)
	})
}
