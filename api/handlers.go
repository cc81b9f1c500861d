package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"divvy/allocation"
	"divvy/models"
	"divvy/service"

	"github.com/gorilla/mux"
)

// JSON helpers

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusForError maps service errors to HTTP statuses. Infrastructure
// failures are wrapped with a "failed to" prefix by the service layer;
// everything else is a domain validation message.
func statusForError(err error) int {
	switch {
	case errors.Is(err, allocation.ErrInvalidReference), errors.Is(err, allocation.ErrInvalidPercentage):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case strings.HasPrefix(err.Error(), "failed to"):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}

// currentUser resolves the authenticated email to a user row
func (a *API) currentUser(r *http.Request) (*models.User, error) {
	claims := claimsFrom(r)
	if claims == nil {
		return nil, errors.New("no session")
	}
	return a.userService.GetOrCreateUser(r.Context(), claims.Email)
}

func eventIDFrom(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// Response shapes

type eventResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Currency    string    `json:"currency"`
	TotalAmount string    `json:"total_amount"`
	Status      string    `json:"status"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type participantResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Share       string `json:"share"`
	ShareCents  int64  `json:"share_cents"`
}

type pledgeResponse struct {
	ID            int64  `json:"id"`
	ParticipantID int64  `json:"participant_id"`
	Kind          string `json:"kind"`
	ValueType     string `json:"value_type"`
	Value         int64  `json:"value"`
	Active        bool   `json:"active"`
}

func toEventResponse(e *models.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Currency:    e.Currency,
		TotalAmount: allocation.FormatCents(e.TotalAmount),
		Status:      string(e.Status),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// Handlers

func (a *API) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.eventService.ListEvents(r.Context())
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, toEventResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Currency    string `json:"currency"`
		TotalAmount string `json:"total_amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	totalCents, err := allocation.ParseAmount(req.TotalAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := a.eventService.CreateEvent(r.Context(), user.ID, req.Title, req.Description, req.Currency, totalCents)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (a *API) handleEventDetail(w http.ResponseWriter, r *http.Request) {
	eventID, err := eventIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	detail, err := a.eventService.GetEventDetail(r.Context(), eventID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	shares, err := a.allocationService.ComputeForEvent(r.Context(), eventID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	participants := make([]participantResponse, 0, len(detail.Participants))
	for _, p := range detail.Participants {
		participants = append(participants, participantResponse{
			ID:          p.ID,
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			Share:       allocation.FormatCents(shares[p.ID]),
			ShareCents:  shares[p.ID],
		})
	}

	pledges := make([]pledgeResponse, 0, len(detail.Pledges))
	for _, p := range detail.Pledges {
		pledges = append(pledges, pledgeResponse{
			ID:            p.ID,
			ParticipantID: p.ParticipantID,
			Kind:          string(p.Kind),
			ValueType:     string(p.ValueType),
			Value:         p.Value,
			Active:        p.Active,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"event":        toEventResponse(detail.Event),
		"participants": participants,
		"pledges":      pledges,
	})
}

func (a *API) handleFinalizeEvent(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	eventID, err := eventIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := a.eventService.FinalizeEvent(r.Context(), eventID, user.ID); err != nil {
		a.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(models.EventStatusFinalized)})
}

func (a *API) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	eventID, err := eventIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	invite, err := a.inviteService.CreateInvite(r.Context(), eventID, user.ID, req.Email)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token":      invite.Token,
		"expires_at": invite.TokenExpiresAt,
	})
}

func (a *API) handleJoinEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := eventIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	token := mux.Vars(r)["token"]

	participant, err := a.inviteService.AcceptInvite(r.Context(), eventID, token)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"participant_id": participant.ID,
		"display_name":   participant.DisplayName,
	})
}

func (a *API) handleCreatePledge(w http.ResponseWriter, r *http.Request) {
	if _, err := a.currentUser(r); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	eventID, err := eventIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req struct {
		ParticipantID int64   `json:"participant_id"`
		Kind          string  `json:"kind"`
		ValueType     string  `json:"value_type"`
		Value         float64 `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Fixed values arrive as decimal amounts, percentages as decimal
	// percent; both are stored as integers.
	valueType := models.PledgeValueType(req.ValueType)
	var value int64
	switch valueType {
	case models.PledgeValueFixed:
		value = allocation.Cents(req.Value)
	case models.PledgeValuePercent:
		value = allocation.PercentToBasisPoints(req.Value)
	}

	pledge, err := a.pledgeService.CreatePledge(r.Context(), eventID, req.ParticipantID, models.PledgeKind(req.Kind), valueType, value)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, pledgeResponse{
		ID:            pledge.ID,
		ParticipantID: pledge.ParticipantID,
		Kind:          string(pledge.Kind),
		ValueType:     string(pledge.ValueType),
		Value:         pledge.Value,
		Active:        pledge.Active,
	})
}

func (a *API) handleActivatePledge(w http.ResponseWriter, r *http.Request) {
	a.setPledgeActive(w, r, true)
}

func (a *API) handleDeactivatePledge(w http.ResponseWriter, r *http.Request) {
	a.setPledgeActive(w, r, false)
}

func (a *API) setPledgeActive(w http.ResponseWriter, r *http.Request, active bool) {
	user, err := a.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	eventID, err := eventIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	pledgeID, err := strconv.ParseInt(mux.Vars(r)["pledgeID"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pledge id")
		return
	}

	if err := a.pledgeService.SetPledgeActive(r.Context(), eventID, pledgeID, user.ID, active); err != nil {
		a.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"active": active})
}

func (a *API) handleChartData(w http.ResponseWriter, r *http.Request) {
	eventID, err := eventIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	chart, err := a.allocationService.ChartData(r.Context(), eventID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chart)
}
