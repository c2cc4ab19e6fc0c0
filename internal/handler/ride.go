package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sharefare/backend/internal/domain"
)

// CreateRide handles POST /api/rides/add.
func (s *Server) CreateRide(w http.ResponseWriter, r *http.Request) {
	var body createRideRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		requestBody(w, "invalid JSON body")
		return
	}

	ride, err := body.toDomain()
	if err != nil {
		requestBody(w, err.Error())
		return
	}

	created, err := s.rides.Create(r.Context(), ride)
	if err != nil {
		respondError(w, err, "ride not found")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListRides handles GET /api/rides.
// Returns every ride, newest first. Ownership filtering and display
// truncation are client concerns.
func (s *Server) ListRides(w http.ResponseWriter, r *http.Request) {
	rides, err := s.rides.List(r.Context())
	if err != nil {
		respondError(w, err, "ride not found")
		return
	}
	writeJSON(w, http.StatusOK, rides)
}

// FindRides handles POST /api/rides/find.
func (s *Server) FindRides(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Pickup      string `json:"pickup"`
		Destination string `json:"destination"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		requestBody(w, "invalid JSON body")
		return
	}

	rides, err := s.rides.Search(r.Context(), body.Pickup, body.Destination)
	if err != nil {
		respondError(w, err, "ride not found")
		return
	}
	writeJSON(w, http.StatusOK, rides)
}

// ListMyRides handles GET /api/rides/my/{creatorID}.
func (s *Server) ListMyRides(w http.ResponseWriter, r *http.Request) {
	rides, err := s.rides.ListByCreator(r.Context(), chi.URLParam(r, "creatorID"))
	if err != nil {
		respondError(w, err, "ride not found")
		return
	}
	writeJSON(w, http.StatusOK, rides)
}

// GetRide handles GET /api/rides/{rideID}.
func (s *Server) GetRide(w http.ResponseWriter, r *http.Request) {
	id, ok := rideID(w, r)
	if !ok {
		return
	}

	ride, err := s.rides.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, "ride not found")
		return
	}
	writeJSON(w, http.StatusOK, ride)
}

// DeleteRide handles DELETE /api/rides/{rideID}.
// Deletion is permanent; pending requesters are not notified and simply see
// not-found on their next fetch.
func (s *Server) DeleteRide(w http.ResponseWriter, r *http.Request) {
	id, ok := rideID(w, r)
	if !ok {
		return
	}

	if err := s.rides.Delete(r.Context(), id, callerID(r)); err != nil {
		respondError(w, err, "ride not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "ride deleted"})
}

// SubmitJoinRequest handles POST /api/rides/{rideID}/request.
// The new request's index is not returned; clients re-fetch the ride to
// observe pending requests and their positions.
func (s *Server) SubmitJoinRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := rideID(w, r)
	if !ok {
		return
	}

	var body struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		requestBody(w, "invalid JSON body")
		return
	}

	req := domain.JoinRequest{Name: body.Name, Contact: body.Contact, Message: body.Message}
	if _, err := s.rides.SubmitJoinRequest(r.Context(), id, req); err != nil {
		respondError(w, err, "ride not found")
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "join request sent"})
}

func (s *Server) acceptByIndex(w http.ResponseWriter, r *http.Request) {
	s.moderateByIndex(w, r, domain.JoinRequestAccepted)
}

func (s *Server) rejectByIndex(w http.ResponseWriter, r *http.Request) {
	s.moderateByIndex(w, r, domain.JoinRequestRejected)
}

func (s *Server) acceptByID(w http.ResponseWriter, r *http.Request) {
	s.moderateByID(w, r, domain.JoinRequestAccepted)
}

func (s *Server) rejectByID(w http.ResponseWriter, r *http.Request) {
	s.moderateByID(w, r, domain.JoinRequestRejected)
}

// moderateByIndex handles PATCH /api/rides/{rideID}/accept/{index} and
// PATCH /api/rides/{rideID}/reject/{index}.
func (s *Server) moderateByIndex(w http.ResponseWriter, r *http.Request, status domain.JoinRequestStatus) {
	id, ok := rideID(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		requestBody(w, "index must be an integer")
		return
	}

	if _, err := s.rides.ModerateByIndex(r.Context(), id, index, status, callerID(r)); err != nil {
		respondError(w, err, "ride not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "join request " + string(status)})
}

// moderateByID handles PATCH /api/rides/{rideID}/requests/{requestID}/accept
// and its reject counterpart.
func (s *Server) moderateByID(w http.ResponseWriter, r *http.Request, status domain.JoinRequestStatus) {
	id, ok := rideID(w, r)
	if !ok {
		return
	}

	requestID, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "join request not found")
		return
	}

	if _, err := s.rides.ModerateByID(r.Context(), id, requestID, status, callerID(r)); err != nil {
		respondError(w, err, "ride or join request not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "join request " + string(status)})
}

// rideID extracts and parses the {rideID} path segment. A malformed id can
// never address a ride, so it is reported the same way as an unknown one.
func rideID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "rideID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "ride not found")
		return uuid.UUID{}, false
	}
	return id, true
}

// --- request mapping --------------------------------------------------------

// createRideRequest is the wire shape of POST /api/rides/add.
// Seat counts and coordinates arrive as strings from the form-driven client,
// and datetime comes in the datetime-local format without a zone, so each
// field tolerant of that has its own decoding.
type createRideRequest struct {
	Name              string      `json:"name"`
	Contact           string      `json:"contact"`
	Pickup            string      `json:"pickup"`
	Destination       string      `json:"destination"`
	PickupCoords      *coordsBody `json:"pickupCoords"`
	DestinationCoords *coordsBody `json:"destinationCoords"`
	SeatsAvailable    flexInt     `json:"seatsAvailable"`
	Datetime          string      `json:"datetime"`
	Notes             string      `json:"notes"`
	CreatorID         string      `json:"creatorId"`
}

// toDomain converts the request body into a domain.Ride, parsing the
// loosely-typed fields. Field-presence validation stays in the service.
func (b createRideRequest) toDomain() (domain.Ride, error) {
	ride := domain.Ride{
		Name:           b.Name,
		Contact:        b.Contact,
		Pickup:         b.Pickup,
		Destination:    b.Destination,
		SeatsAvailable: int(b.SeatsAvailable),
		Notes:          b.Notes,
		CreatorID:      b.CreatorID,
	}

	if b.PickupCoords != nil {
		ride.PickupCoords = b.PickupCoords.toDomain()
	}
	if b.DestinationCoords != nil {
		ride.DestinationCoords = b.DestinationCoords.toDomain()
	}

	dt, err := parseDatetime(b.Datetime)
	if err != nil {
		return domain.Ride{}, err
	}
	ride.Datetime = dt

	return ride, nil
}

// coordsBody accepts {lat, lng} where each value may be a JSON number or a
// numeric string (geocoder responses carry strings).
type coordsBody struct {
	Lat flexFloat `json:"lat"`
	Lng flexFloat `json:"lng"`
}

func (c *coordsBody) toDomain() *domain.Coordinates {
	return &domain.Coordinates{Lat: float64(c.Lat), Lng: float64(c.Lng)}
}

// flexFloat decodes a JSON number or a numeric string into a float64.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", s)
	}
	*f = flexFloat(v)
	return nil
}

// flexInt decodes a JSON number or a numeric string into an int.
// An empty string means the field was left blank and decodes to zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer: %s", s)
	}
	*f = flexInt(v)
	return nil
}

// datetimeLayouts are accepted departure-time formats, tried in order:
// RFC3339 from API clients, then the zoneless datetime-local format the web
// form submits (interpreted as UTC).
var datetimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

func parseDatetime(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("datetime must be a valid timestamp")
}
