// Package handler — export.go implements GET /api/rides/my/{creatorID}/export.
// Returns one flat row per join request across the creator's rides.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sharefare/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"ride_id", "pickup", "destination", "datetime", "seats_available",
	"request_id", "requester_name", "request_contact", "request_message",
	"request_status", "requested_at",
}

// ExportMyRides handles GET /api/rides/my/{creatorID}/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportMyRides(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.ExportByCreator(r.Context(), chi.URLParam(r, "creatorID"))
	if err != nil {
		respondError(w, err, "ride not found")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, exportRowsToResponse(rows))
}

// writeCSV streams the export as text/csv.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="rides.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeaders)
	for _, r := range rows {
		_ = cw.Write(exportRowToCSVRecord(r))
	}
	cw.Flush()
}

// exportRow is the JSON wire shape of one export row.
type exportRow struct {
	RideID         string     `json:"rideId"`
	Pickup         string     `json:"pickup"`
	Destination    string     `json:"destination"`
	Datetime       *time.Time `json:"datetime,omitempty"`
	SeatsAvailable int        `json:"seatsAvailable"`
	RequestID      string     `json:"requestId,omitempty"`
	RequesterName  string     `json:"requesterName,omitempty"`
	RequestContact string     `json:"requestContact,omitempty"`
	RequestMessage string     `json:"requestMessage,omitempty"`
	RequestStatus  string     `json:"requestStatus,omitempty"`
	RequestedAt    *time.Time `json:"requestedAt,omitempty"`
}

func exportRowsToResponse(rows []domain.ExportRow) []exportRow {
	out := make([]exportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, exportRow{
			RideID:         r.RideID,
			Pickup:         r.Pickup,
			Destination:    r.Destination,
			Datetime:       r.Datetime,
			SeatsAvailable: r.Seats,
			RequestID:      r.RequestID,
			RequesterName:  r.RequesterName,
			RequestContact: r.RequestContact,
			RequestMessage: r.RequestMessage,
			RequestStatus:  r.RequestStatus,
			RequestedAt:    r.RequestedAt,
		})
	}
	return out
}

// exportRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Nil time pointers are encoded as empty strings.
func exportRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.RideID,
		r.Pickup,
		r.Destination,
		formatOptionalTime(r.Datetime),
		strconv.Itoa(r.Seats),
		r.RequestID,
		r.RequesterName,
		r.RequestContact,
		r.RequestMessage,
		r.RequestStatus,
		formatOptionalTime(r.RequestedAt),
	}
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
