package handler

import (
	"net/http"

	"github.com/pkordes/daytrip/internal/domain"
)

// CountdownResponse is the header clock. ShipDeparture is informational: the
// countdown itself stops at the all-aboard time.
type CountdownResponse struct {
	domain.Countdown
	ShipDeparture string `json:"ship_departure,omitempty"`
}

// GetCountdown handles GET /countdown.
func (s *Server) GetCountdown(w http.ResponseWriter, _ *http.Request) {
	resp := CountdownResponse{Countdown: s.svc.Countdown.Current()}
	if s.svc.ShipDeparture != 0 {
		resp.ShipDeparture = s.svc.ShipDeparture.String()
	}
	writeJSON(w, http.StatusOK, resp)
}
