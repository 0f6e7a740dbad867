package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bcgov/sbc-queue-session/internal/errs"
	"github.com/bcgov/sbc-queue-session/locations"
	"github.com/bcgov/sbc-queue-session/staff"
)

type currentLocationResponse struct {
	GUID     string              `json:"guid"`
	Role     staff.RoleType      `json:"role"`
	IsActive bool                `json:"is_active"`
	Location *locations.Location `json:"location"`
}

type currentLocationPatch struct {
	LocationID *int64 `json:"location_id"`
}

// ProtectedHandler echoes the identity derived from the request credential.
func (s *Server) ProtectedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac := AuthFromContext(r.Context())
		respondJSON(w, http.StatusOK, map[string]any{
			"user":     ac.User,
			"roles":    ac.Roles,
			"hasToken": ac.Token != "",
		})
	}
}

// CurrentLocationGetHandler returns the caller's staff record and its
// assigned office, if any.
func (s *Server) CurrentLocationGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac := AuthFromContext(r.Context())

		staffUser, err := s.repos.Staff.GetByGUID(r.Context(), ac.User.IdirUserGUID)
		if err != nil {
			if errors.Is(err, errs.ErrStaffUserNotFound) {
				respondError(w, http.StatusNotFound, "Staff user not found", "No staff record for the current user.")
				return
			}
			log.Error().Err(err).Msg("failed to load staff user")
			respondError(w, http.StatusInternalServerError, "Internal server error", "Could not load staff record.")
			return
		}

		resp, err := s.currentLocationFor(r, staffUser)
		if err != nil {
			log.Error().Err(err).Msg("failed to load location")
			respondError(w, http.StatusInternalServerError, "Internal server error", "Could not load location.")
			return
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// CurrentLocationPatchHandler reassigns the caller's office. Archived staff
// cannot change assignment.
func (s *Server) CurrentLocationPatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac := AuthFromContext(r.Context())

		var patch currentLocationPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid body", "Request body must be JSON with a location_id field.")
			return
		}

		staffUser, err := s.repos.Staff.GetByGUID(r.Context(), ac.User.IdirUserGUID)
		if err != nil {
			if errors.Is(err, errs.ErrStaffUserNotFound) {
				respondError(w, http.StatusNotFound, "Staff user not found", "No staff record for the current user.")
				return
			}
			log.Error().Err(err).Msg("failed to load staff user")
			respondError(w, http.StatusInternalServerError, "Internal server error", "Could not load staff record.")
			return
		}
		if staffUser.IsArchived() {
			respondError(w, http.StatusForbidden, "Staff user archived", "Archived staff cannot change their location.")
			return
		}

		if patch.LocationID != nil {
			if _, err := s.repos.Locations.Get(r.Context(), *patch.LocationID); err != nil {
				if errors.Is(err, errs.ErrLocationNotFound) {
					respondError(w, http.StatusNotFound, "Location not found", "The requested location does not exist.")
					return
				}
				log.Error().Err(err).Msg("failed to load location")
				respondError(w, http.StatusInternalServerError, "Internal server error", "Could not load location.")
				return
			}
		}

		if err := s.repos.Staff.SetLocation(r.Context(), staffUser.GUID, patch.LocationID); err != nil {
			log.Error().Err(err).Msg("failed to update staff location")
			respondError(w, http.StatusInternalServerError, "Internal server error", "Could not update location.")
			return
		}
		staffUser.LocationID = patch.LocationID

		resp, err := s.currentLocationFor(r, staffUser)
		if err != nil {
			log.Error().Err(err).Msg("failed to load location")
			respondError(w, http.StatusInternalServerError, "Internal server error", "Could not load location.")
			return
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) currentLocationFor(r *http.Request, staffUser *staff.StaffUser) (*currentLocationResponse, error) {
	resp := &currentLocationResponse{
		GUID:     staffUser.GUID,
		Role:     staffUser.Role,
		IsActive: staffUser.IsActive,
	}
	if staffUser.LocationID == nil {
		return resp, nil
	}
	location, err := s.repos.Locations.Get(r.Context(), *staffUser.LocationID)
	if err != nil {
		if errors.Is(err, errs.ErrLocationNotFound) {
			// Assignment points at a removed office; report no location
			// rather than failing the whole read.
			return resp, nil
		}
		return nil, err
	}
	resp.Location = location
	return resp, nil
}
