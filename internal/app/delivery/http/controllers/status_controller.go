package controllers

import (
	"context"
	"net/http"
	"prescriptions-service/internal/app/config"
	"prescriptions-service/internal/app/contracts"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

const (
	statusCheckSpine         = "spine"
	statusCheckServiceSearch = "serviceSearch"
)

type StatusController struct {
	Log                 *zap.Logger
	SpineClient         contracts.SpineClient
	ServiceSearchClient contracts.ServiceSearchClient
	InternalConfig      *config.InternalConfig
}

func NewStatusController(
	logger *zap.Logger,
	spineClient contracts.SpineClient,
	serviceSearchClient contracts.ServiceSearchClient,
	internalConfig *config.InternalConfig,
) *StatusController {
	return &StatusController{
		Log:                 logger,
		SpineClient:         spineClient,
		ServiceSearchClient: serviceSearchClient,
		InternalConfig:      internalConfig,
	}
}

// GetStatus checks both upstreams in parallel. The endpoint answers 200
// whatever the upstream state; the body carries the verdict.
func (ctrl *StatusController) GetStatus(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.InternalConfig.Timeouts.Pipeline)
	defer cancel()

	var spineStatus, serviceSearchStatus models.StatusCheckResponse
	var wg conc.WaitGroup
	wg.Go(func() {
		spineStatus = ctrl.SpineClient.GetStatus(ctx)
	})
	wg.Go(func() {
		serviceSearchStatus = ctrl.ServiceSearchClient.GetStatus(ctx)
	})
	wg.Wait()

	response := models.StatusResponse{
		Status:   worstStatus(spineStatus.Status, serviceSearchStatus.Status),
		CommitID: ctrl.InternalConfig.App.Version,
		Checks: map[string]models.StatusCheckResponse{
			statusCheckSpine:         spineStatus,
			statusCheckServiceSearch: serviceSearchStatus,
		},
	}

	ctrl.Log.Info("StatusController.GetStatus completed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOutcomeKey, response.Status),
	)

	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.Header().Set(constvars.HeaderCacheControl, constvars.CacheControlNoCache)
	w.WriteHeader(constvars.StatusOK)
	json.NewEncoder(w).Encode(response)
}

func worstStatus(statuses ...string) string {
	worst := constvars.StatusCheckPass
	for _, status := range statuses {
		switch status {
		case constvars.StatusCheckError:
			return constvars.StatusCheckError
		case constvars.StatusCheckWarn:
			worst = constvars.StatusCheckWarn
		}
	}
	return worst
}

