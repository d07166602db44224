package controllers

import (
	"context"
	"net/http"
	"prescriptions-service/internal/app/config"
	"prescriptions-service/internal/app/contracts"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/app/services/status_updates"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/fhir_dto"
	"prescriptions-service/internal/pkg/metrics"
	"prescriptions-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type PrescriptionController struct {
	Log                 *zap.Logger
	PrescriptionUsecase contracts.PrescriptionUsecase
	StatusUpdateClient  contracts.StatusUpdateClient
	InternalConfig      *config.InternalConfig
	Now                 func() time.Time
}

func NewPrescriptionController(
	logger *zap.Logger,
	prescriptionUsecase contracts.PrescriptionUsecase,
	statusUpdateClient contracts.StatusUpdateClient,
	internalConfig *config.InternalConfig,
) *PrescriptionController {
	return &PrescriptionController{
		Log:                 logger,
		PrescriptionUsecase: prescriptionUsecase,
		StatusUpdateClient:  statusUpdateClient,
		InternalConfig:      internalConfig,
		Now:                 time.Now,
	}
}

func (ctrl *PrescriptionController) GetMyPrescriptions(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("PrescriptionController.GetMyPrescriptions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	result := ctrl.PrescriptionUsecase.GetEnrichedPrescriptions(r.Context(), r.Header)
	for header, values := range result.Headers {
		for _, value := range values {
			w.Header().Set(header, value)
		}
	}

	if searchsetBundle, ok := result.Body.(*fhir_dto.Bundle); ok && result.StatusCode == constvars.StatusOK {
		ctrl.reconcileStatuses(r.Context(), searchsetBundle, result.StatusUpdateRequests)
	}

	ctrl.Log.Info("PrescriptionController.GetMyPrescriptions succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingStatusCodeKey, result.StatusCode),
	)
	utils.WriteFHIRResponse(w, result.StatusCode, result.Body)
}

func (ctrl *PrescriptionController) reconcileStatuses(ctx context.Context, searchsetBundle *fhir_dto.Bundle, requests []models.StatusUpdateRequest) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	expected := ctrl.InternalConfig.StatusUpdates.Enabled && ctrl.StatusUpdateClient != nil
	var payload *models.StatusUpdatePayload
	if expected {
		payload = ctrl.getStatusUpdates(ctx, requests)
	}

	scenario := status_updates.DetermineScenario(payload, expected)
	metrics.StatusUpdateScenariosTotal.WithLabelValues(string(scenario)).Inc()
	ctrl.Log.Info("PrescriptionController.reconcileStatuses scenario determined",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingScenarioKey, string(scenario)),
	)

	switch scenario {
	case status_updates.ScenarioPresent:
		status_updates.ApplyStatusUpdates(searchsetBundle, payload, ctrl.Now())
	case status_updates.ScenarioExpectedButAbsent:
		status_updates.ApplyTemporaryStatusUpdates(searchsetBundle, requests, ctrl.Now())
	}
}

// getStatusUpdates returns nil when the status service fails or is too
// slow. With nothing to ask about, every prescription is treated as not
// onboarded.
func (ctrl *PrescriptionController) getStatusUpdates(ctx context.Context, requests []models.StatusUpdateRequest) *models.StatusUpdatePayload {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if len(requests) == 0 {
		return &models.StatusUpdatePayload{
			SchemaVersion: constvars.StatusUpdateSchemaVersion,
			IsSuccess:     true,
		}
	}

	jobCtx := context.WithoutCancel(ctx)
	payload, err := utils.RunWithDeadline(ctrl.InternalConfig.Timeouts.StatusUpdate, func() (*models.StatusUpdatePayload, error) {
		return ctrl.StatusUpdateClient.GetStatusUpdates(jobCtx, requests)
	})
	if err != nil {
		if utils.IsTimeout(err) {
			metrics.DeadlinesExceededTotal.WithLabelValues(metrics.StageStatusUpdate).Inc()
		}
		ctrl.Log.Warn("PrescriptionController.getStatusUpdates call to status service unsuccessful",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil
	}
	return payload
}
