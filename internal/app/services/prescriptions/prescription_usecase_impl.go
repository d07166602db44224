package prescriptions

import (
	"context"
	"net/http"
	"prescriptions-service/internal/app/config"
	"prescriptions-service/internal/app/contracts"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/app/services/status_updates"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/exceptions"
	"prescriptions-service/internal/pkg/fhir_dto"
	"prescriptions-service/internal/pkg/fhir_utils"
	"prescriptions-service/internal/pkg/metrics"
	"prescriptions-service/internal/pkg/utils"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const pipelineDeadlineMargin = 50 * time.Millisecond

type prescriptionUsecase struct {
	SpineClient     contracts.SpineClient
	DistanceSelling contracts.DistanceSelling
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
}

func NewPrescriptionUsecase(
	spineClient contracts.SpineClient,
	distanceSelling contracts.DistanceSelling,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PrescriptionUsecase {
	return &prescriptionUsecase{
		SpineClient:     spineClient,
		DistanceSelling: distanceSelling,
		InternalConfig:  internalConfig,
		Log:             logger,
	}
}

// GetEnrichedPrescriptions never fails: every outcome, including an
// overrun of the pipeline deadline, is rendered as a FHIR response.
func (uc *prescriptionUsecase) GetEnrichedPrescriptions(ctx context.Context, headers http.Header) *models.PrescriptionsResult {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	startTime := time.Now()
	pipelineDeadline := startTime.Add(uc.InternalConfig.Timeouts.Pipeline)

	// Jobs outlive their deadline, so they must not see the caller's
	// cancellation.
	jobCtx := context.WithoutCancel(ctx)

	result, err := utils.RunWithDeadline(uc.InternalConfig.Timeouts.Pipeline, func() (*models.PrescriptionsResult, error) {
		return uc.run(jobCtx, headers, pipelineDeadline)
	})
	if err != nil {
		if utils.IsTimeout(err) {
			metrics.DeadlinesExceededTotal.WithLabelValues(metrics.StagePipeline).Inc()
		}
		uc.Log.Error("prescriptionUsecase.GetEnrichedPrescriptions pipeline failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		result = uc.errorResult(err, headers)
	}
	result.Headers = utils.TraceHeaders(headers)

	metrics.PipelineDuration.Observe(time.Since(startTime).Seconds())
	metrics.PipelineResponsesTotal.WithLabelValues(strconv.Itoa(result.StatusCode), outcomeLabel(result)).Inc()

	uc.Log.Info("prescriptionUsecase.GetEnrichedPrescriptions completed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingStatusCodeKey, result.StatusCode),
		zap.Duration(constvars.LoggingDurationKey, time.Since(startTime)),
	)
	return result
}

func (uc *prescriptionUsecase) run(ctx context.Context, headers http.Header, pipelineDeadline time.Time) (*models.PrescriptionsResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	nhsNumber, err := utils.ExtractNHSNumberFromHeaders(headers)
	if err != nil {
		uc.Log.Warn("prescriptionUsecase.run invalid NHS number",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return uc.errorResult(exceptions.ErrNHSNumberValidation(err), headers), nil
	}

	if !uc.InternalConfig.IsProduction() && slices.Contains(uc.InternalConfig.App.TestErrorNHSNumbers, nhsNumber) {
		uc.Log.Info("prescriptionUsecase.run test NHS number, returning server error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return uc.errorResult(exceptions.ErrSpineTestError(nhsNumber), headers), nil
	}

	if !uc.SpineClient.IsCertificateConfigured() {
		uc.Log.Error("prescriptionUsecase.run spine certificate is not configured",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return uc.errorResult(exceptions.ErrSpineCertNotConfigured(), headers), nil
	}

	spineTimeout := stageTimeout(uc.InternalConfig.Timeouts.Spine, pipelineDeadline)
	searchsetBundle, err := utils.RunWithDeadline(spineTimeout, func() (*fhir_dto.Bundle, error) {
		return uc.SpineClient.GetPrescriptions(ctx, nhsNumber, headers)
	})
	if err != nil {
		if utils.IsTimeout(err) {
			metrics.DeadlinesExceededTotal.WithLabelValues(metrics.StageSpine).Inc()
			uc.Log.Error("prescriptionUsecase.run spine request timed out",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Duration(constvars.LoggingTimeoutKey, spineTimeout),
			)
			return uc.errorResult(exceptions.ErrSpineTimeout(err), headers), nil
		}
		uc.Log.Error("prescriptionUsecase.run spine request failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return uc.errorResult(err, headers), nil
	}

	searchsetBundle.ID = headers.Get(constvars.HeaderXRequestID)
	if searchsetBundle.ID == "" {
		searchsetBundle.ID = uuid.NewString()
	}

	uc.logOperationOutcomes(requestID, searchsetBundle)

	var statusUpdateRequests []models.StatusUpdateRequest
	if uc.InternalConfig.StatusUpdates.Enabled {
		statusUpdateRequests = status_updates.BuildStatusUpdateRequests(searchsetBundle)
		uc.Log.Info("prescriptionUsecase.run built status update requests",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Any(constvars.LoggingStatusRequestsKey, statusUpdateRequests),
		)
	}

	enriched, err := utils.DeepCopy(searchsetBundle)
	if err != nil {
		return nil, exceptions.ErrCopyBundle(err)
	}

	enrichmentTimeout := stageTimeout(uc.InternalConfig.Timeouts.Enrichment, pipelineDeadline)
	if enrichmentTimeout > 0 {
		_, err = utils.RunWithDeadline(enrichmentTimeout, func() (struct{}, error) {
			uc.DistanceSelling.Search(ctx, enriched)
			return struct{}{}, nil
		})
	} else {
		err = utils.ErrDeadlineExceeded
	}
	if err != nil {
		if utils.IsTimeout(err) {
			metrics.DeadlinesExceededTotal.WithLabelValues(metrics.StageEnrichment).Inc()
		}
		uc.Log.Warn("prescriptionUsecase.run distance selling enrichment did not complete, returning unenriched bundle",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Duration(constvars.LoggingTimeoutKey, enrichmentTimeout),
			zap.Error(err),
		)
		return &models.PrescriptionsResult{
			StatusCode:           constvars.StatusOK,
			Body:                 searchsetBundle,
			StatusUpdateRequests: statusUpdateRequests,
		}, nil
	}

	return &models.PrescriptionsResult{
		StatusCode:           constvars.StatusOK,
		Body:                 enriched,
		StatusUpdateRequests: statusUpdateRequests,
	}, nil
}

// logOperationOutcomes records the prescriptions the registry excluded.
func (uc *prescriptionUsecase) logOperationOutcomes(requestID string, searchsetBundle *fhir_dto.Bundle) {
	for _, outcome := range fhir_utils.IsolateOperationOutcomes(searchsetBundle) {
		for _, issue := range outcome.Issue {
			uc.Log.Info("prescriptionUsecase.logOperationOutcomes prescription excluded by spine",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingOutcomeKey, issue.Diagnostics),
			)
		}
	}
}

func (uc *prescriptionUsecase) errorResult(err error, headers http.Header) *models.PrescriptionsResult {
	statusCode, outcome := utils.BuildOperationOutcome(err, headers.Get(constvars.HeaderApigwRequestID))
	return &models.PrescriptionsResult{
		StatusCode: statusCode,
		Body:       outcome,
	}
}

// stageTimeout caps a stage's timeout so the stage ends before the pipeline
// deadline with pipelineDeadlineMargin left to render the response.
func stageTimeout(timeout time.Duration, pipelineDeadline time.Time) time.Duration {
	return min(timeout, time.Until(pipelineDeadline)-pipelineDeadlineMargin)
}

func outcomeLabel(result *models.PrescriptionsResult) string {
	switch result.StatusCode {
	case constvars.StatusOK:
		return metrics.OutcomeSuccess
	case constvars.StatusBadRequest:
		return metrics.OutcomeInvalidNHSNumber
	case constvars.StatusRequestTimeout:
		return metrics.OutcomeTimeout
	}
	return metrics.OutcomeError
}
