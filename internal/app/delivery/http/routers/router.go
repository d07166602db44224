package routers

import (
	"fmt"
	"prescriptions-service/internal/app/config"
	"prescriptions-service/internal/app/delivery/http/controllers"
	"prescriptions-service/internal/app/delivery/http/middlewares"
	"prescriptions-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	prescriptionController *controllers.PrescriptionController,
	statusController *controllers.StatusController,
) {
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))

	corsOptions := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: append([]string{
			constvars.HeaderAccept,
			constvars.HeaderContentType,
			constvars.HeaderNHSLoginUser,
			constvars.HeaderNHSLoginIdentityProofingLevel,
			constvars.HeaderNHSDSessionURID,
		}, constvars.TraceHeaders...),
		ExposedHeaders: constvars.TraceHeaders,
		MaxAge:         300,
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(middlewares.RateLimit())

	router.Use(middlewares.ErrorHandler)

	router.Handle("/metrics", promhttp.Handler())

	if internalConfig.App.EndpointPrefix == "" {
		attachPrescriptionRoutes(router, prescriptionController, statusController)
		return
	}

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	router.Route(endpointPrefix, func(r chi.Router) {
		attachPrescriptionRoutes(r, prescriptionController, statusController)
	})
}
