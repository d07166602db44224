package routers

import (
	"prescriptions-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachPrescriptionRoutes(
	router chi.Router,
	prescriptionController *controllers.PrescriptionController,
	statusController *controllers.StatusController,
) {
	router.Get("/Bundle", prescriptionController.GetMyPrescriptions)
	router.Get("/_status", statusController.GetStatus)
}
