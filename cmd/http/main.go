package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"prescriptions-service/internal/app/config"
	"prescriptions-service/internal/app/contracts"
	"prescriptions-service/internal/app/delivery/http/controllers"
	"prescriptions-service/internal/app/delivery/http/middlewares"
	"prescriptions-service/internal/app/delivery/http/routers"
	"prescriptions-service/internal/app/drivers/database"
	"prescriptions-service/internal/app/drivers/logger"
	"prescriptions-service/internal/app/services/distance_selling"
	"prescriptions-service/internal/app/services/prescriptions"
	"prescriptions-service/internal/app/services/service_search"
	"prescriptions-service/internal/app/services/shared/redis"
	"prescriptions-service/internal/app/services/shared/services_cache"
	"prescriptions-service/internal/app/services/spine"
	"prescriptions-service/internal/app/services/status_updates"
	"prescriptions-service/internal/pkg/constvars"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	err := internalConfig.Validate()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		logrus.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	log := logger.NewZapLogger(driverConfig, internalConfig)

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	if internalConfig.ServicesCache.Backend == constvars.ServicesCacheBackendRedis {
		bootstrap.Redis = database.NewRedisClient(driverConfig, log)
	}

	bootstrapingTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: bootstrap.Router,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		logrus.Errorf("Error while releasing resources: %v", err)
	}

	logrus.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) {
	internalConfig := bootstrap.InternalConfig
	log := bootstrap.Logger

	// Upstream clients
	var spineClient contracts.SpineClient
	if internalConfig.Spine.TargetServer == constvars.TargetServerSandbox {
		spineClient = spine.NewSandboxSpineClient()
	} else {
		spineClient = spine.NewSpineClient(
			internalConfig.Spine.TargetServer,
			spine.SpineCredentials{
				ASID:        internalConfig.Spine.ASID,
				PartyKey:    internalConfig.Spine.PartyKey,
				PrivateKey:  internalConfig.Spine.PrivateKey,
				Certificate: internalConfig.Spine.Certificate,
				CAChain:     internalConfig.Spine.CAChain,
			},
			internalConfig.Spine.RequestTimeout,
			log,
		)
	}

	var serviceSearchClient contracts.ServiceSearchClient
	if internalConfig.ServiceSearch.TargetServer == constvars.TargetServerSandbox {
		serviceSearchClient = service_search.NewSandboxServiceSearchClient()
	} else {
		serviceSearchClient = service_search.NewServiceSearchClient(
			internalConfig.ServiceSearch.TargetServer,
			internalConfig.ServiceSearch.SubscriptionKey,
			internalConfig.ServiceSearch.RequestTimeout,
			internalConfig.ServiceSearch.RequestsPerSecond,
			log,
		)
	}

	var statusUpdateClient contracts.StatusUpdateClient
	if internalConfig.StatusUpdates.Enabled {
		statusUpdateClient = status_updates.NewStatusUpdateClient(
			internalConfig.StatusUpdates.Url,
			internalConfig.StatusUpdates.ApiKey,
			internalConfig.Timeouts.StatusUpdate,
			log,
		)
	}

	// Services cache
	var servicesCache contracts.ServicesCache
	if bootstrap.Redis != nil {
		redisRepository := redis.NewRedisRepository(bootstrap.Redis)
		servicesCache = services_cache.NewRedisServicesCache(redisRepository, internalConfig.ServicesCache.TTL)
	} else {
		servicesCache = services_cache.NewMemoryServicesCache(internalConfig.ServicesCache.MaxEntries)
	}

	// Usecases
	distanceSelling := distance_selling.NewDistanceSelling(
		serviceSearchClient,
		servicesCache,
		internalConfig.ServiceSearch.MaxConcurrency,
		log,
	)
	prescriptionUsecase := prescriptions.NewPrescriptionUsecase(spineClient, distanceSelling, internalConfig, log)

	// Controllers
	prescriptionController := controllers.NewPrescriptionController(log, prescriptionUsecase, statusUpdateClient, internalConfig)
	statusController := controllers.NewStatusController(log, spineClient, serviceSearchClient, internalConfig)

	middlewares := middlewares.NewMiddlewares(log, internalConfig)

	routers.SetupRoutes(bootstrap.Router, internalConfig, middlewares, prescriptionController, statusController)
}
