package distance_selling

import (
	"context"
	"net/url"
	"prescriptions-service/internal/app/contracts"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/fhir_dto"
	"prescriptions-service/internal/pkg/fhir_utils"
	"prescriptions-service/internal/pkg/metrics"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

type distanceSelling struct {
	Client         contracts.ServiceSearchClient
	Cache          contracts.ServicesCache
	MaxConcurrency int
	Log            *zap.Logger
}

func NewDistanceSelling(client contracts.ServiceSearchClient, cache contracts.ServicesCache, maxConcurrency int, logger *zap.Logger) contracts.DistanceSelling {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &distanceSelling{
		Client:         client,
		Cache:          cache,
		MaxConcurrency: maxConcurrency,
		Log:            logger,
	}
}

func (d *distanceSelling) Search(ctx context.Context, searchsetBundle *fhir_dto.Bundle) {
	d.ProcessOdsCodes(ctx, fhir_utils.IsolatePerformerOrganisations(searchsetBundle))
}

// ProcessOdsCodes enriches each organisation independently. Lookups for
// the same ODS code may race; the cache keeps whichever write lands last.
func (d *distanceSelling) ProcessOdsCodes(ctx context.Context, organisations []*fhir_dto.Organization) {
	p := pool.New().WithMaxGoroutines(d.MaxConcurrency)
	for _, organisation := range organisations {
		organisation := organisation
		p.Go(func() {
			d.processOrganisation(ctx, organisation)
		})
	}
	p.Wait()
}

func (d *distanceSelling) processOrganisation(ctx context.Context, organisation *fhir_dto.Organization) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	odsCode := strings.ToLower(organisation.OdsCode())
	if odsCode == "" {
		return
	}

	entry, ok, err := d.Cache.Get(ctx, odsCode)
	if err != nil {
		d.Log.Warn("distanceSelling.processOrganisation error reading services cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOdsCodeKey, odsCode),
			zap.Error(err),
		)
		metrics.ServicesCacheLookupsTotal.WithLabelValues(metrics.CacheResultError).Inc()
		ok = false
	}

	if ok {
		d.Log.Info("distanceSelling.processOrganisation ods code found in cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOdsCodeKey, odsCode),
		)
		if entry.IsAbsent() {
			metrics.ServicesCacheLookupsTotal.WithLabelValues(metrics.CacheResultAbsent).Inc()
			return
		}
		metrics.ServicesCacheLookupsTotal.WithLabelValues(metrics.CacheResultHit).Inc()
		markOnline(entry.URL, organisation)
		return
	}

	if err == nil {
		metrics.ServicesCacheLookupsTotal.WithLabelValues(metrics.CacheResultMiss).Inc()
	}
	d.Log.Info("distanceSelling.processOrganisation ods code not found in cache, calling service search",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOdsCodeKey, odsCode),
	)
	d.searchOdsCode(ctx, odsCode, organisation)
}

func (d *distanceSelling) searchOdsCode(ctx context.Context, odsCode string, organisation *fhir_dto.Organization) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	serviceUrl, err := d.Client.SearchService(ctx, odsCode)
	if err != nil {
		d.Log.Warn("distanceSelling.searchOdsCode call to service search unsuccessful",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOdsCodeKey, odsCode),
			zap.Error(err),
		)
		return
	}

	entry := models.ServiceEntry{}
	if serviceUrl != nil {
		entry.URL = NormaliseUrl(serviceUrl)
	}

	err = d.Cache.Set(ctx, odsCode, entry)
	if err != nil {
		d.Log.Warn("distanceSelling.searchOdsCode error writing services cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOdsCodeKey, odsCode),
			zap.Error(err),
		)
	}

	if entry.IsAbsent() {
		return
	}
	d.Log.Info("distanceSelling.searchOdsCode url added to cache",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOdsCodeKey, odsCode),
		zap.String(constvars.LoggingServiceUrlKey, entry.URL),
	)
	markOnline(entry.URL, organisation)
}

// NormaliseUrl drops the scheme, lower cases the rest and strips one
// trailing slash.
func NormaliseUrl(serviceUrl *url.URL) string {
	urlString := serviceUrl.String()
	if _, rest, found := strings.Cut(urlString, "://"); found {
		urlString = rest
	}
	urlString = strings.ToLower(urlString)
	return strings.TrimSuffix(urlString, "/")
}

// markOnline records the delivery URL and drops the physical address of an
// online pharmacy.
func markOnline(urlString string, organisation *fhir_dto.Organization) {
	AddToTelecom(urlString, organisation)
	organisation.Address = nil
}

// AddToTelecom adds a work url contact unless one is already present.
func AddToTelecom(urlString string, organisation *fhir_dto.Organization) {
	for _, telecom := range organisation.Telecom {
		if telecom.System == constvars.ContactPointSystemURL {
			return
		}
	}
	organisation.Telecom = append(organisation.Telecom, fhir_dto.ContactPoint{
		System: constvars.ContactPointSystemURL,
		Use:    constvars.ContactPointUseWork,
		Value:  urlString,
	})
}
