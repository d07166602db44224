package distance_selling

import (
	"context"
	"errors"
	"net/url"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/app/services/shared/services_cache"
	"prescriptions-service/internal/pkg/fhir_dto"
	"prescriptions-service/internal/pkg/fhir_utils"
	"prescriptions-service/internal/pkg/testutils"
	"prescriptions-service/internal/pkg/utils"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeServiceSearchClient struct {
	mu    sync.Mutex
	urls  map[string]string
	err   error
	delay time.Duration
	calls map[string]int
	done  chan struct{}
}

func newFakeServiceSearchClient(urls map[string]string) *fakeServiceSearchClient {
	return &fakeServiceSearchClient{urls: urls, calls: make(map[string]int)}
}

func (f *fakeServiceSearchClient) SearchService(ctx context.Context, odsCode string) (*url.URL, error) {
	defer func() {
		if f.done != nil {
			f.done <- struct{}{}
		}
	}()
	time.Sleep(f.delay)

	f.mu.Lock()
	f.calls[strings.ToLower(odsCode)]++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	rawUrl, ok := f.urls[strings.ToLower(odsCode)]
	if !ok {
		return nil, nil
	}
	return url.Parse(rawUrl)
}

func (f *fakeServiceSearchClient) GetStatus(ctx context.Context) models.StatusCheckResponse {
	return models.StatusCheckResponse{Status: "pass"}
}

func (f *fakeServiceSearchClient) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, count := range f.calls {
		total += count
	}
	return total
}

func urlTelecoms(organisation *fhir_dto.Organization) []fhir_dto.ContactPoint {
	var telecoms []fhir_dto.ContactPoint
	for _, telecom := range organisation.Telecom {
		if telecom.System == "url" {
			telecoms = append(telecoms, telecom)
		}
	}
	return telecoms
}

func searchset(odsCodes ...string) *fhir_dto.Bundle {
	var prescriptions []fhir_dto.Resource
	for i, odsCode := range odsCodes {
		id := string(rune('A' + i))
		prescriptions = append(prescriptions, testutils.Prescription(testutils.PrescriptionSpec{
			PrescriptionID: "prescription-" + id,
			OdsCode:        odsCode,
			ItemIDs:        []string{"item-" + id},
		}))
	}
	return testutils.SearchsetBundle(prescriptions...)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("prepopulated cache adds exactly one url telecom without a lookup", func(t *testing.T) {
		cache := services_cache.NewMemoryServicesCache(10)
		require.NoError(t, cache.Set(ctx, "flm49", models.ServiceEntry{URL: "www.pharmacy2u.co.uk"}))
		client := newFakeServiceSearchClient(nil)
		bundle := searchset("FLM49")

		NewDistanceSelling(client, cache, 4, zap.NewNop()).Search(ctx, bundle)

		organisation := testutils.Organizations(bundle)[0]
		telecoms := urlTelecoms(organisation)
		require.Len(t, telecoms, 1)
		assert.Equal(t, fhir_dto.ContactPoint{System: "url", Use: "work", Value: "www.pharmacy2u.co.uk"}, telecoms[0])
		assert.Nil(t, organisation.Address)
		assert.Equal(t, 0, client.totalCalls())
	})

	t.Run("lookup result is normalised, cached and added", func(t *testing.T) {
		cache := services_cache.NewMemoryServicesCache(10)
		client := newFakeServiceSearchClient(map[string]string{"flm49": "https://www.Pharmacy2U.co.uk/"})
		bundle := searchset("FLM49")

		NewDistanceSelling(client, cache, 4, zap.NewNop()).Search(ctx, bundle)

		entry, ok, err := cache.Get(ctx, "flm49")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "www.pharmacy2u.co.uk", entry.URL)

		organisation := testutils.Organizations(bundle)[0]
		assert.Equal(t, "www.pharmacy2u.co.uk", urlTelecoms(organisation)[0].Value)
		assert.Nil(t, organisation.Address)
		assert.Equal(t, 1, client.totalCalls())
	})

	t.Run("no url caches the absent marker and leaves the organisation alone", func(t *testing.T) {
		cache := services_cache.NewMemoryServicesCache(10)
		client := newFakeServiceSearchClient(nil)
		distanceSelling := NewDistanceSelling(client, cache, 4, zap.NewNop())

		bundle := searchset("FA565")
		distanceSelling.Search(ctx, bundle)

		entry, ok, _ := cache.Get(ctx, "fa565")
		assert.True(t, ok)
		assert.True(t, entry.IsAbsent())
		organisation := testutils.Organizations(bundle)[0]
		assert.Empty(t, urlTelecoms(organisation))
		assert.NotNil(t, organisation.Address)

		distanceSelling.Search(ctx, searchset("FA565"))
		assert.Equal(t, 1, client.totalCalls())
	})

	t.Run("lookup error leaves the cache untouched", func(t *testing.T) {
		cache := services_cache.NewMemoryServicesCache(10)
		client := newFakeServiceSearchClient(nil)
		client.err = errors.New("service search unavailable")
		bundle := searchset("FLM49")

		NewDistanceSelling(client, cache, 4, zap.NewNop()).Search(ctx, bundle)

		_, ok, _ := cache.Get(ctx, "flm49")
		assert.False(t, ok)
		assert.Empty(t, urlTelecoms(testutils.Organizations(bundle)[0]))
	})

	t.Run("existing url telecom is not duplicated", func(t *testing.T) {
		cache := services_cache.NewMemoryServicesCache(10)
		client := newFakeServiceSearchClient(map[string]string{"flm49": "https://www.pharmacy2u.co.uk"})
		bundle := searchset("FLM49")
		organisation := testutils.Organizations(bundle)[0]
		organisation.Telecom = append(organisation.Telecom, fhir_dto.ContactPoint{System: "url", Use: "work", Value: "existing.example"})

		NewDistanceSelling(client, cache, 4, zap.NewNop()).Search(ctx, bundle)

		telecoms := urlTelecoms(organisation)
		require.Len(t, telecoms, 1)
		assert.Equal(t, "existing.example", telecoms[0].Value)
	})

	t.Run("every prescription is enriched", func(t *testing.T) {
		cache := services_cache.NewMemoryServicesCache(10)
		client := newFakeServiceSearchClient(map[string]string{
			"flm49": "https://www.pharmacy2u.co.uk",
			"few08": "http://pharmacy.example/",
		})
		bundle := searchset("FLM49", "FA565", "FEW08")

		NewDistanceSelling(client, cache, 2, zap.NewNop()).Search(ctx, bundle)

		organisations := fhir_utils.IsolatePerformerOrganisations(bundle)
		require.Len(t, organisations, 3)
		assert.Equal(t, "www.pharmacy2u.co.uk", urlTelecoms(organisations[0])[0].Value)
		assert.Empty(t, urlTelecoms(organisations[1]))
		assert.Equal(t, "pharmacy.example", urlTelecoms(organisations[2])[0].Value)
		assert.Equal(t, 3, client.totalCalls())
	})

	t.Run("cache write lands after the deadline has passed", func(t *testing.T) {
		cache := services_cache.NewMemoryServicesCache(10)
		client := newFakeServiceSearchClient(map[string]string{"flm49": "https://www.pharmacy2u.co.uk"})
		client.delay = 100 * time.Millisecond
		client.done = make(chan struct{}, 1)
		distanceSelling := NewDistanceSelling(client, cache, 4, zap.NewNop())
		bundle := searchset("FLM49")

		_, err := utils.RunWithDeadline(10*time.Millisecond, func() (struct{}, error) {
			distanceSelling.Search(ctx, bundle)
			return struct{}{}, nil
		})
		assert.True(t, utils.IsTimeout(err))

		select {
		case <-client.done:
		case <-time.After(2 * time.Second):
			t.Fatal("lookup did not finish")
		}
		assert.Eventually(t, func() bool {
			_, ok, _ := cache.Get(ctx, "flm49")
			return ok
		}, time.Second, 5*time.Millisecond)
	})
}

func TestNormaliseUrl(t *testing.T) {
	cases := map[string]string{
		"https://www.pharmacy2u.co.uk/":    "www.pharmacy2u.co.uk",
		"http://Pharmacy.Example/Order":    "pharmacy.example/order",
		"https://pharmacy.example/path//":  "pharmacy.example/path/",
		"https://pharmacy.example?ref=nhs": "pharmacy.example?ref=nhs",
	}
	for input, expected := range cases {
		parsed, err := url.Parse(input)
		require.NoError(t, err)
		assert.Equal(t, expected, NormaliseUrl(parsed), input)
	}
}
