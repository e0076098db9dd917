package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	impl "github.com/avatarctic/petpal/internal/application/services"
	"github.com/avatarctic/petpal/internal/core/domain/content"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/avatarctic/petpal/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validListing = `{"services":[{"name":"Paws Clinic","category":"veterinarian","address":"1 Main St","animals":["dog","cat"]}]}`
	validGuide   = `{"summary":"Keep pets cool","sections":[{"title":"Water","body":"Always carry water."}],"tips":["Walk early"],"resources":[{"name":"City Vets"}]}`
)

var clockNow = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

type contentFixture struct {
	services *mocks.ContentStoreMock
	petCare  *mocks.ContentStoreMock
	client   *mocks.AIQueryClientMock
	svc      ports.ContentService
}

func newContentFixture(answer string, err error) *contentFixture {
	f := &contentFixture{
		services: mocks.NewContentStoreMock(),
		petCare:  mocks.NewContentStoreMock(),
		client: &mocks.AIQueryClientMock{QueryFn: func(ctx context.Context, q ports.AIQuery) (string, error) {
			return answer, err
		}},
	}
	f.svc = impl.NewContentService(f.services, f.petCare, f.client, nil, impl.WithClock(func() time.Time { return clockNow }))
	return f
}

func TestContentService_FreshRecordServedWithoutUpstream(t *testing.T) {
	f := newContentFixture("", errors.New("must not be called"))
	stored := content.Record{Location: "Berlin", Topic: "grooming", Content: json.RawMessage(validListing), FetchedAt: clockNow.Add(-time.Hour)}
	f.services.Seed(stored)

	rec, err := f.svc.GetServiceListing(context.Background(), "Berlin", "grooming")
	require.NoError(t, err)
	assert.Equal(t, validListing, string(rec.Content))
	assert.True(t, rec.FetchedAt.Equal(stored.FetchedAt))
	assert.EqualValues(t, 0, f.client.Calls.Load())
	assert.EqualValues(t, 0, f.services.UpsertCalls.Load())
}

func TestContentService_MissingRecordFetchedAndStored(t *testing.T) {
	f := newContentFixture(validListing, nil)

	rec, err := f.svc.GetServiceListing(context.Background(), "Berlin", "all")
	require.NoError(t, err)
	assert.Equal(t, "Berlin", rec.Location)
	assert.Equal(t, "all", rec.Topic)
	assert.JSONEq(t, validListing, string(rec.Content))
	assert.True(t, rec.FetchedAt.Equal(clockNow))
	assert.EqualValues(t, 1, f.client.Calls.Load())

	saved, ok := f.services.Get(content.Key{Location: "Berlin", Topic: "all"})
	require.True(t, ok)
	assert.Equal(t, string(rec.Content), string(saved.Content))

	q := f.client.LastQuery()
	assert.Equal(t, "pet_services", q.SchemaName)
	assert.NotNil(t, q.Schema)
}

func TestContentService_StaleRecordRefreshed(t *testing.T) {
	for name, age := range map[string]time.Duration{
		"25 hours":    25 * time.Hour,
		"exactly 24h": content.FreshnessWindow,
		"a year":      365 * 24 * time.Hour,
	} {
		t.Run(name, func(t *testing.T) {
			f := newContentFixture(validListing, nil)
			f.services.Seed(content.Record{Location: "Paris", Topic: "vets", Content: json.RawMessage(`{"services":[]}`), FetchedAt: clockNow.Add(-age)})

			rec, err := f.svc.GetServiceListing(context.Background(), "Paris", "vets")
			require.NoError(t, err)
			assert.EqualValues(t, 1, f.client.Calls.Load())
			assert.True(t, rec.FetchedAt.Equal(clockNow))
			assert.JSONEq(t, validListing, string(rec.Content))
		})
	}
}

func TestContentService_JustUnderWindowIsFresh(t *testing.T) {
	f := newContentFixture(validListing, nil)
	f.services.Seed(content.Record{Location: "Paris", Topic: "vets", Content: json.RawMessage(`{"services":[]}`), FetchedAt: clockNow.Add(-content.FreshnessWindow + time.Second)})

	rec, err := f.svc.GetServiceListing(context.Background(), "Paris", "vets")
	require.NoError(t, err)
	assert.Equal(t, `{"services":[]}`, string(rec.Content))
	assert.EqualValues(t, 0, f.client.Calls.Load())
}

func TestContentService_UpstreamFailureLeavesStoreUntouched(t *testing.T) {
	cases := map[string]error{
		"timeout":     context.DeadlineExceeded,
		"server 500":  errors.New("error, status code: 500"),
		"unreachable": fmt.Errorf("dial tcp: connection refused"),
	}
	for name, upstreamErr := range cases {
		t.Run(name, func(t *testing.T) {
			f := newContentFixture("", upstreamErr)
			stale := content.Record{Location: "Rome", Topic: "boarding", Content: json.RawMessage(`{"services":[]}`), FetchedAt: clockNow.Add(-48 * time.Hour)}
			f.services.Seed(stale)

			rec, err := f.svc.GetServiceListing(context.Background(), "Rome", "boarding")
			require.Error(t, err)
			assert.Nil(t, rec)

			var upErr *content.UpstreamUnavailableError
			require.ErrorAs(t, err, &upErr)
			assert.ErrorIs(t, err, upstreamErr)
			assert.EqualValues(t, 1, f.client.Calls.Load())
			assert.EqualValues(t, 0, f.services.UpsertCalls.Load())

			saved, ok := f.services.Get(stale.Key())
			require.True(t, ok)
			assert.True(t, saved.FetchedAt.Equal(stale.FetchedAt))
		})
	}
}

func TestContentService_InvalidKeyTouchesNothing(t *testing.T) {
	f := newContentFixture(validListing, nil)

	_, err := f.svc.GetServiceListing(context.Background(), "  ", "grooming")
	var keyErr *content.InvalidKeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "location", keyErr.Field)

	_, err = f.svc.GetPetCareGuide(context.Background(), "", "Berlin")
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "topic", keyErr.Field)

	assert.EqualValues(t, 0, f.services.FindCalls.Load())
	assert.EqualValues(t, 0, f.petCare.FindCalls.Load())
	assert.EqualValues(t, 0, f.client.Calls.Load())
}

func TestContentService_MalformedAnswersRejected(t *testing.T) {
	cases := map[string]string{
		"not json":         "Here are some services in Berlin...",
		"unknown field":    `{"services":[],"note":"extra"}`,
		"trailing data":    validListing + ` {"services":[]}`,
		"wrong type":       `{"services":"none"}`,
		"missing required": `{"services":[{"name":"Paws","category":"vet","animals":["dog"]}]}`,
		"rating too high":  `{"services":[{"name":"Paws","category":"vet","address":"x","rating":7,"animals":["dog"]}]}`,
		"empty object":     `{}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			f := newContentFixture(raw, nil)

			_, err := f.svc.GetServiceListing(context.Background(), "Berlin", "vets")
			var parseErr *content.ContentParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, raw, parseErr.Raw)
			assert.EqualValues(t, 0, f.services.UpsertCalls.Load())
		})
	}
}

func TestContentService_StoresCanonicalJSON(t *testing.T) {
	f := newContentFixture("{\n  \"services\": [ {\"name\":\"Paws Clinic\", \"address\":\"1 Main St\", \"category\":\"veterinarian\", \"animals\":[\"dog\",\"cat\"]} ]\n}", nil)

	first, err := f.svc.GetServiceListing(context.Background(), "Berlin", "vets")
	require.NoError(t, err)
	assert.Equal(t, validListing, string(first.Content))

	second, err := f.svc.GetServiceListing(context.Background(), "Berlin", "vets")
	require.NoError(t, err)
	assert.Equal(t, string(first.Content), string(second.Content))
	assert.EqualValues(t, 1, f.client.Calls.Load())
}

func TestContentService_StoreLookupErrorSkipsUpstream(t *testing.T) {
	f := newContentFixture(validListing, nil)
	f.services.FindFn = func(ctx context.Context, key content.Key) (*content.Record, bool, error) {
		return nil, false, errors.New("connection reset")
	}

	_, err := f.svc.GetServiceListing(context.Background(), "Berlin", "vets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content store lookup")
	assert.EqualValues(t, 0, f.client.Calls.Load())
}

func TestContentService_UpsertFailureStillServesAnswer(t *testing.T) {
	f := newContentFixture(validListing, nil)
	f.services.UpsertFn = func(ctx context.Context, key content.Key, payload json.RawMessage, fetchedAt time.Time) (*content.Record, error) {
		return nil, errors.New("disk full")
	}

	rec, err := f.svc.GetServiceListing(context.Background(), "Berlin", "vets")
	require.NoError(t, err)
	assert.Equal(t, validListing, string(rec.Content))
	assert.True(t, rec.FetchedAt.Equal(clockNow))
}

func TestContentService_PetCareKeyedOnCityAndTopic(t *testing.T) {
	f := newContentFixture(validGuide, nil)

	rec, err := f.svc.GetPetCareGuide(context.Background(), "summer heat", "Madrid")
	require.NoError(t, err)
	assert.Equal(t, "Madrid", rec.Location)
	assert.Equal(t, "summer heat", rec.Topic)

	_, ok := f.petCare.Get(content.Key{Location: "Madrid", Topic: "summer heat"})
	assert.True(t, ok)
	assert.Empty(t, f.services.Records)
	assert.Equal(t, "pet_care_guide", f.client.LastQuery().SchemaName)
}

func TestContentService_KindsUseSeparateStores(t *testing.T) {
	f := newContentFixture(validGuide, nil)
	f.services.Seed(content.Record{Location: "Oslo", Topic: "training", Content: json.RawMessage(validListing), FetchedAt: clockNow})

	_, err := f.svc.GetPetCareGuide(context.Background(), "training", "Oslo")
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.client.Calls.Load())
}

func TestContentService_KeysTrimmedButCaseSensitive(t *testing.T) {
	f := newContentFixture(validListing, nil)
	f.services.Seed(content.Record{Location: "Berlin", Topic: "vets", Content: json.RawMessage(validListing), FetchedAt: clockNow})

	_, err := f.svc.GetServiceListing(context.Background(), "  Berlin ", "vets\t")
	require.NoError(t, err)
	assert.EqualValues(t, 0, f.client.Calls.Load())

	_, err = f.svc.GetServiceListing(context.Background(), "berlin", "vets")
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.client.Calls.Load())
}

func TestContentService_Prompts(t *testing.T) {
	t.Run("services with category", func(t *testing.T) {
		f := newContentFixture(validListing, nil)
		_, err := f.svc.GetServiceListing(context.Background(), "Lyon", "grooming")
		require.NoError(t, err)
		p := f.client.LastQuery().Prompt
		assert.Contains(t, p, "pet services in Lyon specifically focused on grooming services.")
		assert.Contains(t, p, "types of animals served")
	})
	t.Run("services all categories", func(t *testing.T) {
		f := newContentFixture(validListing, nil)
		_, err := f.svc.GetServiceListing(context.Background(), "Lyon", content.AllCategories)
		require.NoError(t, err)
		p := f.client.LastQuery().Prompt
		assert.Contains(t, p, "pet services in Lyon. For each service")
		assert.NotContains(t, p, "specifically focused")
	})
	t.Run("pet care in city", func(t *testing.T) {
		f := newContentFixture(validGuide, nil)
		_, err := f.svc.GetPetCareGuide(context.Background(), "vaccinations", "Lyon")
		require.NoError(t, err)
		assert.Contains(t, f.client.LastQuery().Prompt, "information about vaccinations for pet owners in Lyon.")
	})
	t.Run("pet care general", func(t *testing.T) {
		f := newContentFixture(validGuide, nil)
		_, err := f.svc.GetPetCareGuide(context.Background(), "vaccinations", content.GeneralLocation)
		require.NoError(t, err)
		p := f.client.LastQuery().Prompt
		assert.Contains(t, p, "information about vaccinations for pet owners. Include practical advice")
		assert.NotContains(t, p, " in general")
	})
}
