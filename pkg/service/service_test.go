package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"nasa"
	"nasa/pkg/forwarder"
	"nasa/pkg/normalizer"
	"nasa/pkg/repository"

	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	requests []forwarder.Request
	body     string
	err      error
}

func (f *fakeFetcher) Get(_ context.Context, r forwarder.Request) (*forwarder.Response, error) {
	f.requests = append(f.requests, r)
	if f.err != nil {
		return nil, f.err
	}
	return &forwarder.Response{StatusCode: http.StatusOK, ContentType: "application/json", Body: []byte(f.body)}, nil
}

func (f *fakeFetcher) last() forwarder.Request {
	return f.requests[len(f.requests)-1]
}

type fakePicture struct {
	stored []nasa.APODRecord
	err    error
	start  time.Time
	end    time.Time
}

func (p *fakePicture) Upsert(_ context.Context, records []nasa.APODRecord) (int64, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.stored = append(p.stored, records...)
	return int64(len(records)), nil
}

func (p *fakePicture) GetByDate(_ context.Context, date time.Time) (*nasa.APODRecord, error) {
	return nil, nil
}

func (p *fakePicture) GetByDateRange(_ context.Context, start, end time.Time) ([]nasa.APODRecord, error) {
	p.start, p.end = start, end
	return p.stored, p.err
}

var fixedNow = func() time.Time { return time.Date(2024, 3, 15, 23, 30, 0, 0, time.Local) }

func newTestService(f Fetcher, pic repository.Picture, lookup normalizer.Lookup) *Service {
	return NewService(f, &repository.Repository{Picture: pic}, Options{
		NasaURL:   "https://api.nasa.gov/",
		EpicURL:   "https://epic.gsfc.nasa.gov",
		NeoLookup: lookup,
		Now:       fixedNow,
	})
}

const apodBody = `{"date":"2014-11-03","explanation":"e","hdurl":"h","title":"t","url":"u","media_type":"image"}`

func TestApod(t *testing.T) {

	t.Run("forwards only live params and archives", func(t *testing.T) {
		f := &fakeFetcher{body: apodBody}
		pic := &fakePicture{}
		s := newTestService(f, pic, normalizer.LookupExact)

		records, err := s.Apod(context.Background(), Params{
			"date": "2014-11-03", "hd": "false", "concept_tags": "false", "thumbs": "false",
			"count": "10", "start_date": "2014-11-01", "end_date": "2014-11-05",
		})
		require.NoError(t, err)
		require.Equal(t, []nasa.APODRecord{{Date: "2014-11-03", Explanation: "e", HDURL: "h", Title: "t", URL: "u"}}, records)

		require.Equal(t, "https://api.nasa.gov/planetary/apod", f.last().URL)
		require.Equal(t, map[string]string{"date": "2014-11-03", "hd": "false", "concept_tags": "false", "thumbs": "false"}, f.last().Params)
		require.Equal(t, records, pic.stored)
	})

	t.Run("absent date is not defaulted", func(t *testing.T) {
		f := &fakeFetcher{body: apodBody}
		s := newTestService(f, nil, normalizer.LookupExact)

		_, err := s.Apod(context.Background(), Params{"hd": "true"})
		require.NoError(t, err)
		require.Equal(t, map[string]string{"hd": "true"}, f.last().Params)
	})

	t.Run("archive failure does not fail the request", func(t *testing.T) {
		f := &fakeFetcher{body: apodBody}
		s := newTestService(f, &fakePicture{err: errors.New("db down")}, normalizer.LookupExact)

		records, err := s.Apod(context.Background(), Params{})
		require.NoError(t, err)
		require.Len(t, records, 1)
	})

	t.Run("normalization failure", func(t *testing.T) {
		f := &fakeFetcher{body: `[{"date":"2014-11-03"}]`}
		pic := &fakePicture{}
		s := newTestService(f, pic, normalizer.LookupExact)

		_, err := s.Apod(context.Background(), Params{})
		var fe *normalizer.FieldError
		require.True(t, errors.As(err, &fe))
		require.Empty(t, pic.stored)
	})

	t.Run("upstream failure", func(t *testing.T) {
		f := &fakeFetcher{err: errors.New("connection refused")}
		s := newTestService(f, nil, normalizer.LookupExact)

		_, err := s.Apod(context.Background(), Params{})
		require.EqualError(t, err, "connection refused")
	})
}

const neoBody = `{"near_earth_objects":{
	"2024-01-01":[
		{"neo_reference_id":"1","name":"a","nasa_jpl_url":"ua","is_potentially_hazardous_asteroid":false},
		{"neo_reference_id":"2","name":"b","nasa_jpl_url":"ub","is_potentially_hazardous_asteroid":true}],
	"2024-01-02":[
		{"neo_reference_id":"3","name":"c","nasa_jpl_url":"uc","is_potentially_hazardous_asteroid":false},
		{"neo_reference_id":"4","name":"d","nasa_jpl_url":"ud","is_potentially_hazardous_asteroid":false},
		{"neo_reference_id":"5","name":"e","nasa_jpl_url":"ue","is_potentially_hazardous_asteroid":false}]
}}`

func TestNeoFeed(t *testing.T) {

	tests := []struct {
		name           string
		params         Params
		lookup         normalizer.Lookup
		expectedParams map[string]string
		expectedLen    int
	}{
		{
			name:           "end date defaults to today",
			params:         Params{"start_date": "2024-01-01", "detailed": "true"},
			expectedParams: map[string]string{"start_date": "2024-01-01", "end_date": "2024-03-15", "detailed": "true"},
			expectedLen:    2,
		}, {
			name:           "explicit end date",
			params:         Params{"start_date": "2024-01-01", "end_date": "2024-01-02", "detailed": "true"},
			expectedParams: map[string]string{"start_date": "2024-01-01", "end_date": "2024-01-02", "detailed": "true"},
			expectedLen:    2,
		}, {
			name:           "range lookup",
			params:         Params{"start_date": "2024-01-01", "detailed": "true"},
			lookup:         normalizer.LookupRange,
			expectedParams: map[string]string{"start_date": "2024-01-01", "end_date": "2024-03-15", "detailed": "true"},
			expectedLen:    5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{body: neoBody}
			s := newTestService(f, nil, tt.lookup)

			records, err := s.NeoFeed(context.Background(), tt.params)
			require.NoError(t, err)
			require.Len(t, records, tt.expectedLen)

			require.Equal(t, "https://api.nasa.gov/neo/rest/v1/feed", f.last().URL)
			require.Equal(t, tt.expectedParams, f.last().Params)
		})
	}
}

func TestNeoBrowse(t *testing.T) {
	f := &fakeFetcher{body: `{"near_earth_objects":[]}`}
	s := newTestService(f, nil, normalizer.LookupExact)

	body, err := s.NeoBrowse(context.Background())
	require.NoError(t, err)
	require.Equal(t, "{\n  \"near_earth_objects\": []\n}\n", string(body))
	require.Equal(t, "https://api.nasa.gov/neo/rest/v1/neo/browse/", f.last().URL)
	require.Empty(t, f.last().Params)
}

func TestDonki(t *testing.T) {

	tests := []struct {
		name           string
		event          string
		params         Params
		expectedParams map[string]string
		expectedError  string
	}{
		{
			name:           "renamed dates",
			event:          "CME",
			params:         Params{"start_date": "2024-01-01", "end_date": "2024-01-31"},
			expectedParams: map[string]string{"startDate": "2024-01-01", "endDate": "2024-01-31"},
		}, {
			name:           "end defaults, start stays absent",
			event:          "GST",
			params:         Params{},
			expectedParams: map[string]string{"endDate": "2024-03-15"},
		}, {
			name:   "filters pass through",
			event:  "notifications",
			params: Params{"start_date": "2024-01-01", "type": "all"},
			expectedParams: map[string]string{
				"startDate": "2024-01-01", "endDate": "2024-03-15", "type": "all",
			},
		}, {
			name:          "unknown",
			event:         "XYZ",
			params:        Params{},
			expectedError: `unknown DONKI event "XYZ"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{body: `[]`}
			s := newTestService(f, nil, normalizer.LookupExact)

			_, err := s.Donki(context.Background(), tt.event, tt.params)
			if tt.expectedError != "" {
				require.EqualError(t, err, tt.expectedError)
				require.Empty(t, f.requests)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "https://api.nasa.gov/DONKI/"+tt.event, f.last().URL)
			require.Equal(t, tt.expectedParams, f.last().Params)
		})
	}
}

func TestEarth(t *testing.T) {
	f := &fakeFetcher{body: `{"date":"2024-03-10T03:00:00","id":"LC8"}`}
	s := newTestService(f, nil, normalizer.LookupExact)

	_, err := s.EarthAssets(context.Background(), Params{"latitude": "1.5", "longitude": "100.75", "dim": "0.025"})
	require.NoError(t, err)
	require.Equal(t, "https://api.nasa.gov/planetary/earth/assets", f.last().URL)
	require.Equal(t, map[string]string{"lat": "1.5", "lon": "100.75", "dim": "0.025", "date": "2024-03-15"}, f.last().Params)

	resp, err := s.EarthImagery(context.Background(), Params{"latitude": "29.78", "date": "2018-01-01"})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Equal(t, "https://api.nasa.gov/planetary/earth/imagery", f.last().URL)
	require.Equal(t, map[string]string{"lat": "29.78", "date": "2018-01-01"}, f.last().Params)
	require.Equal(t, forwarder.AcceptImage, f.last().Accept)
}

func TestEpic(t *testing.T) {

	tests := []struct {
		name           string
		collection     string
		selector       string
		expectedURL    string
		expectedParams map[string]string
		expectedError  error
	}{
		{name: "latest", collection: "natural", expectedURL: "https://epic.gsfc.nasa.gov/api/natural"},
		{name: "all", collection: "enhanced", selector: "all", expectedURL: "https://epic.gsfc.nasa.gov/api/enhanced/all"},
		{name: "available", collection: "natural", selector: "available", expectedURL: "https://epic.gsfc.nasa.gov/api/natural/available"},
		{
			name:           "date",
			collection:     "natural",
			selector:       "2015-10-31",
			expectedURL:    "https://epic.gsfc.nasa.gov/api/natural/date/2015-10-31",
			expectedParams: map[string]string{"date": "2015-10-31"},
		},
		{name: "bad collection", collection: "aerosol", expectedError: ErrUnknownCollection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{body: `[]`}
			s := newTestService(f, nil, normalizer.LookupExact)

			_, err := s.EpicImages(context.Background(), tt.collection, tt.selector)
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.expectedURL, f.last().URL)
			require.Equal(t, tt.expectedParams, f.last().Params)
		})
	}
}

func TestEpicArchive(t *testing.T) {
	f := &fakeFetcher{body: "png"}
	s := newTestService(f, nil, normalizer.LookupExact)

	_, err := s.EpicArchive(context.Background(), ArchiveImage{
		Collection: "natural", Year: 2015, Month: 10, Day: 31, ImageType: "png", FileName: "epic_1b_20151031074844",
	})
	require.NoError(t, err)
	require.Equal(t, "https://epic.gsfc.nasa.gov/archive/natural/2015/10/31/png/epic_1b_20151031074844.png", f.last().URL)

	_, err = s.EpicArchive(context.Background(), ArchiveImage{
		Collection: "enhanced", Year: 2016, Month: 1, Day: 5, ImageType: "jpg", FileName: "epic_RGB_20160105003633",
	})
	require.NoError(t, err)
	require.Equal(t, "https://epic.gsfc.nasa.gov/archive/enhanced/2016/01/05/jpg/epic_RGB_20160105003633.jpg", f.last().URL)

	_, err = s.EpicArchive(context.Background(), ArchiveImage{Collection: "natural", ImageType: "gif", FileName: "x"})
	require.ErrorIs(t, err, ErrUnknownImageType)
}

func TestArchive(t *testing.T) {

	t.Run("disabled", func(t *testing.T) {
		s := newTestService(&fakeFetcher{}, nil, normalizer.LookupExact)

		_, err := s.History(context.Background(), time.Now(), time.Now())
		require.ErrorIs(t, err, ErrArchiveDisabled)
		require.ErrorIs(t, s.ArchiveToday(context.Background()), ErrArchiveDisabled)
	})

	t.Run("today", func(t *testing.T) {
		f := &fakeFetcher{body: apodBody}
		pic := &fakePicture{}
		s := newTestService(f, pic, normalizer.LookupExact)

		require.NoError(t, s.ArchiveToday(context.Background()))
		require.Equal(t, map[string]string{"date": "2024-03-15", "thumbs": "true"}, f.last().Params)
		require.Len(t, pic.stored, 1)

		start := time.Date(2014, 11, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2014, 11, 30, 0, 0, 0, 0, time.UTC)
		records, err := s.History(context.Background(), start, end)
		require.NoError(t, err)
		require.Equal(t, pic.stored, records)
		require.Equal(t, start, pic.start)
		require.Equal(t, end, pic.end)
	})

	t.Run("single date not archived", func(t *testing.T) {
		pic := &fakePicture{}
		s := newTestService(&fakeFetcher{}, pic, normalizer.LookupExact)

		day := time.Date(2014, 11, 3, 0, 0, 0, 0, time.UTC)
		records, err := s.History(context.Background(), day, day)
		require.NoError(t, err)
		require.Empty(t, records)
		require.True(t, pic.start.IsZero())
	})
}

func TestStartScheduler(t *testing.T) {
	_, err := StartScheduler("not a cron", nil, time.Second)
	require.Error(t, err)

	c, err := StartScheduler("@daily", &ArchiveService{}, time.Second)
	require.NoError(t, err)
	c.Stop()
}
