package service

import (
	"context"

	"nasa"
	"nasa/pkg/consts"
	"nasa/pkg/forwarder"
	"nasa/pkg/normalizer"
)

const (
	endpointApod       = "apod"
	endpointEarthImage = "earth_imagery"
	endpointEarthAsset = "earth_assets"
)

// count, start_date и end_date принимаются, но апстриму не передаются
var apodParams = map[string]string{
	consts.ParamConceptTags: consts.ParamConceptTags,
	consts.ParamDate:        consts.ParamDate,
	consts.ParamHd:          consts.ParamHd,
	consts.ParamThumbs:      consts.ParamThumbs,
}

var earthParams = map[string]string{
	consts.ParamLatitude:  consts.UpstreamLat,
	consts.ParamLongitude: consts.UpstreamLon,
	consts.ParamDim:       consts.ParamDim,
	consts.ParamDate:      consts.ParamDate,
}

type PlanetaryService struct {
	*base
	archive *ArchiveService
}

func NewPlanetaryService(b *base, archive *ArchiveService) *PlanetaryService {
	return &PlanetaryService{base: b, archive: archive}
}

// Apod fetches and flattens APOD entries, then hands them to the archive.
func (s *PlanetaryService) Apod(ctx context.Context, p Params) ([]nasa.APODRecord, error) {

	records, err := s.fetchApod(ctx, pick(p, apodParams))
	if err != nil {
		return nil, err
	}

	s.archive.store(ctx, records)
	return records, nil
}

func (s *PlanetaryService) EarthImagery(ctx context.Context, p Params) (*forwarder.Response, error) {
	return s.bytes(ctx, endpointEarthImage, s.nasaURL+consts.PathEarthImage, s.earthParams(p))
}

func (s *PlanetaryService) EarthAssets(ctx context.Context, p Params) ([]byte, error) {
	return s.json(ctx, endpointEarthAsset, s.nasaURL+consts.PathEarthAsset, s.earthParams(p))
}

func (s *PlanetaryService) earthParams(p Params) map[string]string {
	params := pick(p, earthParams)
	if _, ok := params[consts.ParamDate]; !ok {
		params[consts.ParamDate] = s.today()
	}
	return params
}

func (b *base) fetchApod(ctx context.Context, params map[string]string) ([]nasa.APODRecord, error) {

	resp, err := b.fetcher.Get(ctx, forwarder.Request{
		Endpoint: endpointApod,
		URL:      b.nasaURL + consts.PathApod,
		Params:   params,
		Accept:   forwarder.AcceptJSON,
	})
	if err != nil {
		return nil, err
	}

	return normalizer.APOD(resp.Body)
}
