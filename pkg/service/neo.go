package service

import (
	"context"

	"nasa"
	"nasa/pkg/consts"
	"nasa/pkg/forwarder"
	"nasa/pkg/normalizer"
)

const (
	endpointNeoFeed   = "neo_feed"
	endpointNeoBrowse = "neo_browse"
)

var neoFeedParams = map[string]string{
	consts.ParamStartDate: consts.ParamStartDate,
	consts.ParamEndDate:   consts.ParamEndDate,
	consts.ParamDetailed:  consts.ParamDetailed,
}

type NeoService struct {
	*base
}

func NewNeoService(b *base) *NeoService {
	return &NeoService{b}
}

// NeoFeed flattens the feed. Which date buckets are read depends on the configured lookup,
// the exact lookup keys on the request's start_date.
func (s *NeoService) NeoFeed(ctx context.Context, p Params) ([]nasa.NEORecord, error) {

	params := pick(p, neoFeedParams)
	if _, ok := params[consts.ParamEndDate]; !ok {
		params[consts.ParamEndDate] = s.today()
	}

	resp, err := s.fetcher.Get(ctx, forwarder.Request{
		Endpoint: endpointNeoFeed,
		URL:      s.nasaURL + consts.PathNeoFeed,
		Params:   params,
		Accept:   forwarder.AcceptJSON,
	})
	if err != nil {
		return nil, err
	}

	return normalizer.NEOFeed(resp.Body, p[consts.ParamStartDate], s.neoLookup)
}

func (s *NeoService) NeoBrowse(ctx context.Context) ([]byte, error) {
	return s.json(ctx, endpointNeoBrowse, s.nasaURL+consts.PathNeoBrowse, nil)
}
