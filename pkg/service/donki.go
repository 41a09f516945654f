package service

import (
	"context"
	"fmt"

	"nasa/pkg/consts"
)

// DonkiEvents lists the space weather feeds the gateway forwards.
var DonkiEvents = []string{
	"CME", "CMEAnalysis", "GST", "IPS", "FLR", "SEP", "MPC", "RBE", "HSS", "WSAEnlilSimulations", "notifications",
}

type DonkiService struct {
	*base
}

func NewDonkiService(b *base) *DonkiService {
	return &DonkiService{b}
}

// Donki forwards one DONKI feed. start_date and end_date are renamed to the upstream
// camelCase names, end_date defaults to today; every other bound param goes as is.
func (s *DonkiService) Donki(ctx context.Context, event string, p Params) ([]byte, error) {

	if !oneOf(event, DonkiEvents) {
		return nil, fmt.Errorf("unknown DONKI event %q", event)
	}

	params := make(map[string]string, len(p)+1)
	for k, v := range p {
		switch k {
		case consts.ParamStartDate:
			params[consts.UpstreamStartDate] = v
		case consts.ParamEndDate:
			params[consts.UpstreamEndDate] = v
		default:
			params[k] = v
		}
	}

	if _, ok := params[consts.UpstreamEndDate]; !ok {
		params[consts.UpstreamEndDate] = s.today()
	}

	return s.json(ctx, "donki_"+event, s.nasaURL+consts.PathDonki+event, params)
}
