package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"nasa"
	"nasa/pkg/consts"
	"nasa/pkg/forwarder"
	"nasa/pkg/normalizer"
	"nasa/pkg/repository"
)

var ErrArchiveDisabled = errors.New("archive disabled")

// Params is the bound inbound parameter set. A missing key is an absent value.
type Params map[string]string

// Fetcher is the outbound side, satisfied by *forwarder.Forwarder.
type Fetcher interface {
	Get(ctx context.Context, r forwarder.Request) (*forwarder.Response, error)
}

type Planetary interface {
	Apod(ctx context.Context, p Params) ([]nasa.APODRecord, error)
	EarthImagery(ctx context.Context, p Params) (*forwarder.Response, error)
	EarthAssets(ctx context.Context, p Params) ([]byte, error)
}

type NearEarth interface {
	NeoFeed(ctx context.Context, p Params) ([]nasa.NEORecord, error)
	NeoBrowse(ctx context.Context) ([]byte, error)
}

type SpaceWeather interface {
	Donki(ctx context.Context, event string, p Params) ([]byte, error)
}

type Epic interface {
	EpicImages(ctx context.Context, collection, selector string) ([]byte, error)
	EpicArchive(ctx context.Context, img ArchiveImage) (*forwarder.Response, error)
}

type Archive interface {
	History(ctx context.Context, start, end time.Time) ([]nasa.APODRecord, error)
	ArchiveToday(ctx context.Context) error
}

type Service struct {
	Planetary
	NearEarth
	SpaceWeather
	Epic
	Archive
}

type Options struct {
	NasaURL   string
	EpicURL   string
	NeoLookup normalizer.Lookup
	// Now is the clock for date defaulting, time.Now when nil.
	Now func() time.Time
}

func NewService(f Fetcher, repos *repository.Repository, opts Options) *Service {

	b := &base{
		fetcher:   f,
		nasaURL:   strings.TrimRight(opts.NasaURL, "/"),
		epicURL:   strings.TrimRight(opts.EpicURL, "/"),
		neoLookup: opts.NeoLookup,
		now:       opts.Now,
	}
	if b.now == nil {
		b.now = time.Now
	}

	archive := NewArchiveService(b, repos.Picture)

	return &Service{
		Planetary:    NewPlanetaryService(b, archive),
		NearEarth:    NewNeoService(b),
		SpaceWeather: NewDonkiService(b),
		Epic:         NewEpicService(b),
		Archive:      archive,
	}
}

// base holds what every upstream family shares.
type base struct {
	fetcher   Fetcher
	nasaURL   string
	epicURL   string
	neoLookup normalizer.Lookup
	now       func() time.Time
}

func (b *base) today() string {
	return b.now().Format(consts.TimeFormat)
}

// json fetches and pretty prints an upstream JSON answer.
func (b *base) json(ctx context.Context, endpoint, u string, params map[string]string) ([]byte, error) {

	resp, err := b.fetcher.Get(ctx, forwarder.Request{
		Endpoint: endpoint,
		URL:      u,
		Params:   params,
		Accept:   forwarder.AcceptJSON,
	})
	if err != nil {
		return nil, err
	}

	return normalizer.Pretty(resp.Body)
}

func (b *base) bytes(ctx context.Context, endpoint, u string, params map[string]string) (*forwarder.Response, error) {
	return b.fetcher.Get(ctx, forwarder.Request{
		Endpoint: endpoint,
		URL:      u,
		Params:   params,
		Accept:   forwarder.AcceptImage,
	})
}

// pick copies the present inbound params under their upstream names.
// names maps inbound name to upstream name.
func pick(p Params, names map[string]string) map[string]string {
	out := make(map[string]string, len(names))
	for in, up := range names {
		if v, ok := p[in]; ok {
			out[up] = v
		}
	}
	return out
}

func joinPath(base string, elems ...string) string {
	for i, e := range elems {
		elems[i] = url.PathEscape(e)
	}
	return base + "/" + strings.Join(elems, "/")
}
