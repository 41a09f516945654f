package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"nasa/pkg/consts"
	"nasa/pkg/forwarder"
)

const (
	endpointEpic        = "epic"
	endpointEpicArchive = "epic_archive"

	EpicAll       = "all"
	EpicAvailable = "available"
)

var (
	EpicCollections = []string{"natural", "enhanced"}
	EpicImageTypes  = []string{"png", "jpg"}

	ErrUnknownCollection = errors.New("unknown EPIC collection")
	ErrUnknownImageType  = errors.New("unknown EPIC image type")
)

// ArchiveImage addresses one file of the EPIC archive.
type ArchiveImage struct {
	Collection string
	Year       int
	Month      int
	Day        int
	ImageType  string
	FileName   string
}

func (a ArchiveImage) path() string {
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s/%s.%s", a.Collection, a.Year, a.Month, a.Day, a.ImageType, url.PathEscape(a.FileName), a.ImageType)
}

type EpicService struct {
	*base
}

func NewEpicService(b *base) *EpicService {
	return &EpicService{b}
}

// EpicImages lists image metadata of a collection. selector is empty for the most
// recent day, "all", "available" or a YYYY-MM-DD date.
func (s *EpicService) EpicImages(ctx context.Context, collection, selector string) ([]byte, error) {

	if !oneOf(collection, EpicCollections) {
		return nil, ErrUnknownCollection
	}

	u := joinPath(s.epicURL+consts.PathEpicApi, collection)
	var params map[string]string

	switch selector {
	case "":
	case EpicAll, EpicAvailable:
		u = joinPath(u, selector)
	default:
		u = joinPath(u, consts.ParamDate, selector)
		params = map[string]string{consts.ParamDate: selector}
	}

	return s.json(ctx, endpointEpic, u, params)
}

func (s *EpicService) EpicArchive(ctx context.Context, img ArchiveImage) (*forwarder.Response, error) {

	if !oneOf(img.Collection, EpicCollections) {
		return nil, ErrUnknownCollection
	}
	if !oneOf(img.ImageType, EpicImageTypes) {
		return nil, ErrUnknownImageType
	}

	return s.bytes(ctx, endpointEpicArchive, s.epicURL+consts.PathEpicArch+img.path(), nil)
}

func oneOf(v string, list []string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}
