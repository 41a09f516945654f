package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"nasa"
	"nasa/pkg/consts"
	"nasa/pkg/forwarder"
	"nasa/pkg/metrics"
	"nasa/pkg/normalizer"
	srvc "nasa/pkg/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const apiPrefix = "/api/nasa"

type Handler struct {
	services *srvc.Service
	limiter  *rate.Limiter
}

func NewHandler(services *srvc.Service) *Handler {
	return &Handler{services: services}
}

// WithRateLimit puts one token bucket in front of every /api/nasa route.
// rps <= 0 leaves the routes unlimited.
func (h *Handler) WithRateLimit(rps float64, burst int) *Handler {
	if rps > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return h
}

func (h *Handler) InitRoutes() *mux.Router {

	router := mux.NewRouter()
	router.Use(logRequests, metrics.Middleware)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix(apiPrefix).Subrouter()
	if h.limiter != nil {
		api.Use(limit(h.limiter))
	}

	api.HandleFunc("/apod", h.Apod).Methods(http.MethodGet)
	api.HandleFunc("/planetary/apod", h.Apod).Methods(http.MethodGet)
	api.HandleFunc("/apod/history", h.ApodHistory).Methods(http.MethodGet)

	api.HandleFunc("/neo/feed", h.NeoFeed).Methods(http.MethodGet)
	api.HandleFunc("/neo/browse", h.NeoBrowse).Methods(http.MethodGet)

	for _, event := range srvc.DonkiEvents {
		api.HandleFunc("/DONKI/"+event, h.donki(event)).Methods(http.MethodGet)
	}

	api.HandleFunc("/planetary/earth/imagery", h.EarthImagery).Methods(http.MethodGet)
	api.HandleFunc("/planetary/earth/assets", h.EarthAssets).Methods(http.MethodGet)

	api.HandleFunc("/EPIC/archive/{collection}/{year}/{month}/{day}/{imageType}/{fileName}.{ext}", h.EpicArchive).Methods(http.MethodGet)
	api.HandleFunc("/EPIC/{collection}", h.EpicImages).Methods(http.MethodGet)
	api.HandleFunc("/EPIC/{collection}/{selector}", h.EpicImages).Methods(http.MethodGet)

	return router
}

func (h *Handler) Apod(w http.ResponseWriter, r *http.Request) {

	// count, start_date и end_date проверяются по типу, но дальше не уходят
	p, err := newBinder(r).
		boolean(consts.ParamConceptTags, consts.False).
		str(consts.ParamDate, "").
		boolean(consts.ParamHd, consts.False).
		integer(consts.ParamCount, "10").
		str(consts.ParamStartDate, "").
		str(consts.ParamEndDate, "").
		boolean(consts.ParamThumbs, consts.False).
		result()
	if err != nil {
		sendResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.services.Apod(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, nasa.APODResponse{Info: records})
}

// функция ищет сохранённые записи APOD, по дате или по диапазону дат
func (h *Handler) ApodHistory(w http.ResponseWriter, r *http.Request) {

	var start, end time.Time
	if getStringParam(r, consts.ParamDate) != "" {
		start = getTimeParam(r, consts.ParamDate)
		end = start
	} else {
		start, end = getTimeParam(r, consts.ParamStartDate), getTimeParam(r, consts.ParamEndDate)
	}

	if start.IsZero() || end.IsZero() || end.Before(start) {
		sendResponse(w, http.StatusBadRequest, "invalid request params")
		return
	}

	records, err := h.services.History(r.Context(), start, end)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, nasa.APODResponse{Info: records})
}

func (h *Handler) NeoFeed(w http.ResponseWriter, r *http.Request) {

	p, err := newBinder(r).
		str(consts.ParamStartDate, "").
		str(consts.ParamEndDate, "").
		boolean(consts.ParamDetailed, consts.True).
		result()
	if err != nil {
		sendResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.services.NeoFeed(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, nasa.NEOFeedResponse{NearEarthObjects: records})
}

func (h *Handler) NeoBrowse(w http.ResponseWriter, r *http.Request) {

	body, err := h.services.NeoBrowse(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sendPretty(w, body)
}

func (h *Handler) donki(event string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		b := newBinder(r).
			str(consts.ParamStartDate, "").
			str(consts.ParamEndDate, "")

		switch event {
		case "CMEAnalysis":
			b.boolean(consts.ParamMostAccurateOnly, consts.True).
				boolean(consts.ParamCompleteEntryOnly, consts.True).
				integer(consts.ParamSpeed, "0").
				integer(consts.ParamHalfAngle, "0").
				str(consts.ParamCatalog, "ALL").
				str(consts.ParamKeyword, "NONE")
		case "IPS":
			b.str(consts.ParamLocation, "ALL").
				str(consts.ParamCatalog, "ALL")
		case "notifications":
			b.str(consts.ParamType, "all")
		}

		p, err := b.result()
		if err != nil {
			sendResponse(w, http.StatusBadRequest, err.Error())
			return
		}

		body, err := h.services.Donki(r.Context(), event, p)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		sendPretty(w, body)
	}
}

func (h *Handler) EarthImagery(w http.ResponseWriter, r *http.Request) {

	p, err := newBinder(r).
		float(consts.ParamLatitude, "").
		float(consts.ParamLongitude, "").
		float(consts.ParamDim, "0.025").
		str(consts.ParamDate, "").
		result()
	if err != nil {
		sendResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.services.EarthImagery(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sendBytes(w, http.StatusOK, resp)
}

func (h *Handler) EarthAssets(w http.ResponseWriter, r *http.Request) {

	p, err := newBinder(r).
		float(consts.ParamLatitude, "1.5").
		float(consts.ParamLongitude, "100.75").
		float(consts.ParamDim, "0.025").
		str(consts.ParamDate, "").
		result()
	if err != nil {
		sendResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := h.services.EarthAssets(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sendPretty(w, body)
}

func (h *Handler) EpicImages(w http.ResponseWriter, r *http.Request) {

	vars := mux.Vars(r)

	body, err := h.services.EpicImages(r.Context(), vars["collection"], vars["selector"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sendPretty(w, body)
}

func (h *Handler) EpicArchive(w http.ResponseWriter, r *http.Request) {

	vars := mux.Vars(r)

	img := srvc.ArchiveImage{
		Collection: vars["collection"],
		ImageType:  vars["imageType"],
		FileName:   vars["fileName"],
	}

	for _, v := range []struct {
		name string
		dst  *int
	}{
		{"year", &img.Year},
		{"month", &img.Month},
		{"day", &img.Day},
	} {
		n, err := strconv.Atoi(vars[v.name])
		if err != nil {
			sendResponse(w, http.StatusBadRequest, (&BindingError{Param: v.name, Value: vars[v.name], Want: "an integer"}).Error())
			return
		}
		*v.dst = n
	}

	// расширение файла обязано совпадать с типом картинки
	if vars["ext"] != img.ImageType {
		sendResponse(w, http.StatusNotFound, "file extension does not match image type")
		return
	}

	resp, err := h.services.EpicArchive(r.Context(), img)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sendBytes(w, http.StatusOK, resp)
}

// fail maps a service error to a response. Upstream non-2xx answers are relayed untouched.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {

	var se *forwarder.StatusError
	var fe *normalizer.FieldError

	switch {
	case errors.As(err, &se):
		logrus.Warnf("upstream answered %d on %s", se.StatusCode, r.URL.Path)
		if se.ContentType != "" {
			w.Header().Set("Content-Type", se.ContentType)
		}
		w.WriteHeader(se.StatusCode)
		w.Write(se.Body)

	case errors.Is(err, srvc.ErrArchiveDisabled),
		errors.Is(err, srvc.ErrUnknownCollection),
		errors.Is(err, srvc.ErrUnknownImageType):
		sendResponse(w, http.StatusNotFound, err.Error())

	case errors.As(err, &fe):
		logrus.Errorf("normalization failed on %s: %q", r.URL.Path, err)
		sendResponse(w, http.StatusInternalServerError, err.Error())

	default:
		logrus.Errorf("request %s failed: %q", r.URL.Path, err)
		sendResponse(w, http.StatusInternalServerError, err.Error())
	}
}
