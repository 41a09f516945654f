package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"nasa/pkg/consts"
	"nasa/pkg/forwarder"
	srvc "nasa/pkg/service"

	"github.com/sirupsen/logrus"
)

// вытягивает время из запроса
func getTimeParam(r *http.Request, name string) time.Time {

	if r == nil {
		return time.Time{}
	}

	t, err := time.Parse(consts.TimeFormat, r.URL.Query().Get(name))
	if err != nil {
		return time.Time{}
	}

	return t
}

// вытягивает строку из запроса, добавил эту функцию чтобы было +- в одном стиле
func getStringParam(r *http.Request, name string) string {

	if r == nil {
		return ""
	}

	return r.URL.Query().Get(name)
}

// BindingError means an inbound parameter could not be read as its declared type.
type BindingError struct {
	Param string
	Value string
	Want  string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("invalid value %q for parameter %q: expected %s", e.Value, e.Param, e.Want)
}

// binder collects the inbound query into service params, applying declared defaults.
// An absent param without a default stays absent. The first bad value wins.
type binder struct {
	r      *http.Request
	params srvc.Params
	err    error
}

func newBinder(r *http.Request) *binder {
	return &binder{r: r, params: srvc.Params{}}
}

func (b *binder) lookup(name string) (string, bool) {
	q := b.r.URL.Query()
	if !q.Has(name) {
		return "", false
	}
	return q.Get(name), true
}

func (b *binder) str(name, def string) *binder {
	if v, ok := b.lookup(name); ok {
		b.params[name] = v
	} else if def != "" {
		b.params[name] = def
	}
	return b
}

func (b *binder) boolean(name, def string) *binder {
	return b.typed(name, def, "a boolean", func(v string) (string, error) {
		x, err := strconv.ParseBool(v)
		return strconv.FormatBool(x), err
	})
}

func (b *binder) integer(name, def string) *binder {
	return b.typed(name, def, "an integer", func(v string) (string, error) {
		x, err := strconv.ParseInt(v, 10, 32)
		return strconv.FormatInt(x, 10), err
	})
}

func (b *binder) float(name, def string) *binder {
	return b.typed(name, def, "a number", func(v string) (string, error) {
		x, err := strconv.ParseFloat(v, 32)
		return strconv.FormatFloat(x, 'f', -1, 32), err
	})
}

func (b *binder) typed(name, def, want string, conv func(string) (string, error)) *binder {

	if b.err != nil {
		return b
	}

	v, ok := b.lookup(name)
	if !ok {
		if def != "" {
			b.params[name] = def
		}
		return b
	}

	out, err := conv(v)
	if err != nil {
		b.err = &BindingError{Param: name, Value: v, Want: want}
		return b
	}

	b.params[name] = out
	return b
}

func (b *binder) result() (srvc.Params, error) {
	return b.params, b.err
}

// описание ответа сервера для ошибок и служебных сообщений
type Response struct {
	Message string `json:"message"`
}

// чтобы не плодить один и тот же код, я вынес ответ от сервера в одну функцию
func sendResponse(w http.ResponseWriter, status int, msg string) {
	sendJSON(w, status, Response{Message: msg})
}

func sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("error while sending response %q", err)
	}
}

// sendPretty writes an already pretty printed upstream JSON body.
func sendPretty(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil {
		logrus.Errorf("error while sending response %q", err)
	}
}

// sendBytes relays an image answer with its upstream content type.
func sendBytes(w http.ResponseWriter, status int, resp *forwarder.Response) {

	ct := resp.ContentType
	if ct == "" {
		ct = "image/png"
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.WriteHeader(status)

	if _, err := w.Write(resp.Body); err != nil {
		logrus.Errorf("error while sending response %q", err)
	}
}
