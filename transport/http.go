// Package transport issues the HTTP requests that bindings describe.
package transport

import (
	"bytes"
	"context"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/Comcast/httpbind/binding"

	"golang.org/x/net/publicsuffix"
)

type Jar struct {
	*cookiejar.Jar
	Kookies []*http.Cookie `json:"cookies"`
}

func NewJar() (*Jar, error) {
	cookieJar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &Jar{Jar: cookieJar}, nil
}

func (j *Jar) AddCookies(cs []*http.Cookie) {
	if j.Kookies == nil {
		j.Kookies = make([]*http.Cookie, 0, 2*len(cs))
	}
	j.Kookies = append(j.Kookies, cs...)
}

// Request is one HTTP request derived from a binding element.
type Request struct {
	Id        string          `json:"id,omitempty"`
	Method    string          `json:"method,omitempty"`
	URL       string          `json:"url"`
	Body      string          `json:"body,omitempty"`
	Headers   binding.Headers `json:"headers,omitempty"`
	CookieJar *Jar            `json:"jar,omitempty"`

	Debug bool `json:"debug,omitempty"`

	// TestResponse, if there, will be returned instead of
	// attempting a real HTTP request.
	TestResponse *Response
}

type Response struct {
	StatusCode  int         `json:"statusCode"`
	Status      string      `json:"status"`
	Error       error       `json:"error,omitempty"`
	Headers     http.Header `json:"headers,omitempty"`
	Body        string      `json:"body,omitempty"`
	ContentType string      `json:"contentType,omitempty"`
	Request     *Request    `json:"request,omitempty"`
}

func (r *Request) logf(format string, args ...interface{}) {
	if r.Debug {
		log.Printf(format, args...)
	}
}

// Do is the low-level, synchronous method to make the request and
// call the handler with the result.
//
// Timeouts and cancellation come from the context.
func (r *Request) Do(ctx context.Context, handler func(context.Context, *Response) error) error {
	if r.TestResponse != nil {
		r.TestResponse.Request = r
		return handler(ctx, r.TestResponse)
	}

	u, err := url.Parse(r.URL)
	if err != nil {
		return err
	}

	req := &http.Request{
		Method: r.Method,
		URL:    u,
		Header: make(http.Header, len(r.Headers)),
	}

	// Binding headers keep duplicates, so Add (not Set).
	for _, h := range r.Headers {
		req.Header.Add(h.Key, h.Value)
	}

	if r.Body != "" {
		req.Body = ioutil.NopCloser(bytes.NewReader([]byte(r.Body)))
	}

	// http.Request doesn't itself support CookieJars; instead,
	// http.Client does.  http.Client includes cached TCP
	// connections, so we shouldn't create http.Clients for each
	// request.  So we use a CookieJar manually with this request.

	if r.CookieJar != nil {
		for i, cookie := range r.CookieJar.Cookies(u) {
			r.logf("adding cookie %d: %#v", i, cookie)
			req.AddCookie(cookie)
		}
	}

	req = req.WithContext(ctx)

	result := &Response{
		Request: r,
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		r.logf("transport.Request.Do error %v", err)
		result.Error = err
		return handler(ctx, result)
	}

	result.Headers = resp.Header
	result.Status = resp.Status
	result.StatusCode = resp.StatusCode
	result.ContentType = resp.Header.Get("Content-Type")

	body, err := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		r.logf("transport.Request.Do ReadAll error %v", err)
		result.Error = err
		return handler(ctx, result)
	}
	result.Body = string(body)

	if r.CookieJar != nil {
		r.logf("transport.Request.Do updating cookies")
		r.CookieJar.SetCookies(u, resp.Cookies())
		r.CookieJar.AddCookies(resp.Cookies())
	}

	return handler(ctx, result)
}
