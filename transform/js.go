package transform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/dop251/goja"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Transform if the script is
	// interrupted by its context.
	Interrupted = errors.New(InterruptedMessage)
)

// JS applies the JS(source) transformation using Goja, a Go
// implementation of ECMAScript 5.1+.
//
// See https://github.com/dop251/goja.
//
// The parameter is either inline script source or a link
// ("file://lights.js", "http://...") resolved by the SourceProvider.
// The script sees the input at 'input' (also at '_.input'), and its
// last expression is the transformation's result.
type JS struct {
	// SourceProvider resolves a link parameter into script
	// source.  When nil, DefaultSourceProvider is used.
	SourceProvider func(ctx context.Context, link string) (string, error)
}

// NewJS makes a new JS transformer.
func NewJS() *JS {
	return &JS{}
}

var DefaultSourceProvider = MakeFileSourceProvider(".")

// MakeFileSourceProvider supports links with protocols of "file",
// "http", and "https".  There currently is no additional control when
// using HTTP/HTTPS.
func MakeFileSourceProvider(dir string) func(context.Context, string) (string, error) {
	return func(ctx context.Context, link string) (string, error) {
		parts := strings.SplitN(link, "://", 2)
		if 2 != len(parts) {
			return "", fmt.Errorf("bad link '%s'", link)
		}
		switch parts[0] {
		case "file":
			// ToDo: Maybe protest any ".."?
			bs, err := ioutil.ReadFile(dir + "/" + parts[1])
			if err != nil {
				return "", err
			}
			return string(bs), nil
		case "http", "https":
			req, err := http.NewRequest("GET", link, nil)
			if err != nil {
				return "", err
			}
			req = req.WithContext(ctx)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return "", err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return "", fmt.Errorf("script fetch status %s %d",
					resp.Status, resp.StatusCode)
			}
			bs, err := ioutil.ReadAll(resp.Body)
			if err != nil {
				return "", err
			}
			return string(bs), nil
		default:
			return "", fmt.Errorf("unknown protocol '%s'", parts[0])
		}
	}
}

func (t *JS) source(ctx context.Context, param string) (string, error) {
	if !strings.Contains(param, "://") {
		return param, nil
	}
	if t.SourceProvider != nil {
		return t.SourceProvider(ctx, param)
	}
	return DefaultSourceProvider(ctx, param)
}

func (t *JS) Transform(ctx context.Context, param, input string) (string, error) {
	src, err := t.source(ctx, param)
	if err != nil {
		return "", err
	}

	p, err := goja.Compile("", src, true)
	if err != nil {
		return "", err
	}

	o := goja.New()

	env := map[string]interface{}{
		"input": input,
	}

	env["esc"] = func(x interface{}) interface{} {
		switch vv := x.(type) {
		case goja.Value:
			x = vv.Export()
		}
		s, is := x.(string)
		if !is {
			panic(o.ToValue("not a string"))
		}
		return url.QueryEscape(s)
	}

	env["log"] = func(x interface{}) interface{} {
		switch vv := x.(type) {
		case goja.Value:
			x = vv.Export()
		}
		js, err := json.Marshal(&x)
		if err != nil {
			log.Println("transform.JS log (can't marshal: " + err.Error() + ")")
		} else {
			log.Println(string(js))
		}
		return x
	}

	o.Set("_", env)
	o.Set("input", input)

	// We want to make sure that the following goroutine is
	// terminated as soon as possible.
	ictx, cancel := context.WithCancel(ctx)
	go func() {
		<-ictx.Done()
		// If Transform calls cancel() after RunProgram
		// returns, we'll never see this InterruptedMessage,
		// which is actually the behavior we want.  In this
		// case, we weren't actually interrupted.
		o.Interrupt(InterruptedMessage)
	}()

	v, err := o.RunProgram(p)
	cancel()

	if err != nil {
		if _, is := err.(*goja.InterruptedError); is {
			return "", Interrupted
		}
		return "", err
	}

	switch vv := v.Export().(type) {
	case string:
		return vv, nil
	case nil:
		return "", errors.New("JS transformation returned nothing")
	default:
		js, err := json.Marshal(&vv)
		if err != nil {
			return "", err
		}
		return string(js), nil
	}
}
