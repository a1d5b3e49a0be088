/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package service runs parsed binding descriptors: out-bindings fire
// HTTP requests when commands arrive, and in-bindings poll for state
// on their configured schedules.
package service

import (
	"context"
	"log"
	"time"

	"github.com/Comcast/httpbind/binding"
	"github.com/Comcast/httpbind/item"
	"github.com/Comcast/httpbind/poll"
	"github.com/Comcast/httpbind/store"
	"github.com/Comcast/httpbind/transform"
	"github.com/Comcast/httpbind/transport"
)

// EngineConf mostly provides limits.
type EngineConf struct {
	// MaxPolls limits the number of scheduled polls.
	MaxPolls int

	// RequestTimeout bounds each outbound HTTP request.
	RequestTimeout time.Duration

	Debug bool
}

func (c *EngineConf) maxPolls() int {
	if c == nil || c.MaxPolls <= 0 {
		return 1024
	}
	return c.MaxPolls
}

func (c *EngineConf) timeout() time.Duration {
	if c == nil || c.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return c.RequestTimeout
}

// Engine owns the binding provider and everything needed to act on
// it: the item catalog, the transformation registry, the poll
// scheduler, the state cache, and couplings for command input and
// state output.
type Engine struct {
	Verbose bool

	conf       *EngineConf
	provider   *binding.Provider
	items      *item.Catalog
	transforms transform.Registry
	storage    store.Storage
	polls      *poll.Polls
	io         Couplings
}

// NewEngine builds an engine and registers the binding of every item
// in the catalog.
//
// A GrammarError or CommandParseError in any item's binding aborts
// construction: a misconfigured catalog is a load-time error.
func NewEngine(ctx context.Context, conf *EngineConf, items *item.Catalog, storage store.Storage, io Couplings) (*Engine, error) {
	provider := binding.NewProvider()

	for _, it := range items.Items {
		if it.Binding == "" {
			continue
		}
		if err := provider.Process(it, it.Binding); err != nil {
			return nil, err
		}
	}

	if storage == nil {
		storage = store.NewMemStorage()
	}

	polls, err := poll.NewPolls(conf.maxPolls())
	if err != nil {
		return nil, err
	}
	polls.Debug = conf != nil && conf.Debug

	return &Engine{
		conf:       conf,
		provider:   provider,
		items:      items,
		transforms: transform.NewRegistry(),
		storage:    storage,
		polls:      polls,
		io:         io,
	}, nil
}

// Provider exposes the engine's binding descriptors.
func (e *Engine) Provider() *binding.Provider {
	return e.provider
}

// SetItem (re)registers an item and its binding.  The item's previous
// descriptor is replaced in full; readers never see a partial one.
func (e *Engine) SetItem(it *item.Item) error {
	if err := it.Check(); err != nil {
		return err
	}
	return e.provider.Process(it, it.Binding)
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.Verbose {
		log.Printf(format, args...)
	}
}

// Loop schedules the polls and processes command events until the
// context is done or the couplings' input is exhausted.
func (e *Engine) Loop(ctx context.Context) error {
	in, out, done, err := e.io.IO(ctx)
	if err != nil {
		return err
	}

	go e.polls.Run(ctx)
	if !e.polls.Wait(time.Second) {
		return poll.NotRunning
	}

	for _, name := range e.provider.PollItemNames() {
		p := &poll.Poll{
			Id:    name,
			Every: time.Duration(e.provider.RefreshMillis(name)) * time.Millisecond,
			F: func(ctx context.Context, p *poll.Poll) {
				e.pollOnce(ctx, p.Id, out)
			},
		}
		if it := e.items.Item(name); it != nil {
			p.Cron = it.PollCron
		}
		if err := e.polls.Add(p); err != nil {
			return err
		}
		e.logf("engine polling %s every %s", name, p.Every)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return nil
		case ev := <-in:
			e.handleCommand(ctx, ev, out)
		}
	}
}

// handleCommand resolves a command event against the item's
// out-bindings and issues the configured request.
func (e *Engine) handleCommand(ctx context.Context, ev CommandEvent, out chan StateUpdate) {
	it := e.items.Item(ev.Item)
	if it == nil {
		log.Printf("engine ignoring command for unknown item '%s'", ev.Item)
		return
	}

	cmd, ok := it.Command(ev.Command)
	if !ok {
		log.Printf("engine: item '%s' doesn't accept command '%s'", ev.Item, ev.Command)
		return
	}

	elem := e.provider.Resolve(ev.Item, binding.LiteralKey(cmd.String()))
	if elem == nil {
		e.logf("engine: no out-binding for %s %s", ev.Item, cmd)
		return
	}

	e.request(ctx, ev.Item, elem, cmd.String())
}

// request issues the HTTP request that an out-binding element
// describes, with the command (or new state) text substituted.
func (e *Engine) request(ctx context.Context, itemName string, elem *binding.Element, text string) {
	now := time.Now()

	req := &transport.Request{
		Id:      itemName,
		Method:  elem.Method,
		URL:     Substitute(elem.URL, text, now, true),
		Body:    Substitute(elem.Body, text, now, false),
		Headers: elem.Headers,
		Debug:   e.conf != nil && e.conf.Debug,
	}

	rctx, cancel := context.WithTimeout(ctx, e.conf.timeout())
	defer cancel()

	err := req.Do(rctx, func(_ context.Context, resp *transport.Response) error {
		if resp.Error != nil {
			return resp.Error
		}
		e.logf("engine %s %s %s -> %s", itemName, req.Method, req.URL, resp.Status)
		if 400 <= resp.StatusCode {
			log.Printf("engine %s %s %s returned %s", itemName, req.Method, req.URL, resp.Status)
		}
		return nil
	})
	if err != nil {
		log.Printf("engine request error for %s: %v", itemName, err)
	}
}

// pollOnce performs one poll for an item: fetch, transform, parse,
// and -- when the state actually changed -- cache, emit, and fire the
// item's CHANGED out-binding.
func (e *Engine) pollOnce(ctx context.Context, itemName string, out chan StateUpdate) {
	var (
		url            = e.provider.PollURL(itemName)
		headers        = e.provider.PollHeaders(itemName)
		transformation = e.provider.PollTransformation(itemName)
	)
	if url == "" {
		return
	}

	req := &transport.Request{
		Id:      itemName,
		Method:  "GET",
		URL:     url,
		Headers: headers,
		Debug:   e.conf != nil && e.conf.Debug,
	}

	rctx, cancel := context.WithTimeout(ctx, e.conf.timeout())
	defer cancel()

	err := req.Do(rctx, func(ctx context.Context, resp *transport.Response) error {
		if resp.Error != nil {
			return resp.Error
		}

		v, err := e.transforms.Apply(ctx, transformation, resp.Body)
		if err != nil {
			return err
		}

		state := e.provider.State(itemName, v)
		if state == nil {
			log.Printf("engine can't parse '%s' as a state for %s", v, itemName)
			return nil
		}

		return e.update(ctx, itemName, state.String(), out)
	})
	if err != nil {
		log.Printf("engine poll error for %s: %v", itemName, err)
	}
}

// update records a polled state and, when it differs from the cached
// one, emits a StateUpdate and fires the item's CHANGED out-binding.
func (e *Engine) update(ctx context.Context, itemName, value string, out chan StateUpdate) error {
	prev, err := e.storage.GetState(ctx, itemName)
	if err != nil {
		return err
	}
	if prev != nil && prev.Value == value {
		e.logf("engine %s unchanged (%s)", itemName, value)
		return nil
	}

	now := time.Now().UTC()
	if err := e.storage.PutState(ctx, &store.ItemState{
		Item:  itemName,
		Value: value,
		At:    now,
	}); err != nil {
		return err
	}

	u := StateUpdate{
		Item:  itemName,
		Value: value,
		At:    now,
	}
	if prev != nil {
		u.Previous = prev.Value
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case out <- u:
	}

	if elem := e.provider.Resolve(itemName, binding.ChangedKey); elem != nil {
		e.request(ctx, itemName, elem, value)
	}

	return nil
}
