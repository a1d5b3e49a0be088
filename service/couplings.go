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

package service

import (
	"context"
	"time"
)

// CommandEvent is an inbound request to send an item a command.
type CommandEvent struct {
	Item    string `json:"item"`
	Command string `json:"command"`
}

// StateUpdate is an outbound notification that an item's state
// changed.
type StateUpdate struct {
	Item     string    `json:"item"`
	Value    string    `json:"value"`
	Previous string    `json:"previous,omitempty"`
	At       time.Time `json:"at"`
}

// Couplings provide channels for command input and state-update
// output.
//
// For example, an implementation could couple an engine to an MQTT
// broker, a WebSocket server, or stdin/stdout.
type Couplings interface {
	// Start initializes the Couplings.
	Start(context.Context) error

	// IO returns the command input channel, the state-update
	// output channel, and a channel that's closed when input is
	// exhausted.
	IO(context.Context) (chan CommandEvent, chan StateUpdate, chan bool, error)

	// Stop shuts down the Couplings.
	Stop(context.Context) error
}
