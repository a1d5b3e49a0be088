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

package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Comcast/httpbind/service"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTCouplings is a service.Couplings for an MQTT client.
//
// Commands arrive on TopicPrefix/command/ITEM with the command text as
// the payload (or a JSON CommandEvent on TopicPrefix/command), and
// state updates go out as JSON on TopicPrefix/state/ITEM.
type MQTTCouplings struct {
	Client      mqtt.Client
	Quiesce     uint
	TopicPrefix string
	QoS         byte

	InTimeout time.Duration

	ctx      context.Context
	incoming chan service.CommandEvent
	outbound chan service.StateUpdate
	done     chan bool
}

func NewMQTTCouplings(args []string) (*MQTTCouplings, *flag.FlagSet) {
	var (
		// Follow mosquitto_sub command line args.

		fs = flag.NewFlagSet("mq", flag.ExitOnError)

		broker      = fs.String("h", "tcp://localhost", "Broker hostname")
		clientId    = fs.String("i", "", "Client id")
		port        = fs.Int("p", 1883, "Broker port")
		keepAlive   = fs.Int("k", 10, "Keep-alive in seconds")
		userName    = fs.String("u", "", "Username")
		password    = fs.String("P", "", "Password")
		willTopic   = fs.String("will-topic", "", "Optional will topic")
		willPayload = fs.String("will-payload", "", "Optional will message")
		willQoS     = fs.Int("will-qos", 0, "Optional will QoS")
		willRetain  = fs.Bool("will-retain", false, "Optional will retention")
		reconnect   = fs.Bool("reconnect", false, "Automatically attempt to reconnect")
		clean       = fs.Bool("c", true, "Clean session")
		quiesce     = fs.Int("quiesce", 100, "Disconnection quiescence (in milliseconds)")

		certFilename = fs.String("cert", "", "Optional cert filename")
		keyFilename  = fs.String("key", "", "Optional key filename")
		insecure     = fs.Bool("insecure", false, "Skip broker cert checking")
		caFilename   = fs.String("cafile", "", "Optional CA cert filename")
		caPath       = fs.String("capath", "", "Optional path to CA cert filename")

		topicPrefix = fs.String("prefix", "httpbind", "Topic prefix for command/state topics")
		qos         = fs.Int("qos", 0, "QoS for subscriptions and publications")
		inTimeout   = fs.Duration("in-timeout", time.Second, "timeout for in-bound queuing")
	)

	if args == nil {
		return nil, fs
	}

	fs.Parse(args)

	mqtt.ERROR = log.New(os.Stderr, "mqtt.error", 0)

	opts := mqtt.NewClientOptions()

	*broker = fmt.Sprintf("%s:%d", *broker, *port)
	opts.AddBroker(*broker)
	opts.SetClientID(*clientId)
	opts.SetKeepAlive(time.Second * time.Duration(*keepAlive))

	opts.Username = *userName
	opts.Password = *password
	opts.AutoReconnect = *reconnect
	opts.CleanSession = *clean

	if *willTopic != "" {
		if *willPayload == "" {
			log.Fatal("will topic without payload")
		}
		opts.WillEnabled = true
		opts.WillTopic = *willTopic
		opts.WillPayload = []byte(*willPayload)
		opts.WillRetained = *willRetain
		opts.WillQos = byte(*willQoS)
	}

	var rootCAs *x509.CertPool
	{
		if *caPath != "" {
			if rootCAs, _ = x509.SystemCertPool(); rootCAs == nil {
				rootCAs = x509.NewCertPool()
				log.Printf("Including system CA certs")
			}

			if !strings.HasSuffix(*caPath, "/") {
				*caPath += "/"
			}
			filename := *caPath + *caFilename
			certs, err := ioutil.ReadFile(filename)
			if err != nil {
				log.Fatalf("couldn't read '%s': %s", filename, err)
			}

			if ok := rootCAs.AppendCertsFromPEM(certs); !ok {
				log.Println("No certs appended, using system certs only")
			}
		}
	}

	var certs []tls.Certificate
	if *keyFilename != "" {
		cert, err := tls.LoadX509KeyPair(*certFilename, *keyFilename)
		if err != nil {
			log.Fatal(err)
		}
		certs = []tls.Certificate{cert}
	}

	tlsConf := &tls.Config{
		InsecureSkipVerify: *insecure,
	}

	if rootCAs != nil {
		tlsConf.RootCAs = rootCAs
	}

	if certs != nil {
		tlsConf.Certificates = certs
	}

	opts.SetTLSConfig(tlsConf)

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost")
	}

	io := &MQTTCouplings{
		Quiesce:     uint(*quiesce),
		TopicPrefix: strings.TrimSuffix(*topicPrefix, "/"),
		QoS:         byte(*qos),
		InTimeout:   *inTimeout,

		incoming: make(chan service.CommandEvent),
		outbound: make(chan service.StateUpdate),
		done:     make(chan bool),
	}

	// The context arrives later, in Start; Paho only delivers after
	// Connect, so the handler never runs with a nil one.
	opts.DefaultPublishHandler = func(client mqtt.Client, msg mqtt.Message) {
		io.inHandler(io.ctx, client, msg)
	}

	io.Client = mqtt.NewClient(opts)

	return io, fs
}

// inHandler is a Paho publish handler, which is used to handle
// messages sent to us from the MQTT broker due to our subscriptions.
func (c *MQTTCouplings) inHandler(ctx context.Context, client mqtt.Client, msg mqtt.Message) {
	log.Printf("incoming: %s %s\n", msg.Topic(), msg.Payload())
	var (
		payload = msg.Payload()
		topic   = msg.Topic()

		ev service.CommandEvent
	)

	if item, has := c.commandItem(topic); has && item != "" {
		ev.Item = item
		ev.Command = strings.TrimSpace(string(payload))
	} else if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("Couldn't parse payload as a command event: %s", payload)
		return
	}

	to := time.NewTimer(c.InTimeout)

	select {
	case <-ctx.Done():
		log.Printf("Couplings not forwarding due to ctx.Done()")
	case c.incoming <- ev:
		log.Printf("Couplings forwarded incoming %s", payload)
	case <-to.C:
		log.Printf("Couplings not forwarding due to stall")
	}
}

// commandItem extracts the item name from a PREFIX/command/ITEM topic.
func (c *MQTTCouplings) commandItem(topic string) (string, bool) {
	prefix := c.TopicPrefix + "/command/"
	if strings.HasPrefix(topic, prefix) {
		return topic[len(prefix):], true
	}
	return "", false
}

// Start creates the MQTT session and subscribes to the command topics.
func (c *MQTTCouplings) Start(ctx context.Context) error {
	c.ctx = ctx

	log.Printf("Attempting to connect to broker")
	if token := c.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("Connected to broker")

	for _, topic := range []string{
		c.TopicPrefix + "/command",
		c.TopicPrefix + "/command/#",
	} {
		log.Printf("Subscribing to %s (%d)", topic, c.QoS)
		if t := c.Client.Subscribe(topic, c.QoS, nil); t.Wait() && t.Error() != nil {
			return t.Error()
		}
	}
	log.Printf("Couplings started")

	go c.outLoop(ctx)

	return nil
}

// IO returns the channels that NewMQTTCouplings initialized.
func (c *MQTTCouplings) IO(ctx context.Context) (chan service.CommandEvent, chan service.StateUpdate, chan bool, error) {
	return c.incoming, c.outbound, c.done, nil
}

// outLoop forwards state updates from the engine to the MQTT broker.
func (c *MQTTCouplings) outLoop(ctx context.Context) error {
LOOP:
	for {
		select {
		case <-ctx.Done():
			break LOOP
		case u := <-c.outbound:
			js, err := json.Marshal(&u)
			if err != nil {
				log.Printf("Failed to marshal %#v", u)
				continue
			}
			topic := c.TopicPrefix + "/state/" + u.Item
			token := c.Client.Publish(topic, c.QoS, false, js)
			token.Wait()
			if token.Error() != nil {
				log.Fatalf("Publish error: %s", token.Error())
			}
		}
	}
	return nil
}

// Stop terminates the MQTT session.
func (c *MQTTCouplings) Stop(ctx context.Context) error {
	log.Printf("Disconnecting")
	c.Client.Disconnect(c.Quiesce)
	close(c.done)
	return nil
}
