package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/AndFroSwe/ExcSerial/internal/status"
)

const (
	// queueCapacity bounds how many events are held waiting for the
	// broker, whether it is slow or unreachable.
	queueCapacity = 256

	connectTimeout = 10 * time.Second

	// defaultPublishTimeout bounds one delivery confirmation wait on
	// the publish goroutine.
	defaultPublishTimeout = 5 * time.Second

	// disconnectQuiesceMs gives paho time to flush in-flight messages.
	disconnectQuiesceMs = 1000
)

// Publisher mirrors status events to an MQTT broker. It implements
// status.Emitter.
//
// Emit never waits on the broker: it queues the formatted payload and
// returns. A publisher-owned goroutine performs the publish and the
// delivery-confirmation wait, so a slow or unreachable broker delays
// only the mirror, never the caller. The queue is fixed-capacity with
// the oldest message dropped on overflow, and messages queued while the
// broker is unreachable are replayed on reconnect.
type Publisher struct {
	client  paho.Client
	tracker *status.Tracker
	log     zerolog.Logger

	publishTimeout time.Duration

	mu        sync.Mutex
	cond      *sync.Cond
	queue     *sendQueue
	connected bool
	closed    bool

	done chan struct{} // publish goroutine has exited
}

// newPublisher builds a Publisher without a client or a running publish
// goroutine. NewPublisher finishes the job; tests plug in their own
// client and call start directly.
func newPublisher(tracker *status.Tracker, log zerolog.Logger) *Publisher {
	p := &Publisher{
		tracker:        tracker,
		log:            log,
		publishTimeout: defaultPublishTimeout,
		queue:          newSendQueue(queueCapacity),
		done:           make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// NewPublisher connects to the given broker and starts the publish
// goroutine. The tracker feeds the full-snapshot lifecycle payloads and
// records broker connectivity; a last will marks an unclean disconnect.
func NewPublisher(broker, clientID string, tracker *status.Tracker, log zerolog.Logger) (*Publisher, error) {
	p := newPublisher(tracker, log)

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(p.onConnectionLost).
		SetBinaryWill(TopicSystem, willPayload(time.Now()), 1, true)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	p.client = client
	p.start()
	return p, nil
}

// start launches the publish goroutine. The client must be set.
func (p *Publisher) start() {
	go p.publishLoop()
}

// Emit queues one event for publishing and returns without waiting for
// the broker. Progress goes to the events topic; lifecycle events go to
// the system topic with a full status snapshot, captured here so it
// reflects the state at event time.
func (p *Publisher) Emit(ev status.Event) error {
	topic, qos, retained := route(ev.Kind)

	var payload []byte
	if topic == TopicSystem {
		payload = status.FormatStatusEvent(p.tracker.Snapshot(), string(ev.Kind), ev.Description)
	} else {
		var err error
		payload, err = FormatEventPayload(ev)
		if err != nil {
			return fmt.Errorf("format payload: %w", err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("publisher closed")
	}
	p.queue.push(queuedMessage{topic: topic, payload: payload, qos: qos, retained: retained})
	p.cond.Signal()
	return nil
}

// Close stops the publish goroutine and disconnects from the broker.
// The wait for pending deliveries is bounded so a stuck broker cannot
// hold up process exit.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.cond.Signal()
	p.mu.Unlock()

	select {
	case <-p.done:
	case <-time.After(p.publishTimeout):
	}
	p.client.Disconnect(disconnectQuiesceMs)
	return nil
}

// publishLoop delivers queued messages one at a time while the broker
// is connected. On Close it makes a final attempt to flush the queue
// before exiting.
func (p *Publisher) publishLoop() {
	defer close(p.done)

	p.mu.Lock()
	for {
		for !p.closed && (!p.connected || p.queue.len() == 0) {
			p.cond.Wait()
		}
		if p.closed {
			break
		}
		m, dropped := p.queue.pop()
		p.mu.Unlock()

		if dropped > 0 {
			p.log.Warn().Int("dropped", dropped).Msg("mqtt queue overflowed, oldest dropped")
		}
		p.deliver(m)

		p.mu.Lock()
	}

	queued, dropped := p.queue.drain()
	connected := p.connected
	p.mu.Unlock()

	if dropped > 0 {
		p.log.Warn().Int("dropped", dropped).Msg("mqtt queue overflowed, oldest dropped")
	}
	if !connected {
		return
	}
	for _, m := range queued {
		p.deliver(m)
	}
}

// deliver publishes one message and waits, bounded, for confirmation.
// Failures are logged and the message is dropped; the stream itself
// never depends on the mirror.
func (p *Publisher) deliver(m queuedMessage) {
	token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	if !token.WaitTimeout(p.publishTimeout) {
		p.log.Warn().Str("topic", m.topic).Msg("publish confirmation timed out")
		return
	}
	if err := token.Error(); err != nil {
		p.log.Warn().Err(err).Str("topic", m.topic).Msg("publish failed")
	}
}

// onConnect fires on the initial connect and every reconnect. It wakes
// the publish goroutine so anything queued while the broker was
// unreachable gets replayed.
func (p *Publisher) onConnect(_ paho.Client) {
	if p.tracker != nil {
		p.tracker.SetMQTTConnected(true)
	}

	p.mu.Lock()
	p.connected = true
	queued := p.queue.len()
	p.cond.Signal()
	p.mu.Unlock()

	if queued > 0 {
		p.log.Info().Int("queued", queued).Msg("mqtt connected, replaying queued events")
	} else {
		p.log.Info().Msg("mqtt connected")
	}
}

func (p *Publisher) onConnectionLost(_ paho.Client, err error) {
	if p.tracker != nil {
		p.tracker.SetMQTTConnected(false)
	}

	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()

	p.log.Warn().Err(err).Msg("mqtt connection lost")
}
