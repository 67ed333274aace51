// Package eventbus publishes booking notification events to RabbitMQ.
//
// Each event type goes to a durable queue named after it, through the default exchange.
// Messages are persistent. Delivery to customers is the consumers' business.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultDialTimeout      = 3 * time.Second
	defaultRetryInterval    = time.Second
	defaultRetryMaxInterval = time.Minute
	heartbeat               = 10 * time.Second
)

// Option configures the publisher
type Option func(*Publisher)

// WithDialTimeout bounds one connection attempt
func WithDialTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.dialTimeout = d
		}
	}
}

// WithRetryMaxInterval caps the pause between connection attempts while the broker is down
func WithRetryMaxInterval(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.retry.MaxInterval = d
		}
	}
}

// Publisher RabbitMQ publisher with a lazily (re)opened channel.
//
// The connection is dialled in the background, never under mu. Callers wait for it only as long as
// their own ctx allows. After a failed dial, calls fail fast until the backoff window has passed.
type Publisher struct {
	url         string
	dial        Dialer
	dialTimeout time.Duration
	logger      Logger
	now         func() time.Time

	mu       sync.Mutex
	ch       Channel
	closer   func() error
	declared map[EventType]bool
	dialing  chan struct{} // closed when the running dial finishes; nil when none runs
	retry    *backoff.ExponentialBackOff
	retryAt  time.Time
	lastErr  error
	closed   bool
}

// NewPublisher creates a publisher; nothing is dialled until the first Publish
func NewPublisher(url string, logger Logger, opts ...Option) *Publisher {
	return NewPublisherWithDialer(url, DialAMQP, logger, opts...)
}

// NewPublisherWithDialer creates a publisher with a custom dialer
func NewPublisherWithDialer(url string, dial Dialer, logger Logger, opts ...Option) *Publisher {
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = defaultRetryInterval
	retry.MaxInterval = defaultRetryMaxInterval
	retry.MaxElapsedTime = 0

	p := &Publisher{
		url:         url,
		dial:        dial,
		dialTimeout: defaultDialTimeout,
		logger:      logger,
		now:         time.Now,
		declared:    make(map[EventType]bool),
		retry:       retry,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DialAMQP opens a connection and a channel. ctx bounds the TCP dial and the AMQP handshake.
func DialAMQP(ctx context.Context, url string) (Channel, func() error, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: heartbeat,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			var d net.Dialer
			conn, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			// the library clears the deadline once the connection is open
			if deadline, ok := ctx.Deadline(); ok {
				if err := conn.SetDeadline(deadline); err != nil {
					_ = conn.Close()
					return nil, err
				}
			}
			return conn, nil
		},
	})
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, conn.Close, nil
}

// Publish sends the event. On failure the channel is dropped and reopened on a later call.
func (p *Publisher) Publish(ctx context.Context, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	if !p.isDeclared(ch, event.Type) {
		if _, err := ch.QueueDeclare(string(event.Type), true, false, false, false, nil); err != nil {
			p.drop(ch)
			return fmt.Errorf("%w: declare queue %s: %v", ErrPublish, event.Type, err)
		}
		p.markDeclared(ch, event.Type)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Type),
		MessageId:    event.BookingID + ":" + string(event.Type),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", string(event.Type), false, false, msg); err != nil {
		p.drop(ch)
		return fmt.Errorf("%w: %s for booking id=%s: %v", ErrPublish, event.Type, event.BookingID, err)
	}

	p.logger.Info("eventbus: published %s for booking id=%s", event.Type, event.BookingID)
	return nil
}

// Close releases the channel and the connection
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return p.reset()
}

// channel returns the open channel, starting a dial when there is none
func (p *Publisher) channel(ctx context.Context) (Channel, error) {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, fmt.Errorf("%w: publisher is closed", ErrConnect)
		}
		if p.ch != nil {
			ch := p.ch
			p.mu.Unlock()
			return ch, nil
		}
		if p.dialing == nil {
			if wait := p.retryAt.Sub(p.now()); wait > 0 {
				lastErr := p.lastErr
				p.mu.Unlock()
				return nil, fmt.Errorf("%w: next attempt in %s: %v", ErrConnect, wait.Round(time.Millisecond), lastErr)
			}
			p.dialing = make(chan struct{})
			go p.connect(p.dialing)
		}
		dialing := p.dialing
		p.mu.Unlock()

		select {
		case <-dialing:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrConnect, ctx.Err())
		}
	}
}

// connect runs one dial detached from any caller, bounded by dialTimeout
func (p *Publisher) connect(done chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), p.dialTimeout)
	defer cancel()

	ch, closer, err := p.dial(ctx, p.url)

	p.mu.Lock()
	defer p.mu.Unlock()
	defer close(done)
	p.dialing = nil

	if err != nil {
		p.lastErr = err
		next := p.retry.NextBackOff()
		p.retryAt = p.now().Add(next)
		p.logger.Warn("eventbus: broker unreachable, next attempt in %s: %v", next.Round(time.Millisecond), err)
		return
	}

	if p.closed {
		_ = ch.Close()
		if closer != nil {
			_ = closer()
		}
		return
	}

	p.ch = ch
	p.closer = closer
	p.declared = make(map[EventType]bool)
	p.lastErr = nil
	p.retryAt = time.Time{}
	p.retry.Reset()
}

func (p *Publisher) isDeclared(ch Channel, t EventType) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch == ch && p.declared[t]
}

func (p *Publisher) markDeclared(ch Channel, t EventType) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == ch {
		p.declared[t] = true
	}
}

// drop resets the channel unless another call already replaced it
func (p *Publisher) drop(ch Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == ch {
		if err := p.reset(); err != nil {
			p.logger.Warn("eventbus: close broken channel: %v", err)
		}
	}
}

func (p *Publisher) reset() error {
	if p.ch == nil {
		return nil
	}

	var firstErr error
	if err := p.ch.Close(); err != nil {
		firstErr = err
	}
	if p.closer != nil {
		if err := p.closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.ch = nil
	p.closer = nil
	return firstErr
}

// NopPublisher drops every event; used when no broker is configured
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(context.Context, BookingEvent) error {
	return nil
}
