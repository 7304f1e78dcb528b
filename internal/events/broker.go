// Package events streams reader commands to browsers over Server-Sent Events.
package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
)

// Event is one SSE message. Type becomes the event name, Data is sent as JSON.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type subscription struct {
	topic string
	ch    chan []byte
}

type publication struct {
	topic string
	event Event
}

type countReq struct {
	topic string
	resp  chan int
}

// Broker fans events out to subscribers of a topic. Each reader session is a
// topic, keyed by its session ID.
//
// A single goroutine owns the subscriber table. Public methods talk to it over
// channels.
type Broker struct {
	subscribeCh   chan subscription
	unsubscribeCh chan subscription
	publishCh     chan publication
	countReqCh    chan countReq
	dropTopicCh   chan string

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker.
func NewBroker() *Broker {
	b := &Broker{
		subscribeCh:   make(chan subscription),
		unsubscribeCh: make(chan subscription),
		publishCh:     make(chan publication, 256),
		countReqCh:    make(chan countReq),
		dropTopicCh:   make(chan string),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	topics := make(map[string]map[chan []byte]struct{})

	broadcast := func(p publication) {
		clients := topics[p.topic]
		if len(clients) == 0 {
			return
		}
		payload, err := json.Marshal(p.event.Data)
		if err != nil {
			return
		}
		raw := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", p.event.Type, payload))
		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Slow client; drop rather than stall every other session.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for _, clients := range topics {
				for ch := range clients {
					close(ch)
				}
			}
			return

		case sub := <-b.subscribeCh:
			clients, ok := topics[sub.topic]
			if !ok {
				clients = make(map[chan []byte]struct{})
				topics[sub.topic] = clients
			}
			clients[sub.ch] = struct{}{}

		case sub := <-b.unsubscribeCh:
			clients := topics[sub.topic]
			if _, ok := clients[sub.ch]; ok {
				delete(clients, sub.ch)
				close(sub.ch)
			}
			if len(clients) == 0 {
				delete(topics, sub.topic)
			}

		case topic := <-b.dropTopicCh:
			for ch := range topics[topic] {
				close(ch)
			}
			delete(topics, topic)

		case p := <-b.publishCh:
			broadcast(p)

		case req := <-b.countReqCh:
			req.resp <- len(topics[req.topic])
		}
	}
}

// Close stops the broker and closes every subscriber channel.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a client on topic and returns its channel.
func (b *Broker) Subscribe(topic string) chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.subscribeCh <- subscription{topic: topic, ch: ch}:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(topic string, ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- subscription{topic: topic, ch: ch}:
	case <-b.stopped:
	}
}

// DropTopic disconnects every client of topic.
func (b *Broker) DropTopic(topic string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.dropTopicCh <- topic:
	case <-b.stopped:
	}
}

// ClientCount returns the number of clients subscribed to topic.
func (b *Broker) ClientCount(topic string) int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.countReqCh <- countReq{topic: topic, resp: resp}:
	case <-b.stopped:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends event to every client of topic.
func (b *Broker) Publish(topic string, event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- publication{topic: topic, event: event}:
	case <-b.stopped:
	}
}

// ServeTopic streams topic to the client until it disconnects or the topic is dropped.
func (b *Broker) ServeTopic(w http.ResponseWriter, r *http.Request, topic string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe(topic)
	defer b.Unsubscribe(topic, ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
