package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

type recorder struct {
	topics []string
	err    error
}

func (r *recorder) Publish(_ context.Context, topic, _ string, _ map[string]any) error {
	r.topics = append(r.topics, topic)
	return r.err
}

func TestKafkaPublisher(t *testing.T) {
	t.Parallel()
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	err := p.Publish(context.Background(), TopicCart, "u1", map[string]any{"type": CartItemAdded, "productID": "1"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, TopicCart, w.msgs[0].Topic)
	assert.Equal(t, "u1", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"type":"cart_item_added","productID":"1"}`, string(w.msgs[0].Value))

	w.err = errors.New("broker down")
	err = p.Publish(context.Background(), TopicCart, "u1", map[string]any{})
	require.ErrorContains(t, err, "cart_events")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewKafkaPublisher_NoBrokers(t *testing.T) {
	t.Parallel()
	_, err := NewKafkaPublisher(nil)
	require.Error(t, err)
}

func TestMulti(t *testing.T) {
	t.Parallel()
	a := &recorder{}
	b := &recorder{err: errors.New("b failed")}

	err := Multi{a, nil, b, Nop{}}.Publish(context.Background(), TopicOrder, "ORD-1", map[string]any{"type": OrderCreated})
	require.ErrorContains(t, err, "b failed")
	assert.Equal(t, []string{TopicOrder}, a.topics)
	assert.Equal(t, []string{TopicOrder}, b.topics)
}

func TestHub_Broadcast(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r)
	}))
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), TopicProduct, "1", map[string]any{"type": ProductUpdated}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, TopicProduct, env.Topic)
	assert.Equal(t, "1", env.Key)
	assert.Equal(t, ProductUpdated, env.Event["type"])

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
