package events_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"github.com/faciam-dev/urlpreview/internal/events"
)

func TestKafkaSink(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	prod := mocks.NewAsyncProducer(t, cfg)
	prod.ExpectInputWithMessageCheckerFunctionAndSucceed(func(m *sarama.ProducerMessage) error {
		key, err := m.Key.Encode()
		if err != nil {
			return err
		}
		if m.Topic != "cms.interfaces" || string(key) != "slider" {
			return fmt.Errorf("unexpected message topic=%s key=%s", m.Topic, key)
		}
		return nil
	})
	sink := &events.KafkaSink{Producer: prod, Topic: "cms.interfaces"}

	evt := events.New(events.InterfaceUpsert, "slider", map[string]string{"id": "slider"})
	if err := sink.Emit(context.Background(), evt); err != nil {
		t.Fatalf("emit: %v", err)
	}
	select {
	case msg := <-prod.Successes():
		if len(msg.Headers) == 0 || string(msg.Headers[0].Key) != "event" || string(msg.Headers[0].Value) != events.InterfaceUpsert {
			t.Fatalf("unexpected headers: %+v", msg.Headers)
		}
		val, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		var got events.Event
		if err := json.Unmarshal(val, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != evt.ID || got.Subject != "slider" {
			t.Fatalf("event mismatch: %#v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout")
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestKafkaSinkNil(t *testing.T) {
	var sink *events.KafkaSink
	if err := sink.Emit(context.Background(), events.New(events.InterfaceRemove, "slider", nil)); err != nil {
		t.Fatalf("nil sink: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
