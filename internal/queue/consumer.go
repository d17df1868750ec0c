package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartSeatsBookedConsumer connects to RabbitMQ, declares the durable
// seats.booked queue and consumes it, appending one line per booking to
// logs/booking.log. It runs a reconnect loop with capped exponential
// backoff and never brings the server down: processing errors are
// logged and the offending message rejected without requeue.
func StartSeatsBookedConsumer() {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("seats-consumer: dial failed: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Printf("seats-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("seats-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(seatsBookedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(seatsBookedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := appendBookingLog(d.Body); err != nil {
			log.Printf("seats-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // do not requeue; avoids tight redelivery loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// appendBookingLog writes a single human-readable line per event to
// logs/booking.log, creating the directory on first use.
func appendBookingLog(body []byte) error {
	var ev SeatsBookedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	labels := make([]string, 0, len(ev.Seats))
	for _, s := range ev.Seats {
		labels = append(labels, fmt.Sprintf("%d-%d", s.Row, s.Seat))
	}
	line := fmt.Sprintf("%s user=%d count=%d seats=%s\n",
		ev.BookedAt, ev.UserID, ev.Count, strings.Join(labels, ","))

	dir := "logs"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "booking.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
