package queue

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/multierr"
)

// Channel is the subset of *amqp.Channel used by the worker and publisher.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Conn is an open AMQP connection together with one channel.
type Conn struct {
	conn *amqp.Connection
	*amqp.Channel
}

// Dial connects to the broker and opens a channel.
func Dial(url string) (*Conn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("error opening rabbitmq channel: %w", err), conn.Close())
	}
	return &Conn{conn: conn, Channel: ch}, nil
}

// Close closes the channel and the connection.
func (c *Conn) Close() error {
	return multierr.Combine(c.Channel.Close(), c.conn.Close())
}

// Declare creates the durable job queue and the topic exchange for updates.
func Declare(ch Channel, queue, exchange string) error {
	if _, err := ch.QueueDeclare(
		queue, // queue name
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return nil
}

func publishJSON(ch Channel, exchange, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ch.Publish(exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Submit enqueues a render job on the default exchange.
func Submit(ch Channel, queue string, job Job) error {
	if err := publishJSON(ch, "", queue, job); err != nil {
		return fmt.Errorf("failed to submit job %s: %w", job.ID, err)
	}
	return nil
}
