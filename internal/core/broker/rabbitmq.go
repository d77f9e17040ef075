package broker

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQ struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
	URL        string
}

func NewRabbitMQ(url string) *RabbitMQ {
	return &RabbitMQ{URL: url}
}

func (r *RabbitMQ) Connect() error {
	connection, err := amqp.Dial(r.URL)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		connection.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	r.Connection = connection
	r.Channel = channel
	return nil
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		r.Channel.Close()
	}
	if r.Connection != nil {
		r.Connection.Close()
	}
}
