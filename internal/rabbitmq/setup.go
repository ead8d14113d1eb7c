package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange es el exchange direct por el que viajan los eventos de
// notificación.
const Exchange = "notifications"

// RoutingKeyCapsuleOpened identifica los eventos de apertura de cápsula.
const RoutingKeyCapsuleOpened = "capsule.opened"

// QueueCapsuleOpened es la cola que consume el worker de envío.
const QueueCapsuleOpened = "notifications.capsule-opened"

// QueueConfig describe una cola y su clave de enrutado.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationQueues devuelve la topología de colas de notificación.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueCapsuleOpened, RoutingKey: RoutingKeyCapsuleOpened},
	}
}

// SetupChannel abre un canal, declara el exchange y ata las colas
// indicadas. Tanto el scheduler como el sender lo llaman al arrancar
// para que la topología exista sin importar el orden de arranque.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			Exchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
