// Package rabbitmq encapsula la conexión, la topología y el consumo de
// mensajes del broker de notificaciones.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Connect abre la conexión con el broker reintentando con la pausa
// indicada. RabbitMQ suele arrancar más tarde que la aplicación.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}
