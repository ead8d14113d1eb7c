// Package smtp implementa el transporte de correo saliente con STARTTLS.
package smtp

import "io"

// Client es la parte del cliente SMTP que usa el envío de correos.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface abstrae la conexión con el servidor SMTP.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
