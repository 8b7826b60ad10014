package server

import "bazaar/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Server объединяет HTTP-серверы отдельных сущностей.
// Сейчас он один: SessionServer, но их может стать несколько.
type Server struct {
	SessionServer
}

func NewServer(
	sessionServer SessionServer,
) Server {
	return Server{
		SessionServer: sessionServer,
	}
}
