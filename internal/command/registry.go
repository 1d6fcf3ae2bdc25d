package command

import (
	"strings"

	"github.com/arjunr/respkv/internal/blocking"
	"github.com/arjunr/respkv/internal/store"
)

// Handler is the contract every command implementation satisfies: execute
// against already-parsed arguments (the command name itself excluded) and
// produce a Reply, or an error the Executor turns into an inline RESP
// error frame.
type Handler interface {
	Execute(args []string) (Reply, error)
}

// Executor maps a command name to a Handler and centralizes the
// name-normalization and unknown-command handling every dispatch needs in
// one auditable place.
type Executor struct {
	handlers map[string]Handler
}

// NewExecutor builds an Executor with the full recognized command set,
// wired against a shared keyspace and blocking coordinator.
func NewExecutor(s *store.Store, coordinator *blocking.Coordinator) *Executor {
	e := &Executor{handlers: make(map[string]Handler)}

	e.register("PING", pingHandler{})
	e.register("ECHO", echoHandler{})
	e.register("SET", setHandler{store: s})
	e.register("GET", getHandler{store: s})
	e.register("RPUSH", rpushHandler{store: s})
	e.register("LPUSH", lpushHandler{store: s})
	e.register("LRANGE", lrangeHandler{store: s})
	e.register("LLEN", llenHandler{store: s})
	e.register("LPOP", lpopHandler{store: s})
	e.register("BLPOP", blpopHandler{coordinator: coordinator})

	return e
}

func (e *Executor) register(name string, h Handler) {
	e.handlers[strings.ToUpper(name)] = h
}

// Execute runs the named command against args and always returns a Reply
// to write back to the client -- unknown commands and handler-reported
// argument errors are folded into an error Reply here, so callers never
// need to special-case "no reply": every command produces some frame a
// compliant client can read.
func (e *Executor) Execute(name string, args []string) Reply {
	h, ok := e.handlers[strings.ToUpper(name)]
	if !ok {
		return Err((&UnknownCommandError{Command: name}).Error())
	}

	reply, err := h.Execute(args)
	if err != nil {
		return Err(err.Error())
	}
	return reply
}
