package command

import (
	"strconv"
	"time"

	"github.com/arjunr/respkv/internal/blocking"
	"github.com/arjunr/respkv/internal/respio"
)

// blpopHandler implements BLPOP key [key ...] timeout, delegating the
// actual wait to the blocking coordinator. timeout is a floating point
// number of seconds; 0 means wait forever.
type blpopHandler struct{ coordinator *blocking.Coordinator }

func (h blpopHandler) Execute(args []string) (Reply, error) {
	if len(args) < 2 {
		return nil, &WrongNumberOfArgumentsError{Command: "blpop"}
	}

	keys := args[:len(args)-1]
	timeoutArg := args[len(args)-1]

	seconds, err := strconv.ParseFloat(timeoutArg, 64)
	if err != nil || seconds < 0 {
		return nil, &InvalidArgumentError{Message: "timeout is not a float or out of range"}
	}

	timeout := time.Duration(seconds * float64(time.Second))

	result, ok := h.coordinator.BlockPopLeft(keys, timeout)
	if !ok {
		return NullArray(), nil
	}
	return BlpopReply{Key: result.Key, Value: result.Value}, nil
}

// BlpopReply is BLPOP's successful two-element reply. It is a distinct
// type (rather than a plain Array) so the server layer can recognize a
// popped-but-undelivered element on write failure and at least log the
// loss, without parsing reply bytes back out of the wire format.
type BlpopReply struct {
	Key   string
	Value string
}

func (r BlpopReply) WriteTo(w *respio.Writer) error {
	return w.WriteArray([]string{r.Key, r.Value})
}
