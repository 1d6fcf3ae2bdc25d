package command

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/arjunr/respkv/internal/store"
)

// setHandler implements SET key value [PX milliseconds].
type setHandler struct{ store *store.Store }

func (h setHandler) Execute(args []string) (Reply, error) {
	if len(args) < 2 {
		return nil, &WrongNumberOfArgumentsError{Command: "set"}
	}
	key, value := args[0], args[1]

	var hasTTL bool
	var ttl time.Duration

	switch len(args) {
	case 2:
		// plain SET, no options
	case 4:
		if !strings.EqualFold(args[2], "PX") {
			return nil, &InvalidArgumentError{Message: "syntax error"}
		}
		ms, err := strconv.Atoi(args[3])
		if err != nil || ms < 0 {
			return nil, &InvalidArgumentError{Message: "value is not an integer or out of range"}
		}
		hasTTL = true
		ttl = time.Duration(ms) * time.Millisecond
	default:
		return nil, &InvalidArgumentError{Message: "syntax error"}
	}

	h.store.Set(key, value, hasTTL, ttl)
	return SimpleString("OK"), nil
}

// getHandler implements GET key.
type getHandler struct{ store *store.Store }

func (h getHandler) Execute(args []string) (Reply, error) {
	if len(args) != 1 {
		return nil, &WrongNumberOfArgumentsError{Command: "get"}
	}

	value, ok, err := h.store.Get(args[0])
	if err != nil {
		if errors.Is(err, store.ErrWrongType) {
			return Err(err.Error()), nil
		}
		return nil, err
	}
	if !ok {
		return NullBulkString(), nil
	}
	return BulkString(value), nil
}
