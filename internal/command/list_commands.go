package command

import (
	"errors"
	"strconv"

	"github.com/arjunr/respkv/internal/store"
)

// asWrongTypeReply converts a store.ErrWrongType into the WRONGTYPE inline
// error reply every list/scalar type-mismatch command shares; any other
// error (there are none today, but the store API returns one) propagates
// to the caller as a genuine failure rather than a reply.
func asWrongTypeReply(err error) (Reply, error) {
	if errors.Is(err, store.ErrWrongType) {
		return Err(err.Error()), nil
	}
	return nil, err
}

// rpushHandler implements RPUSH key value [value ...].
type rpushHandler struct{ store *store.Store }

func (h rpushHandler) Execute(args []string) (Reply, error) {
	if len(args) < 2 {
		return nil, &WrongNumberOfArgumentsError{Command: "rpush"}
	}
	n, err := h.store.PushRight(args[0], args[1:])
	if err != nil {
		return asWrongTypeReply(err)
	}
	return Integer(n), nil
}

// lpushHandler implements LPUSH key value [value ...].
type lpushHandler struct{ store *store.Store }

func (h lpushHandler) Execute(args []string) (Reply, error) {
	if len(args) < 2 {
		return nil, &WrongNumberOfArgumentsError{Command: "lpush"}
	}
	n, err := h.store.PushLeft(args[0], args[1:])
	if err != nil {
		return asWrongTypeReply(err)
	}
	return Integer(n), nil
}

// lrangeHandler implements LRANGE key start stop.
type lrangeHandler struct{ store *store.Store }

func (h lrangeHandler) Execute(args []string) (Reply, error) {
	if len(args) != 3 {
		return nil, &WrongNumberOfArgumentsError{Command: "lrange"}
	}
	start, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, &InvalidArgumentError{Message: "value is not an integer or out of range"}
	}
	stop, err := strconv.Atoi(args[2])
	if err != nil {
		return nil, &InvalidArgumentError{Message: "value is not an integer or out of range"}
	}

	elems, err := h.store.Range(args[0], start, stop)
	if err != nil {
		return asWrongTypeReply(err)
	}
	return Array(elems), nil
}

// llenHandler implements LLEN key.
type llenHandler struct{ store *store.Store }

func (h llenHandler) Execute(args []string) (Reply, error) {
	if len(args) != 1 {
		return nil, &WrongNumberOfArgumentsError{Command: "llen"}
	}
	n, err := h.store.Len(args[0])
	if err != nil {
		return asWrongTypeReply(err)
	}
	return Integer(n), nil
}

// lpopHandler implements LPOP key [count].
//
// With no count, an absent key or empty list replies the null bulk string;
// with an explicit count, an absent key replies the null array instead, for
// consistency with real Redis.
type lpopHandler struct{ store *store.Store }

func (h lpopHandler) Execute(args []string) (Reply, error) {
	switch len(args) {
	case 1:
		v, ok, err := h.store.PopLeftOne(args[0])
		if err != nil {
			return asWrongTypeReply(err)
		}
		if !ok {
			return NullBulkString(), nil
		}
		return BulkString(v), nil

	case 2:
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, &InvalidArgumentError{Message: "value is not an integer or out of range"}
		}
		if n < 0 {
			return nil, &InvalidArgumentError{Message: "value is out of range, must be positive"}
		}

		values, present, err := h.store.PopLeftCount(args[0], n)
		if err != nil {
			return asWrongTypeReply(err)
		}
		if !present {
			return NullArray(), nil
		}
		if len(values) == 0 {
			return NullArray(), nil
		}
		return Array(values), nil

	default:
		return nil, &WrongNumberOfArgumentsError{Command: "lpop"}
	}
}
