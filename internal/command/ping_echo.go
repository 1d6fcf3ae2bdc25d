package command

// pingHandler implements PING. With no arguments it replies the simple
// string PONG; given an argument it echoes the first one as a bulk string,
// matching real Redis's PING <message> form.
type pingHandler struct{}

func (pingHandler) Execute(args []string) (Reply, error) {
	if len(args) == 0 {
		return SimpleString("PONG"), nil
	}
	return BulkString(args[0]), nil
}

// echoHandler implements ECHO: returns its single argument verbatim.
type echoHandler struct{}

func (echoHandler) Execute(args []string) (Reply, error) {
	if len(args) != 1 {
		return nil, &WrongNumberOfArgumentsError{Command: "echo"}
	}
	return BulkString(args[0]), nil
}
