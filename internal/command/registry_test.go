package command_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunr/respkv/internal/blocking"
	"github.com/arjunr/respkv/internal/command"
	"github.com/arjunr/respkv/internal/respio"
	"github.com/arjunr/respkv/internal/store"
)

func newExecutor() *command.Executor {
	s := store.New()
	c := blocking.New(s)
	return command.NewExecutor(s, c)
}

func encode(t *testing.T, reply command.Reply) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, reply.WriteTo(respio.NewWriter(&buf)))
	return buf.String()
}

func TestPing(t *testing.T) {
	e := newExecutor()
	assert.Equal(t, "+PONG\r\n", encode(t, e.Execute("PING", nil)))
	assert.Equal(t, "$5\r\nhello\r\n", encode(t, e.Execute("ping", []string{"hello"})))
}

func TestEcho(t *testing.T) {
	e := newExecutor()
	assert.Equal(t, "$5\r\nhello\r\n", encode(t, e.Execute("ECHO", []string{"hello"})))
	assert.Contains(t, encode(t, e.Execute("ECHO", nil)), "-ERR")
}

func TestSetAndGet(t *testing.T) {
	e := newExecutor()
	assert.Equal(t, "+OK\r\n", encode(t, e.Execute("SET", []string{"foo", "bar"})))
	assert.Equal(t, "$3\r\nbar\r\n", encode(t, e.Execute("GET", []string{"foo"})))
}

func TestGetMissingKey(t *testing.T) {
	e := newExecutor()
	assert.Equal(t, "$-1\r\n", encode(t, e.Execute("GET", []string{"nope"})))
}

func TestSetWithPXExpires(t *testing.T) {
	e := newExecutor()
	require.Equal(t, "+OK\r\n", encode(t, e.Execute("SET", []string{"foo", "bar", "PX", "50"})))
	assert.Equal(t, "$3\r\nbar\r\n", encode(t, e.Execute("GET", []string{"foo"})))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "$-1\r\n", encode(t, e.Execute("GET", []string{"foo"})))
}

func TestRPushAndLRange(t *testing.T) {
	e := newExecutor()
	assert.Equal(t, ":3\r\n", encode(t, e.Execute("RPUSH", []string{"mylist", "a", "b", "c"})))
	assert.Equal(t, "*3\r\n$1\r\na\r\n$1\r\nb\r\n$1\r\nc\r\n", encode(t, e.Execute("LRANGE", []string{"mylist", "0", "-1"})))
}

func TestLPushOrdering(t *testing.T) {
	e := newExecutor()
	assert.Equal(t, ":2\r\n", encode(t, e.Execute("LPUSH", []string{"mylist", "x", "y"})))
	assert.Equal(t, "*2\r\n$1\r\ny\r\n$1\r\nx\r\n", encode(t, e.Execute("LRANGE", []string{"mylist", "0", "-1"})))
}

func TestWrongTypeDoesNotMutate(t *testing.T) {
	e := newExecutor()
	require.Equal(t, "+OK\r\n", encode(t, e.Execute("SET", []string{"k", "v"})))
	assert.Contains(t, encode(t, e.Execute("LPUSH", []string{"k", "x"})), "WRONGTYPE")
	assert.Equal(t, "$1\r\nv\r\n", encode(t, e.Execute("GET", []string{"k"})))
}

func TestLRangeLLenLPopOnAbsentKey(t *testing.T) {
	e := newExecutor()
	assert.Equal(t, "*0\r\n", encode(t, e.Execute("LRANGE", []string{"absent", "0", "10"})))
	assert.Equal(t, ":0\r\n", encode(t, e.Execute("LLEN", []string{"absent"})))
	assert.Equal(t, "$-1\r\n", encode(t, e.Execute("LPOP", []string{"absent"})))
}

func TestLPopWithCountOnAbsentKeyIsNullArray(t *testing.T) {
	e := newExecutor()
	assert.Equal(t, "*-1\r\n", encode(t, e.Execute("LPOP", []string{"absent", "3"})))
}

func TestLPopNegativeCountIsMalformed(t *testing.T) {
	e := newExecutor()
	assert.Contains(t, encode(t, e.Execute("LPOP", []string{"k", "-1"})), "ERR")
}

func TestUnknownCommandGetsErrorReply(t *testing.T) {
	e := newExecutor()
	assert.Contains(t, encode(t, e.Execute("FROBNICATE", nil)), "ERR unknown command")
}

func TestBlpopImmediate(t *testing.T) {
	e := newExecutor()
	e.Execute("RPUSH", []string{"q", "hello"})
	assert.Equal(t, "*2\r\n$1\r\nq\r\n$5\r\nhello\r\n", encode(t, e.Execute("BLPOP", []string{"q", "0"})))
}

func TestBlpopTimeout(t *testing.T) {
	e := newExecutor()
	assert.Equal(t, "*-1\r\n", encode(t, e.Execute("BLPOP", []string{"empty", "0.1"})))
}
