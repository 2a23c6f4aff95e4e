package stdout

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePassThrough(t *testing.T) {
	var buf bytes.Buffer
	w := NewTo(&buf, nil)
	require.NoError(t, w.Write(context.Background(), "a.txt", strings.NewReader("1-3\n")))
	require.NoError(t, w.Write(context.Background(), "b.txt", strings.NewReader("5\n")))
	assert.Equal(t, "1-3\n5\n", buf.String())
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTo(&buf, &Options{Header: true})
	require.NoError(t, w.Write(context.Background(), "a.txt", strings.NewReader("1-3\n")))
	assert.Equal(t, "==> a.txt <==\n1-3\n", buf.String())
}

func TestWriteCtxCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	assert.ErrorIs(t, NewTo(&buf, nil).Write(ctx, "a", strings.NewReader("x")), context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestNewDefaultsToStdout(t *testing.T) {
	assert.NotNil(t, New(nil).w)
	assert.NotNil(t, NewTo(nil, nil).w)
}
