package node

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(OpListInvoices, nil))

	err := Wrap(OpListChannels, io.ErrUnexpectedEOF)
	require.Error(t, err)
	assert.Equal(t, "node query listchannels failed: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	var qe *QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, OpListChannels, qe.Operation)
}
