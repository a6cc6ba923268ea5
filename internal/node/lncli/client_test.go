package lncli

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/liquifier/internal/node"
)

type call struct {
	name string
	args []string
}

func fakeRunner(out string, err error, calls *[]call) Runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, call{name: name, args: args})
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}
}

func TestListInvoices(t *testing.T) {
	var calls []call
	client := New(Options{
		Path:         "/usr/local/bin/lncli",
		MacaroonPath: "/lnd/admin.macaroon",
		TLSCertPath:  "/lnd/tls.cert",
		MaxInvoices:  5000,
		Runner:       fakeRunner(invoicesFixture, nil, &calls),
	})

	batch, err := client.ListInvoices(context.Background(), 1700000000, 1700086400)
	require.NoError(t, err)
	assert.Len(t, batch.Invoices, 3)

	require.Len(t, calls, 1)
	assert.Equal(t, "/usr/local/bin/lncli", calls[0].name)
	assert.Equal(t, []string{
		"--macaroonpath", "/lnd/admin.macaroon",
		"--tlscertpath", "/lnd/tls.cert",
		"listinvoices",
		"--creation_date_start=1700000000",
		"--creation_date_end=1700086400",
		"--max_invoices=5000",
	}, calls[0].args)
}

func TestListChannels(t *testing.T) {
	var calls []call
	client := New(Options{
		RPCServer: "localhost:10009",
		Network:   "testnet",
		Runner:    fakeRunner(channelsFixture, nil, &calls),
	})

	batch, err := client.ListChannels(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch.Channels, 2)

	require.Len(t, calls, 1)
	assert.Equal(t, "lncli", calls[0].name)
	assert.Equal(t, []string{"--rpcserver", "localhost:10009", "--network", "testnet", "listchannels"}, calls[0].args)
}

func TestQueryFailures(t *testing.T) {
	boom := errors.New("macaroon verification failed")

	t.Run("process error", func(t *testing.T) {
		var calls []call
		client := New(Options{Runner: fakeRunner("", boom, &calls)})

		_, err := client.ListInvoices(context.Background(), 0, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)

		var qe *node.QueryError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, node.OpListInvoices, qe.Operation)
	})

	t.Run("malformed reply", func(t *testing.T) {
		var calls []call
		client := New(Options{Runner: fakeRunner("[lncli] rpc error: code = Unavailable", nil, &calls)})

		_, err := client.ListChannels(context.Background())
		var qe *node.QueryError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, node.OpListChannels, qe.Operation)
	})
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx := context.Background()

	out, err := execRunner(ctx, "sh", "-c", `echo '{"channels": []}'`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"channels": []}`, string(out))

	_, err = execRunner(ctx, "sh", "-c", "echo 'unable to read macaroon' >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 3")
	assert.Contains(t, err.Error(), "unable to read macaroon")

	_, err = execRunner(ctx, "/nonexistent/lncli")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run")
}
