package lncli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/liquifier/internal/models"
)

const invoicesFixture = `{
    "invoices": [
        {
            "memo": "coffee",
            "r_hash": "6f1c3a",
            "value": "500",
            "creation_date": "1700000000",
            "settle_date": "1700000060",
            "amt_paid_sat": "500",
            "state": "SETTLED"
        },
        {
            "r_hash": "aa01",
            "creation_date": "1700000100",
            "amt_paid_sat": "0",
            "state": "OPEN"
        },
        {
            "r_hash": "bb02",
            "creation_date": 1700000200,
            "amt_paid_sat": 200,
            "state": "SETTLED"
        }
    ],
    "last_index_offset": "3",
    "first_index_offset": "1"
}`

const channelsFixture = `{
    "channels": [
        {
            "active": true,
            "remote_pubkey": "02abc",
            "chan_id": "868637487955591169",
            "capacity": "1000000",
            "local_balance": "800000",
            "remote_balance": "196530"
        },
        {
            "active": false,
            "chan_id": "18446744073709551615",
            "capacity": "2000000",
            "local_balance": "900000"
        }
    ]
}`

func TestDecodeInvoices(t *testing.T) {
	batch, err := DecodeInvoices([]byte(invoicesFixture))
	require.NoError(t, err)
	require.Len(t, batch.Invoices, 3)
	assert.Empty(t, batch.Warnings)

	assert.Equal(t, models.InvoiceRecord{
		CreationDate: 1700000000,
		AmountPaid:   500,
		RHash:        "6f1c3a",
		State:        models.InvoiceSettled,
	}, batch.Invoices[0])
	assert.Equal(t, models.InvoiceOpen, batch.Invoices[1].State)
	assert.Equal(t, int64(200), batch.Invoices[2].AmountPaid)
	assert.Equal(t, int64(1700000200), batch.Invoices[2].CreationDate)
}

func TestDecodeInvoicesDefaults(t *testing.T) {
	batch, err := DecodeInvoices([]byte(`{"invoices": [
		{"creation_date": "1700000000", "amt_paid_sat": "12x", "state": "SETTLED"},
		{"amt_paid_sat": "-4", "r_hash": null},
		{}
	]}`))
	require.NoError(t, err)
	require.Len(t, batch.Invoices, 3)

	first := batch.Invoices[0]
	assert.Equal(t, int64(0), first.AmountPaid)
	assert.Equal(t, models.UnknownRHash, first.RHash)
	assert.Equal(t, models.InvoiceSettled, first.State)

	second := batch.Invoices[1]
	assert.Equal(t, int64(0), second.AmountPaid)
	assert.Equal(t, int64(0), second.CreationDate)
	assert.Equal(t, models.InvoiceUnknown, second.State)
	assert.Equal(t, models.UnknownRHash, second.RHash)

	third := batch.Invoices[2]
	assert.Equal(t, models.InvoiceRecord{RHash: models.UnknownRHash, State: models.InvoiceUnknown}, third)

	fields := map[string]int{}
	for _, w := range batch.Warnings {
		assert.Equal(t, "invoice", w.Record)
		fields[w.Field]++
	}
	assert.Equal(t, 3, fields["r_hash"])
	assert.Equal(t, 3, fields["amt_paid_sat"])
	assert.Equal(t, 2, fields["creation_date"])
	assert.Equal(t, 2, fields["state"])
}

func TestDecodeInvoicesEmpty(t *testing.T) {
	batch, err := DecodeInvoices([]byte(`{"last_index_offset": "0"}`))
	require.NoError(t, err)
	assert.NotNil(t, batch.Invoices)
	assert.Empty(t, batch.Invoices)
}

func TestDecodeInvoicesRejectsGarbage(t *testing.T) {
	for _, reply := range []string{"", "not json", `["a"]`, `{"invoices": "nope"}`} {
		_, err := DecodeInvoices([]byte(reply))
		assert.Error(t, err, "reply %q", reply)
	}
}

func TestDecodeInvoicesSkipsNonObjects(t *testing.T) {
	batch, err := DecodeInvoices([]byte(`{"invoices": [
		{"r_hash": "aa", "creation_date": "1700000000", "amt_paid_sat": "500", "state": "SETTLED"},
		"garbage",
		null,
		{"r_hash": "bb", "creation_date": "1700000100", "amt_paid_sat": "200", "state": "SETTLED"}
	]}`))
	require.NoError(t, err)
	require.Len(t, batch.Invoices, 2)
	assert.Equal(t, "aa", batch.Invoices[0].RHash)
	assert.Equal(t, "bb", batch.Invoices[1].RHash)

	assert.Equal(t, []models.ShapeWarning{
		{Record: "invoice", Index: 1, Reason: "not an object"},
		{Record: "invoice", Index: 2, Reason: "not an object"},
	}, batch.Warnings)
}

func TestDecodeChannels(t *testing.T) {
	batch, err := DecodeChannels([]byte(channelsFixture))
	require.NoError(t, err)
	require.Len(t, batch.Channels, 2)
	assert.Empty(t, batch.Warnings)

	assert.Equal(t, models.ChannelRecord{
		ChanID:       868637487955591169,
		Capacity:     1000000,
		LocalBalance: 800000,
		Active:       true,
	}, batch.Channels[0])
	assert.Equal(t, uint64(18446744073709551615), batch.Channels[1].ChanID)
	assert.False(t, batch.Channels[1].Active)
}

func TestDecodeChannelsDefaults(t *testing.T) {
	batch, err := DecodeChannels([]byte(`{"channels": [
		{"chan_id": "12", "capacity": "1000", "local_balance": "500", "active": "yes"},
		{"chan_id": "-1"}
	]}`))
	require.NoError(t, err)
	require.Len(t, batch.Channels, 2)

	assert.Equal(t, models.ChannelRecord{ChanID: 12, Capacity: 1000, LocalBalance: 500}, batch.Channels[0])
	assert.Equal(t, models.ChannelRecord{}, batch.Channels[1])

	require.Len(t, batch.Warnings, 5)
	assert.Equal(t, models.ShapeWarning{Record: "channel", Index: 0, Field: "active", Reason: "not a boolean"}, batch.Warnings[0])
	assert.Equal(t, 1, batch.Warnings[1].Index)
	assert.Equal(t, "chan_id", batch.Warnings[1].Field)
}

func TestDecodeChannelsSkipsNonObjects(t *testing.T) {
	batch, err := DecodeChannels([]byte(`{"channels": [
		{"chan_id": "12", "capacity": "1000", "local_balance": "500", "active": true},
		42,
		["nested"]
	]}`))
	require.NoError(t, err)
	require.Len(t, batch.Channels, 1)
	assert.Equal(t, models.ChannelRecord{ChanID: 12, Capacity: 1000, LocalBalance: 500, Active: true}, batch.Channels[0])

	require.Len(t, batch.Warnings, 2)
	assert.Equal(t, models.ShapeWarning{Record: "channel", Index: 1, Reason: "not an object"}, batch.Warnings[0])
	assert.Equal(t, 2, batch.Warnings[1].Index)
}
