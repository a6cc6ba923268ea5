package lncli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmynk/liquifier/internal/models"
	"github.com/mmynk/liquifier/internal/node"
)

type invoicesReply struct {
	Invoices []json.RawMessage `json:"invoices"`
}

type channelsReply struct {
	Channels []json.RawMessage `json:"channels"`
}

// recordFields decodes one element of a reply list. An element that is not a
// JSON object is reported and skipped.
func recordFields(raw json.RawMessage, record string, index int, warnings *[]models.ShapeWarning) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		*warnings = append(*warnings, models.ShapeWarning{
			Record: record,
			Index:  index,
			Reason: "not an object",
		})
		return nil, false
	}
	return fields, true
}

// DecodeInvoices parses the JSON printed by `lncli listinvoices`.
// Missing or malformed fields fall back to defaults and are reported as
// warnings, and list elements that are not objects are skipped with a
// warning. Only a reply that is not a JSON object is an error.
func DecodeInvoices(data []byte) (node.InvoiceBatch, error) {
	var reply invoicesReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return node.InvoiceBatch{}, fmt.Errorf("failed to decode invoices reply: %w", err)
	}

	batch := node.InvoiceBatch{Invoices: make([]models.InvoiceRecord, 0, len(reply.Invoices))}
	for i, raw := range reply.Invoices {
		fields, ok := recordFields(raw, "invoice", i, &batch.Warnings)
		if !ok {
			continue
		}
		r := fieldReader{record: "invoice", index: i, fields: fields, warnings: &batch.Warnings}
		batch.Invoices = append(batch.Invoices, models.InvoiceRecord{
			CreationDate: r.intField("creation_date"),
			AmountPaid:   r.intField("amt_paid_sat"),
			RHash:        r.stringField("r_hash", models.UnknownRHash),
			State:        models.InvoiceState(r.stringField("state", string(models.InvoiceUnknown))),
		})
	}
	return batch, nil
}

// DecodeChannels parses the JSON printed by `lncli listchannels`.
func DecodeChannels(data []byte) (node.ChannelBatch, error) {
	var reply channelsReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return node.ChannelBatch{}, fmt.Errorf("failed to decode channels reply: %w", err)
	}

	batch := node.ChannelBatch{Channels: make([]models.ChannelRecord, 0, len(reply.Channels))}
	for i, raw := range reply.Channels {
		fields, ok := recordFields(raw, "channel", i, &batch.Warnings)
		if !ok {
			continue
		}
		r := fieldReader{record: "channel", index: i, fields: fields, warnings: &batch.Warnings}
		batch.Channels = append(batch.Channels, models.ChannelRecord{
			ChanID:       r.uintField("chan_id"),
			Capacity:     r.intField("capacity"),
			LocalBalance: r.intField("local_balance"),
			Active:       r.boolField("active"),
		})
	}
	return batch, nil
}

// fieldReader extracts typed fields from one reply record, defaulting and
// recording a warning for anything missing or malformed.
type fieldReader struct {
	record   string
	index    int
	fields   map[string]json.RawMessage
	warnings *[]models.ShapeWarning
}

func (r *fieldReader) warn(field, reason string) {
	*r.warnings = append(*r.warnings, models.ShapeWarning{
		Record: r.record,
		Index:  r.index,
		Field:  field,
		Reason: reason,
	})
}

// scalar returns the field as text, unquoting JSON strings.
// lncli prints 64-bit integers as quoted strings.
func (r *fieldReader) scalar(field string) (string, bool) {
	raw, ok := r.fields[field]
	if !ok || string(raw) == "null" {
		r.warn(field, "missing")
		return "", false
	}
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			r.warn(field, "invalid string")
			return "", false
		}
		text = s
	}
	return text, true
}

func (r *fieldReader) intField(field string) int64 {
	text, ok := r.scalar(field)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		r.warn(field, fmt.Sprintf("not an integer: %q", text))
		return 0
	}
	if n < 0 {
		r.warn(field, fmt.Sprintf("negative value: %d", n))
		return 0
	}
	return n
}

func (r *fieldReader) uintField(field string) uint64 {
	text, ok := r.scalar(field)
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		r.warn(field, fmt.Sprintf("not an unsigned integer: %q", text))
		return 0
	}
	return n
}

func (r *fieldReader) stringField(field, def string) string {
	raw, ok := r.fields[field]
	if !ok || string(raw) == "null" {
		r.warn(field, "missing")
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		r.warn(field, "not a string")
		return def
	}
	if s == "" {
		r.warn(field, "empty")
		return def
	}
	return s
}

func (r *fieldReader) boolField(field string) bool {
	raw, ok := r.fields[field]
	if !ok || string(raw) == "null" {
		r.warn(field, "missing")
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		r.warn(field, "not a boolean")
		return false
	}
	return b
}
