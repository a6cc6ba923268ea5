package models

// ChannelRecord represents an open channel as listed by the node.
type ChannelRecord struct {
	// ChanID is the short channel ID.
	ChanID uint64

	// Capacity is the total channel size in satoshis.
	Capacity int64

	// LocalBalance is the part of Capacity this node can currently send.
	// Expected to be <= Capacity; the node is trusted on this.
	LocalBalance int64

	// Active is true when the peer is online and the channel can route.
	Active bool
}

// RankedChannel is a channel that can carry a payout, with its balance ratio.
type RankedChannel struct {
	ChannelRecord

	// BalanceRatio is LocalBalance / Capacity, or 0 for a zero-capacity channel.
	BalanceRatio float64
}
