package calculator

import (
	"cmp"
	"slices"

	"github.com/mmynk/liquifier/internal/models"
)

// Eligible reports whether a channel can carry a payment of payout satoshis.
// The channel must be active and hold at least payout in local balance.
func Eligible(ch models.ChannelRecord, payout int64) bool {
	return ch.Active && ch.LocalBalance >= payout
}

// BalanceRatio returns local balance over capacity.
// A zero-capacity channel has ratio 0.
func BalanceRatio(ch models.ChannelRecord) float64 {
	if ch.Capacity <= 0 {
		return 0
	}
	return float64(ch.LocalBalance) / float64(ch.Capacity)
}

// RankChannels filters channels to those eligible for payout and orders them
// by descending balance ratio. Channels with equal ratios keep their input
// order. The input slice is not modified.
func RankChannels(channels []models.ChannelRecord, payout int64) []models.RankedChannel {
	ranked := make([]models.RankedChannel, 0, len(channels))
	for _, ch := range channels {
		if !Eligible(ch, payout) {
			continue
		}
		ranked = append(ranked, models.RankedChannel{
			ChannelRecord: ch,
			BalanceRatio:  BalanceRatio(ch),
		})
	}

	slices.SortStableFunc(ranked, func(a, b models.RankedChannel) int {
		return cmp.Compare(b.BalanceRatio, a.BalanceRatio)
	})
	return ranked
}
