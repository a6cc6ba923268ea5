// Package models defines the core domain models for Liquifier.
//
// # Node Snapshots
//
// The following models mirror what the node reports for one run:
//   - InvoiceRecord: An incoming payment request and its settlement state
//   - ChannelRecord: An open channel and its outbound liquidity
//
// Both are fetched once per run and never mutated afterwards.
//
// # Derived Models
//
// The following models are computed from the snapshots and never persisted:
//   - PayoutPlan: How many outbound payments to issue and at what size
//   - RankedChannel: A channel eligible for the payout, with its balance ratio
//   - Report: Everything one reconciliation run produced
//
// # Design Principles
//
// 1. **Integer amounts**: All amounts are satoshis held in int64
// 2. **Explicit unknowns**: Missing node fields become zero values or the
// UNKNOWN state, never a failed batch
// 3. **Value semantics**: Models are passed by value and copied on derivation
package models
