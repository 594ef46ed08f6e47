// Package models defines the core domain models for Walletly.
//
// # Overview
//
// Walletly is a shared-wallet finance backend: users group up in
// wallets, record categorized transactions, split expenses among
// members, settle debts, and track savings goals.
//
// The models here are plain value structs persisted by the storage
// layer:
//   - User: registered account
//   - Wallet, WalletMember: personal or group ledgers and their members
//   - Category: expense/income classification, system or user-created
//   - Transaction, TransactionSplit: money movements and per-debtor
//     sub-obligations
//   - Settlement: audit record of a real-world debt payment
//   - Goal, GoalProgress: savings targets and their append-only
//     contribution log
//
// # Design Principles
//
//  1. Relationships are ID strings, never pointers, to avoid circular
//     references and keep the structs cheap to copy.
//  2. Monetary amounts are decimal.Decimal, never floats: the ledger's
//     zero-sum invariant must hold exactly.
//  3. Timestamps are Unix seconds (int64) throughout.
package models
