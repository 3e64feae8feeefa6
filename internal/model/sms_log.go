package model

import "time"

// SmsLog is the immutable audit record of one inbound payment
// notification attempt. Every attempt writes exactly one row, whatever
// the outcome. TransactionRef carries a unique (nullable) index; that
// index, not the application-level duplicate check, is the hard
// at-most-once guarantee.
//
// Fields:
//  ID             – primary key identifier.
//  Sender         – sender phone/short-code the notification came from.
//  Message        – raw notification text.
//  Amount         – parsed amount (nil when parsing failed).
//  TransactionRef – parsed transaction reference; unique, left nil on
//                   rows recording a duplicate or a parse failure.
//  UserID         – resolved user (nil when unresolved).
//  PlanID         – resolved plan (nil when unresolved).
//  Processed      – whether the notification drove an activation.
//  Error          – failure description (nil on success).
//  Source         – tag identifying the ingest path (e.g. "sms").
//  CreatedAt      – insert timestamp; storage purges rows after 90 days.
type SmsLog struct {
    ID             uint64    // sms_logs.id
    Sender         string    // sms_logs.sender
    Message        string    // sms_logs.message
    Amount         *int64    // sms_logs.amount (nullable)
    TransactionRef *string   // sms_logs.transaction_ref (nullable, unique)
    UserID         *uint64   // sms_logs.user_id (nullable)
    PlanID         *string   // sms_logs.plan_id (nullable)
    Processed      bool      // sms_logs.processed
    Error          *string   // sms_logs.error (nullable)
    Source         string    // sms_logs.source
    CreatedAt      time.Time // sms_logs.created_at
}
