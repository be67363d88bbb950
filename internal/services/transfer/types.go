package transfer

import "time"

// Stage is the position of a payment attempt in its state machine:
// pre_check -> debit_pending -> credit_pending -> job_marking -> committed,
// with aborted reachable from every stage before committed.
type Stage string

const (
	StagePreCheck      Stage = "pre_check"
	StageDebitPending  Stage = "debit_pending"
	StageCreditPending Stage = "credit_pending"
	StageJobMarking    Stage = "job_marking"
	StageCommitted     Stage = "committed"
	StageAborted       Stage = "aborted"
)

const operationPayJob = "pay_job"

// Config holds the tunables of the transfer engine.
type Config struct {
	// Timeout bounds the storage transaction of a single payment.
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{Timeout: 5 * time.Second}
}

// MetricsCollector defines the interface for collecting payment metrics
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)
	RecordTransactionVolume(kind string, amount int64)
}
