package domain

// JobStatus is the lifecycle of a provider-side video generation job.
// Transitions: queued → processing → {succeeded, failed, canceled}.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusSucceeded  JobStatus = "succeeded"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCanceled   JobStatus = "canceled"
)

// IsTerminal reports whether the job can transition any further.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusSucceeded, JobStatusFailed, JobStatusCanceled:
		return true
	default:
		return false
	}
}

// VideoJobHandle tracks one submitted generation job. Only polling mutates
// it, and never after a terminal status is reached.
type VideoJobHandle struct {
	ProviderJobID string
	Status        JobStatus
	OutputURL     string
	ErrorDetail   string
}
