package models

import "time"

// ThumbnailJob asks the pipeline to derive renditions of an uploaded image.
type ThumbnailJob struct {
	FileID      string    `json:"fileId"`
	UserID      string    `json:"userId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// JobState is the lifecycle of a ThumbnailJob. Completed and Failed are final.
type JobState string

const (
	JobQueued     JobState = "queued"
	JobProcessing JobState = "processing"
	JobCompleted  JobState = "completed"
	JobFailed     JobState = "failed"
)

func (s JobState) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}
