package submissions

// CreateSubmissionRequest is the body for POST /api/submissions.
type CreateSubmissionRequest struct {
	Task string `json:"task"`
	Code string `json:"code"`
}

// CreateSubmissionResponse carries the id of the accepted-for-processing
// submission document.
type CreateSubmissionResponse struct {
	SubmissionID string `json:"submissionId"`
}
