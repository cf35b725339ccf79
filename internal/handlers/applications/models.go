package applications

import "encoding/json"

// DeleteRequest is the body of DELETE /job-applications. IDs stays raw so the
// handler can tell a missing array from a malformed one.
type DeleteRequest struct {
	IDs json.RawMessage `json:"ids"`
}

type DeleteResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}
