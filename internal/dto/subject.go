package dto

import "github.com/noah-isme/schedule-liff-api/internal/models"

// WriteMeta reports the effect of a store write.
type WriteMeta struct {
	LastRowID int64 `json:"last_row_id"`
	Changes   int64 `json:"changes"`
}

// SubjectInsertResponse is returned by POST /subjects.
type SubjectInsertResponse struct {
	OK       bool      `json:"ok"`
	Inserted bool      `json:"inserted"`
	Semester string    `json:"semester"`
	Today    string    `json:"today"`
	Meta     WriteMeta `json:"meta"`
}

// SubjectListResponse is returned by GET /subjects/list.
type SubjectListResponse struct {
	OK       bool             `json:"ok"`
	Semester string           `json:"semester"`
	Today    string           `json:"today"`
	Data     []models.Subject `json:"data"`
}

// SubjectGetResponse is returned by GET /subjects/get.
type SubjectGetResponse struct {
	OK   bool            `json:"ok"`
	Data *models.Subject `json:"data"`
}

// DeleteResponse reports a delete by id.
type DeleteResponse struct {
	OK      bool  `json:"ok"`
	Deleted bool  `json:"deleted"`
	Changes int64 `json:"changes"`
}

// UpdateResponse reports an update by id.
type UpdateResponse struct {
	OK      bool  `json:"ok"`
	Updated bool  `json:"updated"`
	Changes int64 `json:"changes"`
}

// IDRequest is the body of the delete endpoints. ID accepts 12 as well as "12".
type IDRequest struct {
	UserID string      `json:"user_id"`
	ID     interface{} `json:"id"`
}
