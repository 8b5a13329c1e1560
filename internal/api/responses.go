package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// InsertResult describes a completed insert: the generated id and the number
// of rows written.
type InsertResult struct {
	InsertID     int   `json:"insertId" example:"12"`
	AffectedRows int64 `json:"affectedRows" example:"1"`
}

// DeleteResult reports how many rows a delete removed. Zero is a valid
// outcome: deletes of missing rows succeed.
type DeleteResult struct {
	AffectedRows int64 `json:"affectedRows" example:"1"`
}

func Inserted(id int) *InsertResult {
	return &InsertResult{InsertID: id, AffectedRows: 1}
}
