package entity

// Response is the uniform API envelope. Total is only present on list
// responses and counts matching rows before pagination.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Total   *int64 `json:"total,omitempty"`
}

// BaseParams 包含通用的分页参数。
type BaseParams struct {
	Page     int `json:"page" form:"page" query:"page"`
	PageSize int `json:"pageSize" form:"pageSize" query:"pageSize"`
}

// ExportResult describes a persisted export snapshot.
type ExportResult struct {
	Object string `json:"object"`
	URL    string `json:"url,omitempty"`
	Rows   int    `json:"rows"`
}
