package models

// UploadRequest asks for an upload target for one attachment
type UploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255,nospaces"`
	ContentType string `json:"content_type" binding:"omitempty,max=100"`
}

// UploadResponse carries a presigned upload target for a post attachment
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}
