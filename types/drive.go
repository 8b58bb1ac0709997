package types

// DriveFile mirrors the subset of Google Drive file metadata exposed to the
// client. Listing fills the first four fields, upload additionally returns
// size and creation time.
type DriveFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MimeType    string `json:"mimeType"`
	WebViewLink string `json:"webViewLink,omitempty"`
	Size        int64  `json:"size,omitempty"`
	CreatedTime string `json:"createdTime,omitempty"`
}

type DriveListResponse struct {
	Files []DriveFile `json:"files"`
}

type DriveUploadResponse struct {
	File DriveFile `json:"file"`
}
