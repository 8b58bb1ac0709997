package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/lerhino/rhino-be/types"
)

var (
	ErrFolderNotConfigured = errors.New("drive folder id not configured")
	ErrCredentialsMissing  = errors.New("drive service account credentials not configured")
)

// DriveCredentials are the service account fields taken from the
// environment. The private key may carry literal "\n" sequences the way .env
// files store it.
type DriveCredentials struct {
	ClientEmail string
	PrivateKey  string
}

// DriveService proxies the course-document folder on Google Drive.
type DriveService struct {
	folderID string
	files    *drive.FilesService
}

func NewDriveService(ctx context.Context, creds DriveCredentials, folderID string) (*DriveService, error) {
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, ErrCredentialsMissing
	}

	conf := &jwt.Config{
		Email:      creds.ClientEmail,
		PrivateKey: []byte(strings.ReplaceAll(creds.PrivateKey, `\n`, "\n")),
		Scopes:     []string{drive.DriveScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := drive.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating drive client: %w", err)
	}

	return &DriveService{
		folderID: folderID,
		files:    svc.Files,
	}, nil
}

// ListFiles returns the folder contents, most recent first. Checked before
// any upstream call so a missing folder id never leaves the process.
func (s *DriveService) ListFiles(ctx context.Context) ([]types.DriveFile, error) {
	if s.folderID == "" {
		return nil, ErrFolderNotConfigured
	}

	query := fmt.Sprintf("'%s' in parents and trashed = false", s.folderID)
	res, err := s.files.List().
		Context(ctx).
		Q(query).
		Fields("files(id, name, mimeType, webViewLink)").
		OrderBy("createdTime desc").
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing drive folder: %w", err)
	}

	files := make([]types.DriveFile, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, types.DriveFile{
			ID:          f.Id,
			Name:        f.Name,
			MimeType:    f.MimeType,
			WebViewLink: f.WebViewLink,
		})
	}
	return files, nil
}

// UploadFile streams one file into the configured folder.
func (s *DriveService) UploadFile(ctx context.Context, r io.Reader, filename, mimeType string) (*types.DriveFile, error) {
	if s.folderID == "" {
		return nil, ErrFolderNotConfigured
	}

	meta := &drive.File{
		Name:    filename,
		Parents: []string{s.folderID},
	}
	created, err := s.files.Create(meta).
		Context(ctx).
		Media(r, googleapi.ContentType(mimeType)).
		Fields("id, name, mimeType, webViewLink, size, createdTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("uploading to drive: %w", err)
	}

	return &types.DriveFile{
		ID:          created.Id,
		Name:        created.Name,
		MimeType:    created.MimeType,
		WebViewLink: created.WebViewLink,
		Size:        created.Size,
		CreatedTime: created.CreatedTime,
	}, nil
}
