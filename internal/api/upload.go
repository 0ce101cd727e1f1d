package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"

	"github.com/diogo/transcribechat/internal/audio"
	apierrors "github.com/diogo/transcribechat/internal/errors"
	"github.com/diogo/transcribechat/internal/models"
)

// multipartBody holds an encoded upload ready to be sent
type multipartBody struct {
	body        *bytes.Buffer
	contentType string
}

// buildUpload encodes file as the "audio" field of a multipart form
func buildUpload(file *audio.File) (*multipartBody, error) {
	if file == nil {
		return nil, apierrors.ErrNoFile
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return nil, apierrors.NewUploadError(file.Name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	return encodeUpload(f, file.Name, file.MIMEType)
}

// encodeUpload writes reader into a multipart body under the audio field
func encodeUpload(reader io.Reader, fileName, mimeType string) (*multipartBody, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, models.FormFieldAudio, fileName))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, apierrors.NewUploadError(fileName, fmt.Errorf("failed to create form file: %w", err))
	}

	if _, err := io.Copy(part, reader); err != nil {
		return nil, apierrors.NewUploadError(fileName, fmt.Errorf("failed to write file data: %w", err))
	}

	if err := writer.Close(); err != nil {
		return nil, apierrors.NewUploadError(fileName, fmt.Errorf("failed to finish form: %w", err))
	}

	return &multipartBody{body: &body, contentType: writer.FormDataContentType()}, nil
}
