package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/models"
)

const (
	DefaultMaxResumeSize int64 = 10 << 20
	DefaultMinResumeSize int64 = 1 << 10

	dataURLPrefix = "data:"
)

var pdfMagic = []byte("%PDF")

// ResumeLoader turns an uploaded, encoded or on-disk resume into an attachment.
// Every rejection is a validation error.
type ResumeLoader interface {
	FromFileHeader(file *multipart.FileHeader) (models.ResumeAttachment, error)
	FromEncoded(value, filename string) (models.ResumeAttachment, error)
	FromPath(path string) (models.ResumeAttachment, error)
}

type resumeLoader struct {
	minSize int64
	maxSize int64
}

func NewResumeLoader(minSize, maxSize int64) ResumeLoader {
	if maxSize <= 0 {
		maxSize = DefaultMaxResumeSize
	}
	if minSize < 0 {
		minSize = 0
	}
	return &resumeLoader{
		minSize: minSize,
		maxSize: maxSize,
	}
}

func (l *resumeLoader) FromFileHeader(file *multipart.FileHeader) (models.ResumeAttachment, error) {
	if file == nil {
		return models.ResumeAttachment{}, NewValidationError("Missing required fields")
	}

	if err := checkPDFName(file.Filename); err != nil {
		return models.ResumeAttachment{}, err
	}
	if err := checkDeclaredType(file.Header.Get("Content-Type")); err != nil {
		return models.ResumeAttachment{}, err
	}
	if err := l.checkSize(file.Size); err != nil {
		return models.ResumeAttachment{}, err
	}

	src, err := file.Open()
	if err != nil {
		return models.ResumeAttachment{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return l.read(src, file.Filename)
}

// FromEncoded accepts raw base64 or a data URL such as the one a browser
// FileReader produces.
func (l *resumeLoader) FromEncoded(value, filename string) (models.ResumeAttachment, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return models.ResumeAttachment{}, NewValidationError("Missing required fields")
	}

	if strings.HasPrefix(value, dataURLPrefix) {
		header, payload, ok := strings.Cut(value[len(dataURLPrefix):], ",")
		if !ok {
			return models.ResumeAttachment{}, NewValidationError("Please upload a valid PDF file")
		}
		mediaType, isBase64 := parseDataURLHeader(header)
		if !isBase64 {
			return models.ResumeAttachment{}, NewValidationError("Please upload a valid PDF file")
		}
		if err := checkDeclaredType(mediaType); err != nil {
			return models.ResumeAttachment{}, err
		}
		value = payload
	}

	if filename != "" {
		if err := checkPDFName(filename); err != nil {
			return models.ResumeAttachment{}, err
		}
	}

	// decoded length is at most 3/4 of the encoded length
	if int64(len(value))/4*3 > l.maxSize+2 {
		return models.ResumeAttachment{}, l.tooLarge()
	}

	data, err := decodeBase64(value)
	if err != nil {
		return models.ResumeAttachment{}, NewValidationError("Please upload a valid PDF file")
	}

	return l.attachment(data, filename)
}

func (l *resumeLoader) FromPath(path string) (models.ResumeAttachment, error) {
	if err := checkPDFName(path); err != nil {
		return models.ResumeAttachment{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return models.ResumeAttachment{}, fmt.Errorf("failed to stat resume: %w", err)
	}
	if err := l.checkSize(info.Size()); err != nil {
		return models.ResumeAttachment{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return models.ResumeAttachment{}, fmt.Errorf("failed to open resume: %w", err)
	}
	defer f.Close()

	return l.read(f, filepath.Base(path))
}

func (l *resumeLoader) read(r io.Reader, filename string) (models.ResumeAttachment, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxSize+1))
	if err != nil {
		return models.ResumeAttachment{}, fmt.Errorf("failed to read resume: %w", err)
	}
	return l.attachment(data, filename)
}

func (l *resumeLoader) attachment(data []byte, filename string) (models.ResumeAttachment, error) {
	if err := l.checkSize(int64(len(data))); err != nil {
		return models.ResumeAttachment{}, err
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return models.ResumeAttachment{}, NewValidationError("Please upload a valid PDF file")
	}

	return models.ResumeAttachment{
		Data:      data,
		MediaType: models.MediaTypePDF,
		Filename:  filename,
	}, nil
}

func (l *resumeLoader) checkSize(size int64) error {
	if size > l.maxSize {
		return l.tooLarge()
	}
	if size < l.minSize {
		return NewValidationError("File seems too small to be a valid resume")
	}
	return nil
}

func (l *resumeLoader) tooLarge() error {
	return NewValidationError(fmt.Sprintf("File size must be less than %s", formatSize(l.maxSize)))
}

func checkPDFName(name string) error {
	if name == "" {
		return nil
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return NewValidationError("Please upload a valid PDF file")
	}
	return nil
}

// checkDeclaredType rejects a declared media type other than PDF. Generic
// binary types are let through to the magic check.
func checkDeclaredType(contentType string) error {
	if strings.TrimSpace(contentType) == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return NewValidationError("Please upload a valid PDF file")
	}
	switch mediaType {
	case models.MediaTypePDF, "application/octet-stream":
		return nil
	default:
		return NewValidationError("Please upload a valid PDF file")
	}
}

func parseDataURLHeader(header string) (string, bool) {
	params := strings.Split(header, ";")
	mediaType := strings.TrimSpace(params[0])
	for _, param := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(param), "base64") {
			return mediaType, true
		}
	}
	return mediaType, false
}

func decodeBase64(value string) ([]byte, error) {
	value = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, value)

	if data, err := base64.StdEncoding.DecodeString(value); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(value, "="))
}

func formatSize(size int64) string {
	switch {
	case size >= 1<<20 && size%(1<<20) == 0:
		return fmt.Sprintf("%dMB", size>>20)
	case size >= 1<<10 && size%(1<<10) == 0:
		return fmt.Sprintf("%dKB", size>>10)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
