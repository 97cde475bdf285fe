package upload

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"threadstory-be/internal/apperror"
	"threadstory-be/internal/logger"
	"threadstory-be/internal/utils"

	"go.uber.org/zap"
)

const (
	MaxFileSize  = 5 << 20
	MaxFiles     = 5
	PublicPrefix = "/images/products/"
)

var allowedTypes = regexp.MustCompile(`jpeg|jpg|png|gif|webp`)

var (
	ErrNoFile       = apperror.BadRequest("No file uploaded")
	ErrNoFiles      = apperror.BadRequest("No files uploaded")
	ErrTooLarge     = apperror.BadRequest("File size too large. Maximum size is 5MB")
	ErrNotAnImage   = apperror.BadRequest("Only image files are allowed (jpeg, jpg, png, gif, webp)")
	ErrTooManyFiles = apperror.BadRequest(fmt.Sprintf("Too many files. Maximum is %d", MaxFiles))
)

type Stored struct {
	Filename  string
	ImagePath string
}

type Service struct {
	dir  string
	now  func() time.Time
	rand func() int64
}

func NewService(dir string) *Service {
	return &Service{
		dir:  dir,
		now:  time.Now,
		rand: func() int64 { return rand.Int63n(1_000_000_000) },
	}
}

func (s *Service) Dir() string {
	return s.dir
}

// Validate checks size, extension and declared content type of fh.
func Validate(fh *multipart.FileHeader) error {
	if fh.Size > MaxFileSize {
		return ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mimetype := fh.Header.Get("Content-Type")
	if !allowedTypes.MatchString(ext) || !allowedTypes.MatchString(mimetype) {
		return ErrNotAnImage
	}
	return nil
}

func (s *Service) filename(original string) string {
	ext := filepath.Ext(original)
	base := utils.SanitizeFileBase(strings.TrimSuffix(filepath.Base(original), ext))
	return fmt.Sprintf("%s-%d-%d%s", base, s.now().UnixMilli(), s.rand(), ext)
}

func (s *Service) Save(ctx context.Context, fh *multipart.FileHeader) (*Stored, error) {
	if fh == nil {
		return nil, ErrNoFile
	}
	if err := Validate(fh); err != nil {
		return nil, err
	}
	return s.store(ctx, fh)
}

// SaveAll validates every file before storing any of them.
func (s *Service) SaveAll(ctx context.Context, files []*multipart.FileHeader) ([]*Stored, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > MaxFiles {
		return nil, ErrTooManyFiles
	}
	for _, fh := range files {
		if err := Validate(fh); err != nil {
			return nil, err
		}
	}

	stored := make([]*Stored, 0, len(files))
	for _, fh := range files {
		st, err := s.store(ctx, fh)
		if err != nil {
			return nil, err
		}
		stored = append(stored, st)
	}
	return stored, nil
}

func (s *Service) store(ctx context.Context, fh *multipart.FileHeader) (*Stored, error) {
	log := logger.FromCtx(ctx)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Error("failed to create upload dir", zap.String("dir", s.dir), zap.Error(err))
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	name := s.filename(fh.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		log.Error("failed to create image file", zap.String("filename", name), zap.Error(err))
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		log.Error("failed to write image file", zap.String("filename", name), zap.Error(err))
		return nil, err
	}

	log.Info("image stored",
		zap.String("filename", name),
		zap.Int64("size", fh.Size),
	)

	return &Stored{Filename: name, ImagePath: PublicPrefix + name}, nil
}
