package utils

import (
	"io"
	"lms/config"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

// SaveUploadedFile stores a multipart upload under destDir and returns the
// saved path
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	// Unique filename keyed on upload time
	ext := filepath.Ext(file.Filename)
	newFilename := time.Now().Format("20060102150405") + ext
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return filePath, nil
}

// GetFileURL maps a stored file path to its public URL
func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	name := filepath.Base(filePath)
	dir := filepath.Base(filepath.Dir(filePath))
	return config.AppConfig.UploadBaseURL + "/" + dir + "/" + name
}
