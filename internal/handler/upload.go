package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/kaoqin/kaoqin/internal/service"
	"github.com/kaoqin/kaoqin/pkg/logger"
)

// 上传文件大小上限 (32 MB)
const maxUploadSize = 32 << 20

// UploadHandler 文件上传摄取API
//
// 上传的文件先落盘再走归一化摄取路径，落盘文件保留原始扩展名，
// 扩展名决定归一化分支（表格/结构化/电子表格）。
type UploadHandler struct {
	svc       *service.Service
	uploadDir string
}

// NewUploadHandler 创建上传处理器
func NewUploadHandler(svc *service.Service, uploadDir string) *UploadHandler {
	return &UploadHandler{svc: svc, uploadDir: uploadDir}
}

// Attendance 全员考勤上传API
func (h *UploadHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	h.ingest(w, r, service.KindAttendance, h.svc.IngestAttendanceFile)
}

// RegionalManager 区域经理考勤上传API
func (h *UploadHandler) RegionalManager(w http.ResponseWriter, r *http.Request) {
	h.ingest(w, r, service.KindRegional, h.svc.IngestRegionalManagerFile)
}

// Directory 员工目录上传API
func (h *UploadHandler) Directory(w http.ResponseWriter, r *http.Request) {
	h.ingest(w, r, service.KindDirectory, h.svc.IngestDirectoryFile)
}

type ingestFunc func(ctx context.Context, path string) (*service.IngestResult, error)

func (h *UploadHandler) ingest(w http.ResponseWriter, r *http.Request, kind string, fn ingestFunc) {
	if r.Method != http.MethodPost {
		sendJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path, err := h.saveUpload(r)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Str("kind", kind).Msg("上传文件保存失败")
		sendJSONError(w, "Invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer os.Remove(path)

	result, err := fn(r.Context(), path)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Str("kind", kind).Msg("文件摄取失败")
		sendAppError(w, err)
		return
	}
	sendJSON(w, result)
}

// saveUpload 将 multipart 表单中的 file 字段落盘，返回临时路径
func (h *UploadHandler) saveUpload(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return "", err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		return "", err
	}

	ext := filepath.Ext(header.Filename)
	path := filepath.Join(h.uploadDir, uuid.New().String()+ext)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
