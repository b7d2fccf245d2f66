// Package handler 提供API处理器
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kaoqin/kaoqin/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// sendJSON 发送成功响应
func sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

// sendJSONError 发送错误响应
func sendJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: false, Error: message})
}

// sendAppError 按错误码映射HTTP状态发送错误响应
func sendAppError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errors.GetHTTPStatus(err))

	resp := Response{Success: false, Error: err.Error(), Code: string(errors.GetCode(err))}
	json.NewEncoder(w).Encode(resp)
}
