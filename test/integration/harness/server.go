package harness

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Credentials accepted by the fake report service.
const (
	FakeUsername = "liwei"
	FakePassword = "secret"
	FakeToken    = "fake-access-token"
)

// UploadCall is one batch import request received by the fake service.
type UploadCall struct {
	OverwriteExisting bool             `json:"overwriteExisting"`
	ProjectID         int64            `json:"projectId"`
	ReporterID        int64            `json:"reporterId"`
	Reports           []map[string]any `json:"reports"`
}

// FakeServer is an in-process report service for end-to-end tests.
// Reports whose date is listed in Existing fail unless overwrite is requested.
type FakeServer struct {
	URL      string
	Existing map[string]bool

	mu      sync.Mutex
	uploads []UploadCall
}

// NewFakeServer starts a fake report service that is closed with the test.
func NewFakeServer(tb testing.TB) *FakeServer {
	tb.Helper()

	f := &FakeServer{Existing: make(map[string]bool)}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", f.login)
	mux.HandleFunc("/api/v1/auth/refresh", f.refresh)
	mux.HandleFunc("/api/v1/projects/my-project", f.project)
	mux.HandleFunc("/api/v1/daily-reports/batch-import", f.upload)

	server := httptest.NewServer(mux)
	tb.Cleanup(server.Close)
	f.URL = server.URL
	return f
}

// Uploads returns the batch import requests received so far.
func (f *FakeServer) Uploads() []UploadCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]UploadCall(nil), f.uploads...)
}

func (f *FakeServer) login(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeEnvelope(w, http.StatusBadRequest, 400, "bad request", nil)
		return
	}
	if body["username"] != FakeUsername || body["password"] != FakePassword {
		writeEnvelope(w, http.StatusOK, 401, "用户名或密码错误", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, 200, "ok", map[string]any{
		"token":         FakeToken,
		"refresh_token": "fake-refresh",
		"user": map[string]any{
			"id":       42,
			"username": FakeUsername,
			"realName": "李伟",
		},
	})
}

func (f *FakeServer) refresh(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, 200, "ok", map[string]any{"token": FakeToken})
}

func (f *FakeServer) project(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeEnvelope(w, http.StatusUnauthorized, 401, "", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, 200, "ok", map[string]any{
		"id":                7,
		"name":              "东港盐场改造",
		"manager":           map[string]any{"realName": "王强"},
		"statusDisplayName": "进行中",
	})
}

func (f *FakeServer) upload(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("token") != FakeToken {
		writeEnvelope(w, http.StatusUnauthorized, 401, "", nil)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, 400, "bad request", nil)
		return
	}
	var call UploadCall
	if err := json.Unmarshal(data, &call); err != nil {
		writeEnvelope(w, http.StatusBadRequest, 400, "bad request", nil)
		return
	}

	f.mu.Lock()
	f.uploads = append(f.uploads, call)
	f.mu.Unlock()

	succeeded := []string{}
	failed := []map[string]any{}
	for i, report := range call.Reports {
		date, _ := report["reportDate"].(string)
		if f.Existing[date] && !call.OverwriteExisting {
			failed = append(failed, map[string]any{"index": i, "reportDate": date, "reason": "日报已存在"})
			continue
		}
		succeeded = append(succeeded, date)
	}
	writeEnvelope(w, http.StatusOK, 1, "导入完成", map[string]any{
		"totalCount":     len(call.Reports),
		"successCount":   len(succeeded),
		"failedCount":    len(failed),
		"skippedCount":   0,
		"successReports": succeeded,
		"failedReports":  failed,
	})
}

func (f *FakeServer) authorized(r *http.Request) bool {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ") == FakeToken
}

func writeEnvelope(w http.ResponseWriter, status, code int, msg string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"code": code, "msg": msg, "data": data})
}
