package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/ports"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, string) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{Timeout: 2 * time.Second}), server.URL
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func TestIsPhoneNumber(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"13800000000", true},
		{"138-0000-0000", true},
		{"+8613800000000", true},
		{"(010) 1234 5678", true},
		{"liwei", false},
		{"12345", false},
		{"2380000000a", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPhoneNumber(tt.value))
		})
	}
}

func TestLogin_UsernameBody(t *testing.T) {
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, loginPath, r.URL.Path)
		body := decodeBody(t, r)
		assert.Equal(t, "liwei", body["username"])
		assert.NotContains(t, body, "phone")
		assert.Equal(t, "secret", body["password"])

		io.WriteString(w, `{"code":200,"msg":"ok","data":{"token":"tok","refresh_token":"ref",
			"user":{"id":42,"username":"liwei","email":"li@example.com","phone":"13800000000","realName":"李伟"}}}`)
	})

	result, err := client.Login(context.Background(), url, "liwei", "secret")

	require.NoError(t, err)
	assert.Equal(t, &ports.LoginResult{
		AccessToken:       "tok",
		RefreshCredential: "ref",
		Identity: domain.Identity{
			DisplayName: "李伟",
			Email:       "li@example.com",
			ID:          42,
			Phone:       "13800000000",
			Username:    "liwei",
		},
	}, result)
}

func TestLogin_PhoneBody(t *testing.T) {
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "13800000000", body["phone"])
		assert.NotContains(t, body, "username")
		io.WriteString(w, `{"code":1,"data":{"token":"tok","user":{"id":1}}}`)
	})

	result, err := client.Login(context.Background(), url, "13800000000", "secret")

	require.NoError(t, err)
	assert.Equal(t, "tok", result.AccessToken)
}

func TestLogin_Rejected(t *testing.T) {
	t.Run("http status with message", func(t *testing.T) {
		client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"code":401,"message":"用户名或密码错误"}`)
		})

		_, err := client.Login(context.Background(), url, "liwei", "wrong")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "用户名或密码错误", err.Error())
	})

	t.Run("business code", func(t *testing.T) {
		client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"code":500,"msg":"account locked"}`)
		})

		_, err := client.Login(context.Background(), url, "liwei", "secret")

		assert.EqualError(t, err, "account locked")
	})

	t.Run("missing token", func(t *testing.T) {
		client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"code":200,"data":{}}`)
		})

		_, err := client.Login(context.Background(), url, "liwei", "secret")

		assert.ErrorContains(t, err, "no token")
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		client := NewClient(Options{Timeout: time.Second})

		_, err := client.Login(context.Background(), "http://127.0.0.1:1", "liwei", "secret")

		assert.ErrorContains(t, err, "network error")
	})
}

func TestRefreshToken(t *testing.T) {
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, refreshPath, r.URL.Path)
		assert.Equal(t, "ref", decodeBody(t, r)["refresh_token"])
		io.WriteString(w, `{"code":200,"data":{"access_token":"tok-2"}}`)
	})

	token, err := client.RefreshToken(context.Background(), url, "ref")

	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
}

func TestRefreshToken_NoCredential(t *testing.T) {
	client := NewClient(Options{})

	_, err := client.RefreshToken(context.Background(), "http://unused", "")

	assert.Error(t, err)
}

func TestGetProject(t *testing.T) {
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, projectPath, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "tok", r.Header.Get("token"))
		io.WriteString(w, `{"code":1,"data":{"id":7,"name":"淮安项目","typeDisplayName":"盐穴",
			"statusDisplayName":"进行中","manager":{"realName":"王工"},"completionProgress":42.5}}`)
	})

	project, err := client.GetProject(context.Background(), url, "tok")

	require.NoError(t, err)
	assert.Equal(t, int64(7), project.ID)
	assert.Equal(t, "淮安项目", project.Name)
	assert.Equal(t, "盐穴", project.TypeName)
	assert.Equal(t, "进行中", project.StatusName)
	assert.Equal(t, "王工", project.Manager)
	require.NotNil(t, project.CompletionProgress)
	assert.InDelta(t, 42.5, *project.CompletionProgress, 0.001)
	assert.Nil(t, project.ActualSaltAmount)
}

func TestGetProject_NoneAssigned(t *testing.T) {
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":1,"data":null}`)
	})

	_, err := client.GetProject(context.Background(), url, "tok")

	assert.ErrorContains(t, err, "no project")
}

func TestUploadReports(t *testing.T) {
	reports := []domain.Report{
		{
			ReportDate:       "2025.10.18",
			ProjectName:      "淮安项目",
			OverallProgress:  domain.ProgressDelayed,
			TaskProgressList: []domain.TaskProgress{{TaskNo: "2.1", TaskName: "钻井"}},
			WorkerReports:    []domain.WorkerReport{{Name: "张三"}},
		},
		{ReportDate: "2025.10.19"},
	}

	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, uploadPath, r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("token"))

		body := decodeBody(t, r)
		assert.Equal(t, float64(7), body["projectId"])
		assert.Equal(t, float64(42), body["reporterId"])
		assert.Equal(t, true, body["overwriteExisting"])

		sent := body["reports"].([]any)
		require.Len(t, sent, 2)
		first := sent[0].(map[string]any)
		assert.Equal(t, "delayed", first["overallProgress"])
		assert.IsType(t, "", first["taskProgressList"], "lists travel as JSON strings")
		assert.JSONEq(t, `[{"taskNo":"2.1","taskName":"钻井","plannedProgress":"","actualProgress":"",
			"deviationReason":"","impactMeasures":""}]`, first["taskProgressList"].(string))
		second := sent[1].(map[string]any)
		assert.Equal(t, "[]", second["workerReports"])
		assert.Equal(t, "normal", second["overallProgress"])

		io.WriteString(w, `{"code":1,"msg":"ok","data":{"totalCount":2,"successCount":1,"failedCount":1,
			"skippedCount":0,"successReports":["2025.10.19"],
			"failedReports":[{"reportDate":"2025.10.18","reason":"duplicate"}]}}`)
	})

	outcome, err := client.UploadReports(context.Background(), url, "tok", ports.UploadRequest{
		Overwrite:  true,
		ProjectID:  7,
		ReporterID: 42,
		Reports:    reports,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Total)
	assert.Equal(t, 1, outcome.Succeeded)
	assert.Equal(t, 1, outcome.Failed)
	assert.ElementsMatch(t, []domain.RowResult{
		{Position: 1, ReportDate: "2025.10.19", Success: true},
		{Position: 0, ReportDate: "2025.10.18", Success: false, Message: "duplicate"},
	}, outcome.Results)
}

func TestUploadReports_RequiresSuccessCode(t *testing.T) {
	t.Run("code zero", func(t *testing.T) {
		client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"code":0,"message":"项目不存在"}`)
		})

		_, err := client.UploadReports(context.Background(), url, "tok", ports.UploadRequest{})

		assert.EqualError(t, err, "项目不存在")
	})

	t.Run("missing code", func(t *testing.T) {
		client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"data":{}}`)
		})

		_, err := client.UploadReports(context.Background(), url, "tok", ports.UploadRequest{})

		assert.Error(t, err)
	})

	t.Run("server error without body", func(t *testing.T) {
		client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.UploadReports(context.Background(), url, "tok", ports.UploadRequest{})

		assert.EqualError(t, err, "HTTP 502")
	})
}

func TestUploadOutcome_IndexedResults(t *testing.T) {
	sent := []domain.Report{{ReportDate: "a"}, {ReportDate: "a"}, {ReportDate: "b"}}
	one, nine := 1, 9
	data := uploadData{
		TotalCount:     3,
		SuccessCount:   2,
		FailedCount:    1,
		SuccessReports: []reportResult{{ReportDate: "a"}, {Index: &one}},
		FailedReports:  []reportResult{{Index: &nine}, {ReportDate: "b", Error: "bad date"}},
	}

	outcome := data.outcome(sent)

	assert.Equal(t, []domain.RowResult{
		{Position: 0, ReportDate: "a", Success: true},
		{Position: 1, ReportDate: "a", Success: true},
		{Position: 2, ReportDate: "b", Success: false, Message: "bad date"},
	}, outcome.Results)
}

func TestClient_RateLimiterHonoursContext(t *testing.T) {
	client := NewClient(Options{RequestsPerSecond: 0.001})
	client.limiter.Allow() // drain the single burst token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.RefreshToken(ctx, "http://unused", "ref")

	assert.ErrorContains(t, err, "request not sent")
}

func TestAPIError_Messages(t *testing.T) {
	code := 500
	assert.Equal(t, "login expired or credentials rejected", (&APIError{Status: 401}).Error())
	assert.Equal(t, "permission denied", (&APIError{Status: 403}).Error())
	assert.Equal(t, "API endpoint not found", (&APIError{Status: 404}).Error())
	assert.Equal(t, "request rejected (code 500)", (&APIError{Status: 200, Code: &code}).Error())
	assert.Equal(t, "custom", (&APIError{Status: 500, Message: "custom"}).Error())
}
