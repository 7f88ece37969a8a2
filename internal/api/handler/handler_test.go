package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"aj-fitness/internal/dto"
	"aj-fitness/internal/model"
	"aj-fitness/internal/service"
	"aj-fitness/pkg/database"
	pkgerrors "aj-fitness/pkg/errors"
	"aj-fitness/pkg/jwt"
	"aj-fitness/pkg/response"
	"aj-fitness/pkg/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult  *dto.TokenResponse
	loginErr     error
	logoutErr    error
	logoutClaims *jwt.Claims
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, claims *jwt.Claims) error {
	m.logoutClaims = claims
	return m.logoutErr
}

// ── Mock MemberService ──

type mockMemberService struct {
	listResult    []dto.MemberResponse
	listErr       error
	listReq       *dto.MemberListRequest
	getResult     *dto.MemberDetailResponse
	getErr        error
	createResult  *dto.CreateMemberResponse
	createErr     error
	createReq     *dto.CreateMemberRequest
	deleteErr     error
	deletedID     int64
	feeResult     *dto.FeeResponse
	feeErr        error
	historyResult *dto.FeeHistoryResponse
	historyErr    error
	receiptResult *dto.ReceiptResponse
	receiptErr    error
}

func (m *mockMemberService) List(_ context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, error) {
	m.listReq = req
	return m.listResult, m.listErr
}
func (m *mockMemberService) Get(_ context.Context, _ int64) (*dto.MemberDetailResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockMemberService) Create(_ context.Context, req *dto.CreateMemberRequest) (*dto.CreateMemberResponse, error) {
	m.createReq = req
	return m.createResult, m.createErr
}
func (m *mockMemberService) Delete(_ context.Context, id int64) error {
	m.deletedID = id
	return m.deleteErr
}
func (m *mockMemberService) RecordFee(_ context.Context, _ int64, _ *dto.RecordFeeRequest) (*dto.FeeResponse, error) {
	return m.feeResult, m.feeErr
}
func (m *mockMemberService) FeeHistory(_ context.Context, _ int64) (*dto.FeeHistoryResponse, error) {
	return m.historyResult, m.historyErr
}
func (m *mockMemberService) Receipt(_ context.Context, _ int64) (*dto.ReceiptResponse, error) {
	return m.receiptResult, m.receiptErr
}

// ── Mock DashboardService ──

type mockDashboardService struct {
	result *dto.DashboardResponse
	err    error
	req    *dto.DashboardRequest
}

func (m *mockDashboardService) Get(_ context.Context, req *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	m.req = req
	return m.result, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf *bytes.Buffer
	err error
}

func (m *mockExportService) MembersCSV(_ context.Context) (*bytes.Buffer, error) { return m.buf, m.err }
func (m *mockExportService) FeesCSV(_ context.Context) (*bytes.Buffer, error)    { return m.buf, m.err }
func (m *mockExportService) Workbook(_ context.Context) (*bytes.Buffer, error)   { return m.buf, m.err }

// ── Mock BackupService ──

type mockBackupService struct {
	path string
	err  error
}

func (m *mockBackupService) Snapshot(_ context.Context) (string, error) { return m.path, m.err }

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set(ClaimsKey, &jwt.Claims{Operator: "ARajput2025"})
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(method, route, target string, body io.Reader, contentType string, handle gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	r := gin.New()
	r.Handle(method, route, handle)
	r.ServeHTTP(w, req)
	return w
}

func sampleMember() dto.MemberResponse {
	return dto.MemberResponse{
		ID:        1,
		Name:      "Alice",
		StartDate: model.MustParseDate("2024-06-01"),
		EndDate:   model.MustParseDate("2024-07-01"),
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{AccessToken: "test-access-token", ExpiresIn: 43200, Operator: "ARajput2025"},
	}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/login", "/auth/login",
		jsonBody(dto.LoginRequest{Username: "ARajput2025", Password: "pw"}), "application/json", h.Login)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if !strings.Contains(w.Body.String(), "test-access-token") {
		t.Error("expected access token in body")
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/login", "/auth/login", strings.NewReader("invalid json"), "application/json", h.Login)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := serve("POST", "/auth/login", "/auth/login",
		jsonBody(dto.LoginRequest{Username: "admin", Password: "wrong"}), "application/json", h.Login)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/logout", "/auth/logout", nil, "", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.logoutClaims == nil || mock.logoutClaims.Operator != "ARajput2025" {
		t.Error("expected claims to be passed to service")
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/logout", "/auth/logout", nil, "", h.Logout)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// MemberHandler Tests
// ═══════════════════════════════════════════════════════════

func TestMemberHandler_ListMembers(t *testing.T) {
	mock := &mockMemberService{listResult: []dto.MemberResponse{sampleMember()}}
	h := NewMemberHandler(mock, nil)

	w := serve("GET", "/members", "/members?search=ali", nil, "", h.ListMembers)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.listReq == nil || mock.listReq.Search != "ali" {
		t.Errorf("expected search=ali to be bound, got %+v", mock.listReq)
	}
	if !strings.Contains(w.Body.String(), `"end_date":"2024-07-01"`) {
		t.Errorf("expected date rendered as YYYY-MM-DD, got %s", w.Body.String())
	}
}

func TestMemberHandler_GetMember_NotFound(t *testing.T) {
	h := NewMemberHandler(&mockMemberService{getErr: service.ErrMemberNotFound}, nil)

	w := serve("GET", "/members/:id", "/members/99", nil, "", h.GetMember)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 20001 {
		t.Errorf("expected error code 20001, got %d", resp.Code)
	}
}

func TestMemberHandler_GetMember_BadID(t *testing.T) {
	h := NewMemberHandler(&mockMemberService{}, nil)

	for _, id := range []string{"abc", "0", "-3"} {
		w := serve("GET", "/members/:id", "/members/"+id, nil, "", h.GetMember)
		if w.Code != http.StatusBadRequest {
			t.Errorf("id %q: expected 400, got %d", id, w.Code)
		}
	}
}

func TestMemberHandler_CreateMember_JSON(t *testing.T) {
	mock := &mockMemberService{createResult: &dto.CreateMemberResponse{Member: sampleMember()}}
	h := NewMemberHandler(mock, nil)

	body := map[string]string{
		"name": "Alice", "phone": "555", "start_date": "2024-06-01",
		"end_date": "2024-07-01", "fee_amount": "100",
	}
	w := serve("POST", "/members", "/members", jsonBody(body), "application/json", h.CreateMember)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if mock.createReq == nil || mock.createReq.Photo != nil {
		t.Error("expected request without photo")
	}
}

func TestMemberHandler_CreateMember_MissingField(t *testing.T) {
	h := NewMemberHandler(&mockMemberService{}, nil)

	w := serve("POST", "/members", "/members", jsonBody(map[string]string{"name": "Alice"}), "application/json", h.CreateMember)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMemberHandler_CreateMember_ValidationError(t *testing.T) {
	h := NewMemberHandler(&mockMemberService{createErr: pkgerrors.NewValidation("end_date", "日期格式应为 YYYY-MM-DD")}, nil)

	body := map[string]string{"name": "A", "start_date": "2024-06-01", "end_date": "bad", "fee_amount": "1"}
	w := serve("POST", "/members", "/members", jsonBody(body), "application/json", h.CreateMember)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10001 || !strings.Contains(resp.Details, "end_date") {
		t.Errorf("expected validation details, got %+v", resp)
	}
}

func multipartMember(t *testing.T, filename string, photo []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name": "Alice", "start_date": "2024-06-01", "end_date": "2024-07-01", "fee_amount": "100",
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("photo", filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(photo)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestMemberHandler_CreateMember_MultipartPhoto(t *testing.T) {
	dir := t.TempDir()
	photos, err := storage.NewPhotoStore(dir, 1024)
	if err != nil {
		t.Fatal(err)
	}
	mock := &mockMemberService{createResult: &dto.CreateMemberResponse{Member: sampleMember()}}
	h := NewMemberHandler(mock, photos)

	body, ct := multipartMember(t, "face.png", []byte("png-bytes"))
	w := serve("POST", "/members", "/members", body, ct, h.CreateMember)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mock.createReq.Photo == nil {
		t.Fatal("expected photo file name to be passed to service")
	}
	if _, err := os.Stat(filepath.Join(dir, *mock.createReq.Photo)); err != nil {
		t.Errorf("expected photo saved on disk: %v", err)
	}
}

func TestMemberHandler_CreateMember_PhotoRemovedOnFailure(t *testing.T) {
	dir := t.TempDir()
	photos, _ := storage.NewPhotoStore(dir, 1024)
	h := NewMemberHandler(&mockMemberService{createErr: errors.New("db down")}, photos)

	body, ct := multipartMember(t, "face.jpg", []byte("jpg"))
	w := serve("POST", "/members", "/members", body, ct, h.CreateMember)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected uploaded photo to be removed, found %d files", len(entries))
	}
}

func TestMemberHandler_CreateMember_BadPhotoType(t *testing.T) {
	photos, _ := storage.NewPhotoStore(t.TempDir(), 1024)
	mock := &mockMemberService{}
	h := NewMemberHandler(mock, photos)

	body, ct := multipartMember(t, "evil.exe", []byte("MZ"))
	w := serve("POST", "/members", "/members", body, ct, h.CreateMember)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if mock.createReq != nil {
		t.Error("service must not be called when photo is rejected")
	}
}

func TestMemberHandler_DeleteMember(t *testing.T) {
	mock := &mockMemberService{}
	h := NewMemberHandler(mock, nil)

	w := serve("DELETE", "/members/:id", "/members/7", nil, "", h.DeleteMember)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.deletedID != 7 {
		t.Errorf("expected id 7, got %d", mock.deletedID)
	}
}

func TestMemberHandler_RecordFee(t *testing.T) {
	mock := &mockMemberService{feeResult: &dto.FeeResponse{ID: 3, MemberID: 1, Amount: decimal.NewFromInt(40)}}
	h := NewMemberHandler(mock, nil)

	w := serve("POST", "/members/:id/fees", "/members/1/fees",
		jsonBody(dto.RecordFeeRequest{Amount: "40", Date: "2024-06-10"}), "application/json", h.RecordFee)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestMemberHandler_RecordFee_MemberNotFound(t *testing.T) {
	h := NewMemberHandler(&mockMemberService{feeErr: service.ErrMemberNotFound}, nil)

	w := serve("POST", "/members/:id/fees", "/members/9/fees",
		jsonBody(dto.RecordFeeRequest{Amount: "40"}), "application/json", h.RecordFee)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestMemberHandler_ListFees(t *testing.T) {
	mock := &mockMemberService{historyResult: &dto.FeeHistoryResponse{Member: sampleMember(), TotalPaid: decimal.NewFromInt(100)}}
	h := NewMemberHandler(mock, nil)

	w := serve("GET", "/members/:id/fees", "/members/1/fees", nil, "", h.ListFees)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestMemberHandler_GetReceipt_NotFound(t *testing.T) {
	h := NewMemberHandler(&mockMemberService{receiptErr: service.ErrFeeNotFound}, nil)

	w := serve("GET", "/fees/:id/receipt", "/fees/5/receipt", nil, "", h.GetReceipt)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 20002 {
		t.Errorf("expected error code 20002, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// DashboardHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDashboardHandler_GetDashboard(t *testing.T) {
	mock := &mockDashboardService{result: &dto.DashboardResponse{
		Today:             model.MustParseDate("2024-06-10"),
		ExpiringSoonCount: 1,
	}}
	h := NewDashboardHandler(mock)

	w := serve("GET", "/dashboard", "/dashboard?search=bo", nil, "", h.GetDashboard)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.req == nil || mock.req.Search != "bo" {
		t.Error("expected search to be bound")
	}
	if !strings.Contains(w.Body.String(), `"expiring_soon_count":1`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestDashboardHandler_StorageError(t *testing.T) {
	h := NewDashboardHandler(&mockDashboardService{err: errors.New("disk I/O error")})

	w := serve("GET", "/dashboard", "/dashboard", nil, "", h.GetDashboard)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_MembersCSV(t *testing.T) {
	h := NewExportHandler(&mockExportService{buf: bytes.NewBufferString("ID,Name\n1,Alice\n")})

	w := serve("GET", "/export/members.csv", "/export/members.csv", nil, "", h.ExportMembersCSV)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv, got %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "members.csv") {
		t.Errorf("unexpected Content-Disposition %s", cd)
	}
}

func TestExportHandler_Workbook_Error(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: errors.New("boom")})

	w := serve("GET", "/export/members.xlsx", "/export/members.xlsx", nil, "", h.ExportWorkbook)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// BackupHandler / PhotoHandler Tests
// ═══════════════════════════════════════════════════════════

func TestBackupHandler_Download(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup_20240610_120000.db")
	os.WriteFile(path, []byte("db"), 0o600)
	h := NewBackupHandler(&mockBackupService{path: path})

	w := serve("GET", "/backup", "/backup", nil, "", h.Download)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "backup_20240610_120000.db") {
		t.Errorf("unexpected Content-Disposition %s", cd)
	}
}

func TestBackupHandler_Unsupported(t *testing.T) {
	h := NewBackupHandler(&mockBackupService{err: database.ErrBackupUnsupported})

	w := serve("GET", "/backup", "/backup", nil, "", h.Download)

	if w.Code != http.StatusNotImplemented {
		t.Errorf("expected 501, got %d", w.Code)
	}
}

func TestPhotoHandler_GetPhoto(t *testing.T) {
	photos, _ := storage.NewPhotoStore(t.TempDir(), 1024)
	name, err := photos.Save("a.png", strings.NewReader("png"))
	if err != nil {
		t.Fatal(err)
	}
	h := NewPhotoHandler(photos)

	w := serve("GET", "/photos/:name", "/photos/"+name, nil, "", h.GetPhoto)
	if w.Code != http.StatusOK || w.Body.String() != "png" {
		t.Errorf("expected photo bytes, got %d %q", w.Code, w.Body.String())
	}

	w = serve("GET", "/photos/:name", "/photos/missing.png", nil, "", h.GetPhoto)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
