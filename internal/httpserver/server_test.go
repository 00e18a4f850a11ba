package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"go-abi-cache/internal/cache"
	"go-abi-cache/internal/cache/fs"
	"go-abi-cache/internal/cache/service"
	"go-abi-cache/internal/interfaces/mock"
	"go-abi-cache/internal/models"
)

func testRecords() []models.InterfaceRecord {
	return []models.InterfaceRecord{
		{Signature: "(address,uint256)", Selector: models.Selector{0xa9, 0x05, 0x9c, 0xbb}, Name: "a9059cbb"},
		{Signature: "(address)", Selector: models.Selector{0x70, 0xa0, 0x82, 0x31}, Name: "70a08231", IsStatic: true},
	}
}

func TestServer_HandleFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := zaptest.NewLogger(t)
	fetcher := mock.NewMockInterfaceFetcher(ctrl)
	server := NewServer(fetcher, logger)

	tests := []struct {
		name           string
		body           string
		setup          func()
		expectedStatus int
		expectedKind   string
	}{
		{
			name: "decompiled",
			body: `{"bytecode":"0x6080"}`,
			setup: func() {
				fetcher.EXPECT().FetchInterface(gomock.Any(), "0x6080").Return(&models.FetchResult{
					Key:     "1.json",
					Source:  models.SourceDecompiler,
					Records: testRecords(),
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing bytecode",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid json",
			body:           `{"bytecode":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "decompile failed",
			body: `{"bytecode":"zz"}`,
			setup: func() {
				fetcher.EXPECT().FetchInterface(gomock.Any(), "zz").Return(nil,
					&service.Error{Kind: service.KindDecompileFailed, Key: "2.json", Err: errors.New("invalid opcode")})
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedKind:   string(service.KindDecompileFailed),
		},
		{
			name: "store write failed",
			body: `{"bytecode":"0x01"}`,
			setup: func() {
				fetcher.EXPECT().FetchInterface(gomock.Any(), "0x01").Return(nil,
					&service.Error{Kind: service.KindStoreWriteFailed, Key: "3.json", Err: errors.New("disk full")})
			},
			expectedStatus: http.StatusInternalServerError,
			expectedKind:   string(service.KindStoreWriteFailed),
		},
		{
			name: "caller gave up",
			body: `{"bytecode":"0x02"}`,
			setup: func() {
				fetcher.EXPECT().FetchInterface(gomock.Any(), "0x02").Return(nil, context.Canceled)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			req := httptest.NewRequest("POST", "/interface/fetch", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			server.handleFetch(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("handleFetch() status = %v, want %v", w.Code, tt.expectedStatus)
			}

			if tt.expectedStatus != http.StatusOK {
				var response ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
					t.Fatalf("Failed to unmarshal error response: %v", err)
				}
				if response.Success {
					t.Errorf("handleFetch() Success = true, want false")
				}
				if response.ErrorKind != tt.expectedKind {
					t.Errorf("handleFetch() ErrorKind = %q, want %q", response.ErrorKind, tt.expectedKind)
				}
				return
			}

			var response InterfaceResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if !response.Success {
				t.Errorf("handleFetch() Success = false, want true")
			}
			if response.Source != models.SourceDecompiler {
				t.Errorf("handleFetch() Source = %v, want %v", response.Source, models.SourceDecompiler)
			}
			if len(response.Records) != 2 {
				t.Fatalf("handleFetch() returned %d records, want 2", len(response.Records))
			}
			if response.Records[0].Selector != "0xa9059cbb" {
				t.Errorf("handleFetch() Selector = %v, want 0xa9059cbb", response.Records[0].Selector)
			}
			if !response.Records[1].IsStatic {
				t.Errorf("handleFetch() IsStatic = false, want true")
			}
		})
	}
}

func TestServer_HandleKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mock.NewMockInterfaceFetcher(ctrl)
	fetcher.EXPECT().DeriveKey("0x6080").Return("17.json")
	server := NewServer(fetcher, zaptest.NewLogger(t))

	req := httptest.NewRequest("POST", "/interface/key", strings.NewReader(`{"bytecode":"0x6080"}`))
	w := httptest.NewRecorder()
	server.handleKey(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("handleKey() status = %v, want %v", w.Code, http.StatusOK)
	}

	var response KeyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Key != "17.json" {
		t.Errorf("handleKey() Key = %v, want 17.json", response.Key)
	}

	req = httptest.NewRequest("POST", "/interface/key", strings.NewReader(`{"bytecode":""}`))
	w = httptest.NewRecorder()
	server.handleKey(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("handleKey() status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestServer_HandleFetch_RequestTooLarge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := NewServer(mock.NewMockInterfaceFetcher(ctrl), zaptest.NewLogger(t))

	body := fmt.Sprintf(`{"bytecode":"0x%s"}`, strings.Repeat("60", maxRequestBody))
	req := httptest.NewRequest("POST", "/interface/fetch", strings.NewReader(body))
	w := httptest.NewRecorder()
	server.handleFetch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("handleFetch() status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestServer_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := zaptest.NewLogger(t)

	store, err := fs.NewFileStore(afero.NewMemMapFs(), "cache/heimdall", logger)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	decompiler := mock.NewMockDecompiler(ctrl)
	decompiler.EXPECT().Decompile(gomock.Any(), "0x6080").Return([]models.RawStructure{
		{Type: models.StructureFunction, Name: "Unresolved_06fdde03", StateMutability: models.MutabilityView},
	}, nil).Times(1)

	svc := service.NewInterfaceService(store, cache.XXHashKeyDeriver{}, decompiler, 0, logger)
	handler := NewServer(svc, logger).Handler()

	for i, wantSource := range []models.Source{models.SourceDecompiler, models.SourceCache} {
		req := httptest.NewRequest("POST", "/interface/fetch", bytes.NewReader([]byte(`{"bytecode":"0x6080"}`)))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("fetch #%d status = %v, want %v", i, w.Code, http.StatusOK)
		}
		var response InterfaceResponse
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Source != wantSource {
			t.Errorf("fetch #%d Source = %v, want %v", i, response.Source, wantSource)
		}
		if len(response.Records) != 1 || response.Records[0].Selector != "0x06fdde03" || response.Records[0].Signature != "()" {
			t.Errorf("fetch #%d Records = %+v", i, response.Records)
		}
	}

	req := httptest.NewRequest("GET", "/interface/fetch", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /interface/fetch status = %v, want %v", w.Code, http.StatusMethodNotAllowed)
	}

	req = httptest.NewRequest("GET", "/metrics", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GET /metrics status = %v, want %v", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "interface_fetch_requests_total") {
		t.Errorf("GET /metrics does not expose fetch counters")
	}
}

func TestServer_HandleHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := zaptest.NewLogger(t)
	server := NewServer(mock.NewMockInterfaceFetcher(ctrl), logger)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	server.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("handleHealth() status = %v, want %v", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal health response: %v", err)
	}

	if status, ok := response["status"]; !ok || status != "healthy" {
		t.Errorf("handleHealth() status = %v, want 'healthy'", status)
	}
}

func TestServer_StopWhileStarting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := NewServer(mock.NewMockInterfaceFetcher(ctrl), zaptest.NewLogger(t))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartTCP("127.0.0.1:0")
	}()

	if err := server.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("StartTCP() error = %v, want %v", err, http.ErrServerClosed)
	}
}

func TestMetricsServer_StopWhileStarting(t *testing.T) {
	server := NewMetricsServer(zaptest.NewLogger(t))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start("0")
	}()

	if err := server.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("Start() error = %v, want %v", err, http.ErrServerClosed)
	}
}
