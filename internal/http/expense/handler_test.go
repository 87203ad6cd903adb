package expense_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vivaahaverse/vivaah/internal/expense"
	expenseHandler "github.com/vivaahaverse/vivaah/internal/http/expense"
	"github.com/vivaahaverse/vivaah/internal/importer"
)

func newRouter(t *testing.T) (http.Handler, *expense.MockRepository, *expense.MockImportTx) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := expense.NewMockRepository(ctrl)
	itx := expense.NewMockImportTx(ctrl)

	r := chi.NewRouter()
	r.Route("/expenses", expenseHandler.NewHandler(expense.NewService(repo), importer.NewService()).Routes)

	return r, repo, itx
}

func multipartBody(t *testing.T, fields map[string]string, file string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if file != "" {
		fw, err := mw.CreateFormFile("file", "budget.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte(file))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestHandler_Create(t *testing.T) {
	router, repo, _ := newRouter(t)
	userID := uuid.NewString()

	repo.EXPECT().
		CreateExpense(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *expense.Expense) error {
			e.ID = uuid.New()
			return nil
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/expenses",
		strings.NewReader(`{"userId":"`+userID+`","title":"Lehenga","category":"Attire","amount":18000000,"date":"2024-09-14"}`)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Lehenga", got["title"])
	assert.Equal(t, "2024-09-14T00:00:00Z", got["date"])
}

func TestHandler_CreateValidation(t *testing.T) {
	router, _, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(`{"title":"Lehenga"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"VALIDATION"`)
}

func TestHandler_Import(t *testing.T) {
	router, repo, itx := newRouter(t)
	userID := uuid.New()

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().
		CreateExpense(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *expense.Expense) error {
			assert.Equal(t, userID, e.UserID)
			e.ID = uuid.New()
			return nil
		}).
		Times(2)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	body, contentType := multipartBody(t, map[string]string{"userId": userID.String()},
		"date;title;category;amount\n02-11-2024;Mandap;Decor;1.234,50\n03-11-2024;DJ;Music;300,00\n")

	req := httptest.NewRequest(http.MethodPost, "/expenses/import", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"imported":2`)
}

func TestHandler_ImportRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		file   string
	}{
		{name: "MissingUser", file: "date,title,category,amount\n"},
		{name: "MissingFile", fields: map[string]string{"userId": uuid.NewString()}},
		{name: "UnknownLayout", fields: map[string]string{"userId": uuid.NewString()}, file: "foo,bar\n1,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, _ := newRouter(t)
			body, contentType := multipartBody(t, tt.fields, tt.file)

			req := httptest.NewRequest(http.MethodPost, "/expenses/import", body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_UpdateNotFound(t *testing.T) {
	router, repo, _ := newRouter(t)

	repo.EXPECT().GetExpense(gomock.Any(), gomock.Any()).Return(nil, expense.ErrNotFound)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/expenses/"+uuid.NewString(), strings.NewReader(`{"amount":5}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
