package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/ragdb/pkg/catalog"
	"github.com/orneryd/ragdb/pkg/chunk"
	"github.com/orneryd/ragdb/pkg/embed"
	"github.com/orneryd/ragdb/pkg/index"
	"github.com/orneryd/ragdb/pkg/service"
	"github.com/orneryd/ragdb/pkg/service/dto"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	idx, err := index.New(index.KindExhaustive, index.Options{})
	require.NoError(t, err)
	svc := service.New(catalog.New(), idx, chunk.NewFixedSizeChunker(0), embed.NewMockEmbedder(8))
	return New(svc, []string{"*"})
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestCreateLibrary_HappyPath(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/libraries/", dto.CreateLibraryRequest{Name: "A"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var lib catalog.Library
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lib))
	require.Equal(t, "A", lib.Name)
}

func TestCreateLibrary_DuplicateNameIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, doRequest(t, s, http.MethodPost, "/libraries/", dto.CreateLibraryRequest{Name: "A"}).Code)
	rec := doRequest(t, s, http.MethodPost, "/libraries/", dto.CreateLibraryRequest{Name: "A"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReadLibrary_NotFoundIs404(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/libraries/"+uuid.New().String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLibraryLifecycle(t *testing.T) {
	s := newTestServer(t)

	createRec := doRequest(t, s, http.MethodPost, "/libraries/", dto.CreateLibraryRequest{Name: "lib"})
	require.Equal(t, http.StatusCreated, createRec.Code)
	var lib catalog.Library
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &lib))

	readRec := doRequest(t, s, http.MethodGet, "/libraries/"+lib.ID.String(), nil)
	require.Equal(t, http.StatusOK, readRec.Code)
	var docs []*catalog.Document
	require.NoError(t, json.Unmarshal(readRec.Body.Bytes(), &docs))
	require.Empty(t, docs)

	deleteRec := doRequest(t, s, http.MethodDelete, "/libraries/"+lib.ID.String(), nil)
	require.Equal(t, http.StatusOK, deleteRec.Code)

	require.Equal(t, http.StatusNotFound, doRequest(t, s, http.MethodGet, "/libraries/"+lib.ID.String(), nil).Code)
}

func TestDocumentLifecycleAndSearch(t *testing.T) {
	s := newTestServer(t)

	createLibRec := doRequest(t, s, http.MethodPost, "/libraries/", dto.CreateLibraryRequest{Name: "lib"})
	var lib catalog.Library
	require.NoError(t, json.Unmarshal(createLibRec.Body.Bytes(), &lib))

	createDocRec := doRequest(t, s, http.MethodPost, "/documents/", dto.CreateDocumentRequest{
		LibraryID: lib.ID,
		Title:     "doc",
		Content:   "hello world",
	})
	require.Equal(t, http.StatusCreated, createDocRec.Code)
	var doc catalog.Document
	require.NoError(t, json.Unmarshal(createDocRec.Body.Bytes(), &doc))
	require.NotEmpty(t, doc.ChunkIDs)

	readDocRec := doRequest(t, s, http.MethodGet, "/documents/"+doc.ID.String(), nil)
	require.Equal(t, http.StatusOK, readDocRec.Code)

	searchRec := doRequest(t, s, http.MethodPost, "/documents/search", dto.SearchRequest{Query: "hello world"})
	require.Equal(t, http.StatusOK, searchRec.Code)
	var results []dto.SearchResult
	require.NoError(t, json.Unmarshal(searchRec.Body.Bytes(), &results))
	require.NotEmpty(t, results)

	deleteDocRec := doRequest(t, s, http.MethodDelete, "/documents/"+doc.ID.String(), nil)
	require.Equal(t, http.StatusOK, deleteDocRec.Code)

	require.Equal(t, http.StatusNotFound, doRequest(t, s, http.MethodGet, "/documents/"+doc.ID.String(), nil).Code)
}

func TestCreateDocument_UnknownLibraryIs404(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/documents/", dto.CreateDocumentRequest{
		LibraryID: uuid.New(),
		Title:     "x",
		Content:   "y",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateLibrary_MalformedBodyIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/libraries/", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
