package matching_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeolasoneye/mingle-backend/internal/matching"
)

func newTestRouter(t *testing.T, ids ...int64) (*mux.Router, matching.Service) {
	t.Helper()

	svc, _ := newTestService(t, ids...)
	handler := matching.NewHandler(svc)

	router := mux.NewRouter()
	router.HandleFunc("/like", handler.Like).Methods("POST")
	router.HandleFunc("/unlike", handler.Unlike).Methods("POST")
	router.HandleFunc("/like/{userId:[0-9]+}", handler.CheckLike).Methods("GET")
	router.HandleFunc("/status/{userId:[0-9]+}", handler.CheckMatch).Methods("GET")
	router.HandleFunc("/liked", handler.GetLikedUsers).Methods("GET")
	router.HandleFunc("/matches", handler.GetMatchedUsers).Methods("GET")
	router.HandleFunc("/respond/{userId:[0-9]+}", handler.Respond).Methods("POST")

	return router, svc
}

func doRequest(router *mux.Router, userID int64, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	if userID != 0 {
		req = req.WithContext(context.WithValue(req.Context(), "userID", userID))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLikeEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, 1, 2)

	rec := doRequest(router, 1, "POST", "/like", matching.LikeRequest{TargetUserID: 2})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    *matching.Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, matching.StatusPending, resp.Data.Status)
}

func TestLikeEndpointRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t, 1, 2)

	rec := doRequest(router, 0, "POST", "/like", matching.LikeRequest{TargetUserID: 2})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLikeEndpointValidation(t *testing.T) {
	router, _ := newTestRouter(t, 1, 2)

	rec := doRequest(router, 1, "POST", "/like", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikeEndpointSelf(t *testing.T) {
	router, _ := newTestRouter(t, 1)

	rec := doRequest(router, 1, "POST", "/like", matching.LikeRequest{TargetUserID: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikeEndpointUnknownTarget(t *testing.T) {
	router, _ := newTestRouter(t, 1)

	rec := doRequest(router, 1, "POST", "/like", matching.LikeRequest{TargetUserID: 42})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicateLikeEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, 1, 2)

	rec := doRequest(router, 1, "POST", "/like", matching.LikeRequest{TargetUserID: 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(router, 1, "POST", "/like", matching.LikeRequest{TargetUserID: 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnlikeEndpointWithoutLike(t *testing.T) {
	router, _ := newTestRouter(t, 1, 2)

	rec := doRequest(router, 1, "POST", "/unlike", matching.UnlikeRequest{TargetUserID: 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckLikeEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, 1, 2)

	rec := doRequest(router, 1, "POST", "/like", matching.LikeRequest{TargetUserID: 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(router, 1, "GET", "/like/2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp matching.LikeStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsLiked)

	// The reverse direction reads false.
	rec = doRequest(router, 2, "GET", "/like/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsLiked)
}

func TestCheckMatchEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, 1, 2)

	doRequest(router, 1, "POST", "/like", matching.LikeRequest{TargetUserID: 2})
	doRequest(router, 2, "POST", "/like", matching.LikeRequest{TargetUserID: 1})

	rec := doRequest(router, 1, "GET", "/status/2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp matching.PairStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.HasLiked)
	assert.True(t, resp.IsMatched)
	require.NotNil(t, resp.MyStatus)
	assert.Equal(t, matching.StatusAccepted, *resp.MyStatus)
}

func TestMatchedUsersEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, 1, 2, 3)

	doRequest(router, 1, "POST", "/like", matching.LikeRequest{TargetUserID: 2})
	doRequest(router, 2, "POST", "/like", matching.LikeRequest{TargetUserID: 1})
	doRequest(router, 3, "POST", "/like", matching.LikeRequest{TargetUserID: 1})

	rec := doRequest(router, 1, "GET", "/matches", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp matching.MatchedUsersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.MatchedUsers, 1)
	assert.Equal(t, int64(2), resp.MatchedUsers[0].User.ID)
}

func TestRespondEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, 1, 2)

	doRequest(router, 1, "POST", "/like", matching.LikeRequest{TargetUserID: 2})

	rec := doRequest(router, 2, "POST", "/respond/1", matching.RespondRequest{Status: matching.StatusRejected})
	assert.Equal(t, http.StatusOK, rec.Code)

	// A second response is rejected.
	rec = doRequest(router, 2, "POST", "/respond/1", matching.RespondRequest{Status: matching.StatusAccepted})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRespondEndpointNoIncomingLike(t *testing.T) {
	router, _ := newTestRouter(t, 1, 2)

	rec := doRequest(router, 2, "POST", "/respond/1", matching.RespondRequest{Status: matching.StatusAccepted})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRespondEndpointInvalidStatus(t *testing.T) {
	router, _ := newTestRouter(t, 1, 2)

	doRequest(router, 1, "POST", "/like", matching.LikeRequest{TargetUserID: 2})

	rec := doRequest(router, 2, "POST", "/respond/1", matching.RespondRequest{Status: "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
