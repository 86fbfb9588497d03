package controller

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/product-analytics/application/dto"
	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/domain/person"
	"github.com/product-analytics/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupPersonControllerTest() (*mocks.MockPersonService, func(t *testing.T, method, target string, body any) *http.Response) {
	service := new(mocks.MockPersonService)
	app, api := newAuthedApp()
	NewPersonController(api, service)
	return service, func(t *testing.T, method, target string, body any) *http.Response {
		return doRequest(t, app, method, target, body)
	}
}

func TestPersonController_List(t *testing.T) {
	t.Run("builds the next link from the cursor", func(t *testing.T) {
		service, do := setupPersonControllerTest()
		service.On("List", mock.Anything, testTeamID, &dto.ListPersonsQuery{
			Search:           "bob",
			Limit:            2,
			IncludeLastEvent: true,
		}).Return(&dto.PersonListResponse{
			Results:    []dto.PersonResponse{{ID: 9}, {ID: 8}},
			NextCursor: 8,
		}, nil)

		resp := do(t, http.MethodGet, "/api/person?search=bob&limit=2&include_last_event=true", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result dto.PersonListResponse
		decodeBody(t, resp, &result)
		require.NotNil(t, result.Next)

		next, err := url.Parse(*result.Next)
		require.NoError(t, err)
		assert.Equal(t, "/api/person", next.Path)
		assert.Equal(t, "8", next.Query().Get("cursor"))
		assert.Equal(t, "bob", next.Query().Get("search"))
		assert.Equal(t, "2", next.Query().Get("limit"))
		service.AssertExpectations(t)
	})

	t.Run("last page has no next link", func(t *testing.T) {
		service, do := setupPersonControllerTest()
		service.On("List", mock.Anything, testTeamID, &dto.ListPersonsQuery{IDs: []int64{1, 2}, Cursor: 5}).
			Return(&dto.PersonListResponse{Results: []dto.PersonResponse{{ID: 2}, {ID: 1}}}, nil)

		resp := do(t, http.MethodGet, "/api/person?id=1,2&cursor=5", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result dto.PersonListResponse
		decodeBody(t, resp, &result)
		assert.Nil(t, result.Next)
		assert.Len(t, result.Results, 2)
	})

	t.Run("non numeric cursor returns 400", func(t *testing.T) {
		service, do := setupPersonControllerTest()

		resp := do(t, http.MethodGet, "/api/person?cursor=abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		service.AssertNotCalled(t, "List")
	})
}

func TestPersonController_GetByDistinctID(t *testing.T) {
	t.Run("returns the person", func(t *testing.T) {
		service, do := setupPersonControllerTest()
		service.On("GetByDistinctID", mock.Anything, testTeamID, "anon-1", false).
			Return(&dto.PersonResponse{ID: 4, DistinctIDs: []string{"anon-1"}}, nil)

		resp := do(t, http.MethodGet, "/api/person/by_distinct_id?distinct_id=anon-1", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result dto.PersonResponse
		decodeBody(t, resp, &result)
		assert.Equal(t, int64(4), result.ID)
	})

	t.Run("unknown distinct id returns 404", func(t *testing.T) {
		service, do := setupPersonControllerTest()
		service.On("GetByDistinctID", mock.Anything, testTeamID, "ghost", false).Return(nil, apperror.ErrNotFound)

		resp := do(t, http.MethodGet, "/api/person/by_distinct_id?distinct_id=ghost", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPersonController_Get(t *testing.T) {
	service, do := setupPersonControllerTest()
	service.On("Get", mock.Anything, testTeamID, int64(4), true).Return(&dto.PersonResponse{ID: 4}, nil)

	resp := do(t, http.MethodGet, "/api/person/4?include_last_event=1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	service.AssertExpectations(t)
}

func TestPersonController_Create(t *testing.T) {
	t.Run("returns 201", func(t *testing.T) {
		service, do := setupPersonControllerTest()
		service.On("Create", mock.Anything, testTeamID, mock.MatchedBy(func(cmd *person.CreatePersonCommand) bool {
			return len(cmd.DistinctIDs) == 1 && cmd.DistinctIDs[0] == "anon-1" && cmd.Properties["email"] == "a@b.c"
		})).Return(&dto.PersonResponse{ID: 11}, nil)

		resp := do(t, http.MethodPost, "/api/person", map[string]any{
			"distinct_ids": []string{"anon-1"},
			"properties":   map[string]any{"email": "a@b.c"},
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		service.AssertExpectations(t)
	})

	t.Run("taken distinct id returns 400", func(t *testing.T) {
		service, do := setupPersonControllerTest()
		service.On("Create", mock.Anything, testTeamID, mock.Anything).
			Return(nil, &apperror.ConflictError{Detail: "distinct id already in use"})

		resp := do(t, http.MethodPost, "/api/person", map[string]any{"distinct_ids": []string{"anon-1"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestPersonController_UpdateAndDelete(t *testing.T) {
	service, do := setupPersonControllerTest()
	service.On("Update", mock.Anything, testTeamID, int64(4), mock.MatchedBy(func(cmd *person.UpdatePersonCommand) bool {
		return cmd.Properties["plan"] == "pro"
	})).Return(&dto.PersonResponse{ID: 4, Properties: map[string]any{"plan": "pro"}}, nil)
	service.On("Delete", mock.Anything, testTeamID, int64(4)).Return(nil)

	resp := do(t, http.MethodPatch, "/api/person/4", map[string]any{"properties": map[string]any{"plan": "pro"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodDelete, "/api/person/4", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodDelete, "/api/person/0", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	service.AssertExpectations(t)
}
