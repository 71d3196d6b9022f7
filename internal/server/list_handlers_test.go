package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tastr/internal/listing"
	"tastr/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListHandlers(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)

	alice := seedUser(t, db, "alice")
	lat, lng := 40.7128, -74.0060
	noodle := seedRestaurant(t, db, "Noodle Bar", &lat, &lng)
	taco := seedRestaurant(t, db, "Taco Truck", nil, nil)

	app := fiber.New()
	app.Use(authAs(alice.ID))
	app.Get("/api/lists/want-to-try", s.GetWantToTry)
	app.Post("/api/lists/want-to-try/:restaurantId", s.AddWantToTry)
	app.Delete("/api/lists/want-to-try/:restaurantId", s.RemoveWantToTry)
	app.Get("/api/lists/favorites", s.GetFavorites)
	app.Post("/api/lists/favorites/:restaurantId", s.AddFavorite)
	app.Get("/api/restaurants/visited", s.GetVisitedRestaurants)

	listCount := func(t *testing.T, resp *http.Response) int {
		t.Helper()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var parsed struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(body, &parsed))
		return parsed.Count
	}

	t.Run("AddWantToTry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/lists/want-to-try/%d", noodle.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("AddWantToTryMissingRestaurant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/lists/want-to-try/9999", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("GetWantToTry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/lists/want-to-try", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, listCount(t, resp))
	})

	t.Run("WantToTryRetainsUnlocatedUnderDistanceFilter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/lists/want-to-try/%d", taco.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()

		// Taco Truck has no coordinates but stays in the filtered list.
		url := "/api/lists/want-to-try?max_distance_km=5&lat=40.7128&lng=-74.0060"
		req = httptest.NewRequest(http.MethodGet, url, nil)
		resp, err = app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, 2, listCount(t, resp))
	})

	t.Run("RemoveWantToTry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/lists/want-to-try/%d", taco.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("RemoveMissingEntry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/lists/want-to-try/%d", taco.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Favorites", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/lists/favorites/%d", noodle.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		req = httptest.NewRequest(http.MethodGet, "/api/lists/favorites", nil)
		resp, err = app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, 1, listCount(t, resp))
	})

	t.Run("VisitedExcludesUnlocatedUnderDistanceFilter", func(t *testing.T) {
		rating := 4.0
		require.NoError(t, db.Create(&models.Review{
			UserID: alice.ID, RestaurantID: noodle.ID, Rating: &rating,
		}).Error)
		require.NoError(t, db.Create(&models.Review{
			UserID: alice.ID, RestaurantID: taco.ID, Comment: "good tacos",
		}).Error)

		req := httptest.NewRequest(http.MethodGet, "/api/restaurants/visited", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()

		// Without a distance filter both visits are listed.
		req = httptest.NewRequest(http.MethodGet, "/api/restaurants/visited", nil)
		resp, err = app.Test(req)
		require.NoError(t, err)
		count := listCount(t, resp)
		_ = resp.Body.Close()
		assert.Equal(t, 2, count)

		// The unlocated Taco Truck drops out once distance filtering applies.
		url := "/api/restaurants/visited?max_distance_km=5&lat=40.7128&lng=-74.0060"
		req = httptest.NewRequest(http.MethodGet, url, nil)
		resp, err = app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var parsed struct {
			Restaurants []listing.Entry `json:"restaurants"`
			Count       int             `json:"count"`
		}
		require.NoError(t, json.Unmarshal(body, &parsed))
		require.Equal(t, 1, parsed.Count)
		assert.Equal(t, "Noodle Bar", parsed.Restaurants[0].Name)
		require.NotNil(t, parsed.Restaurants[0].DistanceKm)
	})
}
