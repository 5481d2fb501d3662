package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/aula/apps/api/echo"
	"github.com/trezcool/aula/core/announcement"
)

func decodeAnnouncements(t *testing.T, data []byte) []announcement.Announcement {
	var list []announcement.Announcement
	require.NoError(t, json.Unmarshal(data, &list))
	return list
}

func Test_announcementApi_query(t *testing.T) {
	app := setup(t)

	rec := app.do(http.MethodGet, "/v1/announcements", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodGet, "/v1/announcements", getToken(t, app.conf, seedUser(t, "u1")))
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeAnnouncements(t, rec.Body.Bytes())
	require.Len(t, list, 2)
	assert.Equal(t, "seed-2", list[0].ID)
	assert.Equal(t, "seed-1", list[1].ID)
}

func Test_announcementApi_create(t *testing.T) {
	app := setup(t)
	body := func(title, text string) []byte {
		return marshalObj(t, echoapi.NewAnnouncementRequest{Title: title, Body: text})
	}

	tests := []httpTest{
		{name: "auth required", body: body("Aviso", "Texto"), wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "student may not post", body: body("Aviso", "Texto"), token: getToken(t, app.conf, seedUser(t, "u1")),
			wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "librarian may not post", body: body("Aviso", "Texto"), token: getToken(t, app.conf, seedUser(t, "u5")),
			wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "blank title", body: body("  ", "Texto"), token: getToken(t, app.conf, seedUser(t, "u2")),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: announcement.ErrBlankAnnouncement.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/v1/announcements", tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
	assert.Empty(t, app.mailSvc.SentMessages())

	t.Run("staff posts", func(t *testing.T) {
		jorge := seedUser(t, "u4")
		rec := app.do(http.MethodPost, "/v1/announcements", getToken(t, app.conf, jorge), body(" Feriado ", " No hay clases el lunes. "))
		require.Equal(t, http.StatusCreated, rec.Code)

		var created announcement.Announcement
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "Feriado", created.Title)
		assert.Equal(t, "No hay clases el lunes.", created.Body)
		assert.Equal(t, jorge.Name, created.Author)
		assert.Equal(t, jorge.ID, created.AuthorID)

		rec = app.do(http.MethodGet, "/v1/announcements", getToken(t, app.conf, seedUser(t, "u1")))
		list := decodeAnnouncements(t, rec.Body.Bytes())
		require.Len(t, list, 3)
		assert.Equal(t, created.ID, list[0].ID)

		sent := app.mailSvc.SentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "Feriado", sent[0].Subject)
		assert.Len(t, sent[0].Bcc, 6)
	})
}

func Test_notificationApi(t *testing.T) {
	app := setup(t)

	rec := app.do(http.MethodGet, "/v1/notifications", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tests := []struct {
		name    string
		userID  string
		wantIDs []string
	}{
		{name: "estudiante", userID: "u1", wantIDs: []string{"n1", "n3", "n7"}},
		{name: "docente", userID: "u2", wantIDs: []string{"n1", "n2", "n7"}},
		{name: "administrativo", userID: "u3", wantIDs: []string{"n1", "n4"}},
		{name: "directivo", userID: "u4", wantIDs: []string{"n1", "n4", "n6"}},
		{name: "bibliotecario", userID: "u5", wantIDs: []string{"n1", "n5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodGet, "/v1/notifications", getToken(t, app.conf, seedUser(t, tt.userID)))
			require.Equal(t, http.StatusOK, rec.Code)

			var alerts []struct {
				ID string `json:"id"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
			ids := make([]string, 0, len(alerts))
			for _, a := range alerts {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
