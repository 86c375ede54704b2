package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/vaaniprep/vaani/core/taxonomy"
)

func Test_taxonomyApi_query(t *testing.T) {
	e := setup(t)
	bridge := createGoal(t, e.taxRepo, "Bridge Course")
	cee := createGoal(t, e.taxRepo, "CEE")
	ioe := createGoal(t, e.taxRepo, "IOE")

	physics := createSubject(t, e.taxRepo, "Physics", cee.ID)
	zoology := createSubject(t, e.taxRepo, "Zoology", cee.ID)
	maths := createSubject(t, e.taxRepo, "Mathematics", ioe.ID)

	tests := []httpTest{
		{
			name: "Flagship goal pinned first", path: "/v1/goals",
			wantCode: http.StatusOK, wantData: marchallList(t, cee, bridge, ioe),
		},
		{
			name: "Goal subjects", path: fmt.Sprintf("/v1/goals/%d/subjects", cee.ID),
			wantCode: http.StatusOK, wantData: marchallList(t, physics, zoology),
		},
		{
			name: "Unknown goal yields empty set", path: "/v1/goals/9999/subjects",
			wantCode: http.StatusOK, wantData: []byte("[]"),
		},
		{
			name: "Non-numeric goal id", path: "/v1/goals/abc/subjects",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid goal id"}),
		},
		{
			name: "All subjects", path: "/v1/subjects",
			wantCode: http.StatusOK, wantData: marchallList(t, maths, physics, zoology),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			e.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_taxonomyApi_create(t *testing.T) {
	e := setup(t)
	cee := createGoal(t, e.taxRepo, "CEE")
	adm := createAdmin(t, e.admRepo, "boss@vaani.test", goodPwd)
	admToken := getAdminToken(t, e.conf, adm)

	usr := createUser(t, e.usrRepo, "Jane", "jane", "jane@test.np", goodPwd)
	studentToken := getToken(t, e.conf, usr)

	tests := []httpTest{
		{
			name: "Anonymous goal create", method: http.MethodPost, path: "/v1/goals",
			body:     []byte(`{"name":"IOE"}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Student token is not an admin token", method: http.MethodPost, path: "/v1/goals",
			body: []byte(`{"name":"IOE"}`), token: studentToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errInvalidToken),
		},
		{
			name: "Goal name required", method: http.MethodPost, path: "/v1/goals",
			body: []byte(`{}`), token: admToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
		},
		{
			name: "Duplicate goal name", method: http.MethodPost, path: "/v1/goals",
			body: []byte(`{"name":"CEE"}`), token: admToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": taxonomy.ErrGoalExists.Error()}),
		},
		{
			name: "Subject under unknown goal", method: http.MethodPost, path: "/v1/subjects",
			body: []byte(`{"name":"Physics","goalId":9999}`), token: admToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"goalId": taxonomy.ErrGoalNotFound.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			e.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Create goal", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/goals", admToken, []byte(`{"name":"IOE"}`))
		e.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, taxonomy.Goal{ID: 2, Name: "IOE"}),
		}, rec)
	})

	t.Run("Create subject with category", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"name":"MAT","goalId":%d,"category":"Aptitude"}`, cee.ID))
		req, rec := newAuthRequest(http.MethodPost, "/v1/subjects", admToken, body)
		e.app.ServeHTTP(rec, req)

		want := taxonomy.Subject{ID: 1, Name: "MAT", GoalID: cee.ID}
		want.Category.SetValid("Aptitude")
		checkCodeAndData(t, httpTest{wantCode: http.StatusCreated, wantData: marchallObj(t, want)}, rec)
	})
}
