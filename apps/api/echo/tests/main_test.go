package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/vaaniprep/vaani/apps/api/echo"
	"github.com/vaaniprep/vaani/core"
	"github.com/vaaniprep/vaani/core/admin"
	"github.com/vaaniprep/vaani/core/note"
	"github.com/vaaniprep/vaani/core/taxonomy"
	"github.com/vaaniprep/vaani/core/user"
	emailsvc "github.com/vaaniprep/vaani/services/email"
	inmemdb "github.com/vaaniprep/vaani/storage/database/inmem"
)

var (
	errMissingToken = httpErr{Error: "authentication required"}
	errInvalidToken = httpErr{Error: "invalid or expired session"}
)

type env struct {
	app  Server
	conf *core.Config

	usrRepo  user.Repository
	admRepo  admin.Repository
	taxRepo  taxonomy.Repository
	noteRepo note.Repository

	usrSvc user.Service
}

func setup(t *testing.T) *env {
	t.Helper()
	emailsvc.ClearSentMessages()

	conf := newTestConfig()
	logger := testLogger{std: log.New(os.Stdout, "TEST : ", log.LstdFlags)}

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	core.ParseEmailTemplates(conf, logger)

	db := inmemdb.NewDB()
	e := &env{
		conf:     conf,
		usrRepo:  inmemdb.NewUserRepository(db),
		admRepo:  inmemdb.NewAdminRepository(db),
		taxRepo:  inmemdb.NewTaxonomyRepository(db),
		noteRepo: inmemdb.NewNoteRepository(db),
	}

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	e.usrSvc = user.NewServiceMock(e.usrRepo, mailSvc, conf)

	e.app = NewServer(&Options{
		Conf:           conf,
		DisableReqLogs: true,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		UserSvc:        e.usrSvc,
		AdminSvc:       admin.NewService(e.admRepo, conf),
		TaxonomySvc:    taxonomy.NewService(e.taxRepo),
		NoteSvc:        note.NewService(e.noteRepo),
	})
	return e
}

func newTestConfig() *core.Config {
	return &core.Config{
		TestMode:         true,
		Env:              "TEST",
		WorkDir:          core.Getwd(),
		AppName:          "Vaani",
		SecretKey:        []byte("+p5o0GBOK}Ujqy]BuG2d3b7H(CD:D,"),
		FrontendBaseURL:  "https://vaani.test",
		FlagshipGoal:     "CEE",
		DefaultFromEmail: mail.Address{Name: "Vaani", Address: "noreply@vaani.test"},
		Server: core.ServerConfig{
			JWTExpirationDelta:   30 * 24 * time.Hour,
			AdminJWTExpiration:   24 * time.Hour,
			PasswordResetTimeout: time.Hour,
		},
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type testLogger struct {
	std *log.Logger
}

func (l testLogger) Enable(bool)                           {}
func (l testLogger) Debug(msg string, args ...interface{}) { l.std.Println(msg) }
func (l testLogger) Info(msg string, args ...interface{})  { l.std.Println(msg) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.std.Println(msg) }
func (l testLogger) Error(msg string, args ...interface{}) { l.std.Println(append([]interface{}{msg}, args...)...) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.std.Println(msg) }

// Fixtures

func createUser(t *testing.T, repo user.Repository, name, uname, email, pwd string) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      user.RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("createUser(): %v", err)
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createUser(): %v", err)
	}
	return usr
}

func createAdmin(t *testing.T, repo admin.Repository, email, pwd string) admin.Admin {
	t.Helper()
	adm := admin.Admin{Email: email}
	if err := adm.SetPassword(pwd); err != nil {
		t.Fatalf("createAdmin(): %v", err)
	}
	adm, err := repo.CreateAdmin(adm)
	if err != nil {
		t.Fatalf("createAdmin(): %v", err)
	}
	return adm
}

func createGoal(t *testing.T, repo taxonomy.Repository, name string) taxonomy.Goal {
	t.Helper()
	goal, err := repo.CreateGoal(taxonomy.Goal{Name: name})
	if err != nil {
		t.Fatalf("createGoal(): %v", err)
	}
	return goal
}

func createSubject(t *testing.T, repo taxonomy.Repository, name string, goalID int) taxonomy.Subject {
	t.Helper()
	subject, err := repo.CreateSubject(taxonomy.Subject{Name: name, GoalID: goalID})
	if err != nil {
		t.Fatalf("createSubject(): %v", err)
	}
	return subject
}

func createNote(t *testing.T, repo note.Repository, chapter, label, subject string, goals []string, cost string, published bool, driveLink string) note.Note {
	t.Helper()
	n := note.Note{
		Label:       label,
		ChapterName: chapter,
		SubjectName: subject,
		Goals:       goals,
		Cost:        cost,
		IsPublished: published,
		CreatedAt:   time.Now().UTC(),
	}
	if driveLink != "" {
		n.DriveLink.SetValid(driveLink)
	}
	n, err := repo.CreateNote(n)
	if err != nil {
		t.Fatalf("createNote(): %v", err)
	}
	return n
}

// Request helpers

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func newCookieRequest(method, path, cookieName, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	req, rec := newRequest(method, path, data...)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	return req, rec
}

func getToken(t *testing.T, conf *core.Config, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(conf, GetUserClaims(conf, usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func getAdminToken(t *testing.T, conf *core.Config, adm admin.Admin) string {
	t.Helper()
	token, err := GenerateToken(conf, GetAdminClaims(conf, adm))
	if err != nil {
		t.Fatalf("getAdminToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	if l1, ok := j1.([]interface{}); ok {
		if l2, ok := j2.([]interface{}); ok {
			return assert.ElementsMatch(t, l1, l2), nil
		}
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
