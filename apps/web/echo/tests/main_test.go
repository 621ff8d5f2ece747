package tests

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	. "github.com/trezcool/darasa/apps/web/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
	sqliterepos "github.com/trezcool/darasa/storage/database/sqlite"
	testutil "github.com/trezcool/darasa/tests"
)

type testApp struct {
	app        Server
	conf       *core.Config
	usrRepo    user.Repository
	schoolRepo school.Repository
}

func setup(t *testing.T) *testApp {
	t.Helper()

	db := testutil.OpenDB(t)
	usrRepo := sqliterepos.NewUserRepository(db)
	schoolRepo := sqliterepos.NewSchoolRepository(db)

	conf := &core.Config{
		Debug:     true,
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Darasa",
		SecretKey: "not-so-secret",
		Server: core.ServerConfig{
			SessionExpirationDelta: time.Hour,
		},
	}

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	app := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     testLogger{},
		UserSvc:    user.NewService(usrRepo),
		SchoolSvc:  school.NewService(schoolRepo),
		Validate:   validate,
		Translator: translator,
	})
	return &testApp{app: app, conf: conf, usrRepo: usrRepo, schoolRepo: schoolRepo}
}

// testLogger drops everything; the tests assert on responses, not logs.
type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

var _ core.Logger = (*testLogger)(nil)

type httpTest struct {
	name     string
	method   string
	path     string
	form     url.Values
	token    string
	wantCode int
	wantLoc  string // expected Location header for redirects
	wantBody []string
	extra    interface{}
}

func newAuthRequest(method, path, token string, form url.Values) (*http.Request, *httptest.ResponseRecorder) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, ta *testApp, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetSessionClaims(usr, ta.conf), ta.conf)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func (ta *testApp) checkTest(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	t.Helper()

	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.form)
	ta.app.ServeHTTP(rec, req)

	if rec.Code != tt.wantCode {
		t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
	}
	if tt.wantLoc != "" {
		if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
			t.Errorf("Location = %q, want %q", loc, tt.wantLoc)
		}
	}
	body := rec.Body.String()
	for _, want := range tt.wantBody {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
	return rec
}
