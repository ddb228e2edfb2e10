package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/freee021022/onco/internal/apperr"
	"github.com/freee021022/onco/internal/types"
)

func bindBody(t *testing.T, body string, dst interface{}) *apperr.Error {
	t.Helper()
	RegisterValidators()

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")

	err := bindJSON(ctx, dst, "Invalid data")
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	return appErr
}

func issueMap(err *apperr.Error) map[string]string {
	out := map[string]string{}
	for _, issue := range err.Issues {
		out[strings.Join(issue.Path, ".")] = issue.Message
	}
	return out
}

func TestBindJSONReportsJSONFieldNames(t *testing.T) {
	var body types.InsertUser
	err := bindBody(t, `{"username":"alice","password":"123","email":"nope","fullName":"A"}`, &body)
	if err == nil {
		t.Fatalf("expected validation error")
	}

	issues := issueMap(err)
	if issues["email"] != "Invalid email" {
		t.Fatalf("unexpected email issue: %v", issues)
	}
	if issues["password"] != "String must contain at least 6 character(s)" {
		t.Fatalf("unexpected password issue: %v", issues)
	}
}

func TestBindJSONRequestStatus(t *testing.T) {
	var body types.UpdateStatusRequest
	err := bindBody(t, `{"status":"archived"}`, &body)
	if err == nil {
		t.Fatalf("expected validation error")
	}

	want := "Invalid enum value. Expected 'pending' | 'accepted' | 'rejected' | 'completed'"
	if got := issueMap(err)["status"]; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if err := bindBody(t, `{"status":"completed"}`, &body); err != nil {
		t.Fatalf("expected completed to be accepted, got %v", err)
	}
}

func TestBindJSONTypeAndSyntaxErrors(t *testing.T) {
	var post types.InsertForumPost

	err := bindBody(t, `{"title":"Hi","content":"Body","userId":"one","categoryId":1}`, &post)
	if err == nil || issueMap(err)["userId"] == "" {
		t.Fatalf("expected userId type issue, got %+v", err)
	}

	err = bindBody(t, `{"title":`, &post)
	if err == nil || len(err.Issues) != 1 {
		t.Fatalf("expected single syntax issue, got %+v", err)
	}

	err = bindBody(t, `{"documentLinks":[""],"patientId":1,"doctorId":2,"diagnosis":"d","description":"x"}`, &types.InsertSecondOpinionRequest{})
	if err == nil || issueMap(err)["documentLinks[0]"] != "Required" {
		t.Fatalf("expected documentLinks[0] issue, got %+v", err)
	}
}

func TestFailWritesShapes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{apperr.New(apperr.CodeNotFound, "Post not found"), http.StatusNotFound, `{"message":"Post not found"}`},
		{apperr.Validation("Invalid post data", nil), http.StatusBadRequest, `{"errors":[],"message":"Invalid post data"}`},
		{apperr.New(apperr.CodeBadRequest, "Invalid post ID"), http.StatusBadRequest, `{"message":"Invalid post ID"}`},
		{apperr.New(apperr.CodeUnauthorized, "Invalid credentials"), http.StatusUnauthorized, `{"message":"Invalid credentials"}`},
		{errors.New("disk on fire"), http.StatusInternalServerError, `{"message":"Internal server error"}`},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		fail(ctx, tc.err)

		if w.Code != tc.status || strings.TrimSpace(w.Body.String()) != tc.body {
			t.Fatalf("%v: got %d %s", tc.err, w.Code, w.Body.String())
		}
	}
}

func TestClientErrorHelpers(t *testing.T) {
	cases := []struct {
		write  func(*gin.Context, string)
		status int
	}{
		{badRequest, http.StatusBadRequest},
		{unauthorized, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		tc.write(ctx, "nope")

		if w.Code != tc.status || strings.TrimSpace(w.Body.String()) != `{"message":"nope"}` {
			t.Fatalf("expected %d, got %d %s", tc.status, w.Code, w.Body.String())
		}
	}
}
