package contact

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ams-law/goldsite/config"
)

type fakeMailer struct {
	sent []Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testContactConfig() config.ContactConfig {
	return config.ContactConfig{
		SubjectPrefix: "פנייה חדשה מהאתר",
		Footer:        "footer",
		MaxBodyBytes:  1024,
	}
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var er errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return er
}

func TestHandlerRelaysSubmission(t *testing.T) {
	m := &fakeMailer{}
	h := NewHandler(m, testContactConfig())

	rec := post(t, h, `{"name":" Dana ","phone":"050-1234567","email":"dana@example.com","subject":"שכירות","message":"line one\nline two"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
		t.Errorf("expected success body, got %s", rec.Body.String())
	}
	if len(m.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(m.sent))
	}
	msg := m.sent[0]
	if msg.ReplyTo != "dana@example.com" {
		t.Errorf("expected reply-to dana@example.com, got %q", msg.ReplyTo)
	}
	if msg.Subject != "פנייה חדשה מהאתר - שכירות" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, ">Dana<") {
		t.Error("expected trimmed name in body")
	}
	if !strings.Contains(msg.HTML, "line one<br>line two") {
		t.Error("expected message newlines rendered as <br>")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header on success")
	}
}

func TestHandlerMissingFields(t *testing.T) {
	cases := []string{
		`{"phone":"1","email":"a@b.c"}`,
		`{"name":"a","email":"a@b.c"}`,
		`{"name":"a","phone":"1"}`,
		`{"name":"   ","phone":"1","email":"a@b.c"}`,
	}
	for _, body := range cases {
		m := &fakeMailer{}
		rec := post(t, NewHandler(m, testContactConfig()), body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
			continue
		}
		if er := decodeError(t, rec); er.Error != MsgMissingFields {
			t.Errorf("%s: expected missing-fields message, got %q", body, er.Error)
		}
		if len(m.sent) != 0 {
			t.Errorf("%s: expected nothing sent", body)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("%s: expected CORS header on error", body)
		}
	}
}

func TestHandlerMalformedAndOversized(t *testing.T) {
	h := NewHandler(&fakeMailer{}, testContactConfig())

	rec := post(t, h, `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", rec.Code)
	}

	big := `{"name":"a","phone":"1","email":"a@b.c","message":"` + strings.Repeat("x", 2048) + `"}`
	rec = post(t, h, big)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 for oversized body, got %d", rec.Code)
	}
}

func TestHandlerOptionsAndMethods(t *testing.T) {
	h := NewHandler(&fakeMailer{}, testContactConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/contact", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Errorf("expected allowed methods, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Errorf("expected allowed headers, got %q", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestHandlerUpstreamFailure(t *testing.T) {
	m := &fakeMailer{err: &UpstreamError{Status: 422, Body: "invalid from"}}
	rec := post(t, NewHandler(m, testContactConfig()), `{"name":"a","phone":"1","email":"a@b.c"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	er := decodeError(t, rec)
	if er.Error != MsgSendFailed || er.Detail != "invalid from" {
		t.Errorf("expected send failure with detail, got %+v", er)
	}

	m.err = errors.New("dial tcp: refused")
	rec = post(t, NewHandler(m, testContactConfig()), `{"name":"a","phone":"1","email":"a@b.c"}`)
	if er := decodeError(t, rec); er.Error != MsgServer {
		t.Errorf("expected server error message, got %+v", er)
	}
}

func TestRenderEmailEscapes(t *testing.T) {
	html, err := RenderEmail(Submission{
		Name:    "<script>alert(1)</script>",
		Phone:   "1",
		Email:   "a@b.c",
		Message: "<b>hi</b>",
	}, "title", "footer")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<script>") || strings.Contains(html, "<b>hi") {
		t.Error("expected user input escaped")
	}
	if strings.Contains(html, "נושא:") {
		t.Error("expected no subject row without a subject")
	}
	if !strings.Contains(html, `dir="rtl"`) || !strings.Contains(html, "#C9A962") {
		t.Error("expected rtl layout with gold header")
	}
}

func TestSubjectLine(t *testing.T) {
	if got := SubjectLine("P", ""); got != "P" {
		t.Errorf("expected P, got %q", got)
	}
	if got := SubjectLine("P", "אחר"); got != "P - אחר" {
		t.Errorf("expected 'P - אחר', got %q", got)
	}
}

func TestResendMailer(t *testing.T) {
	var got resendPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		if got.Subject == "fail" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte("bad sender"))
			return
		}
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	m := &ResendMailer{Endpoint: srv.URL, APIKey: "key", From: "from@x", To: "to@x", Client: srv.Client()}
	if err := m.Send(context.Background(), Message{ReplyTo: "r@x", Subject: "hello", HTML: "<p>"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if auth != "Bearer key" {
		t.Errorf("expected bearer auth, got %q", auth)
	}
	if got.From != "from@x" || got.To != "to@x" || got.ReplyTo != "r@x" || got.HTML != "<p>" {
		t.Errorf("unexpected payload %+v", got)
	}

	err := m.Send(context.Background(), Message{Subject: "fail"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	var up *UpstreamError
	if !errors.As(err, &up) || up.Body != "bad sender" || up.Status != 422 {
		t.Errorf("expected upstream body and status, got %v", err)
	}

	m.APIKey = ""
	if err := m.Send(context.Background(), Message{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestClientAgainstHandler(t *testing.T) {
	m := &fakeMailer{}
	srv := httptest.NewServer(NewHandler(m, testContactConfig()))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, HTTP: srv.Client()}
	if err := c.Submit(context.Background(), Submission{Name: "a", Phone: "1", Email: "a@b.c"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(m.sent) != 1 {
		t.Errorf("expected 1 relayed message, got %d", len(m.sent))
	}

	err := c.Submit(context.Background(), Submission{Name: "a"})
	var se *SubmitError
	if !errors.As(err, &se) || se.Message != MsgMissingFields || se.Status != http.StatusBadRequest {
		t.Errorf("expected missing-fields SubmitError, got %v", err)
	}
}

func TestClientDefaultMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Submit(context.Background(), Submission{})
	var se *SubmitError
	if !errors.As(err, &se) || se.Message != MsgSubmitFailed {
		t.Errorf("expected default message, got %v", err)
	}
}

func TestClientTimesOutOnHungRelay(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL)
	if c.HTTP.Timeout != DefaultClientTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultClientTimeout, c.HTTP.Timeout)
	}

	c.HTTP.Timeout = 50 * time.Millisecond
	start := time.Now()
	if err := c.Submit(context.Background(), Submission{Name: "a", Phone: "1", Email: "a@b.c"}); err == nil {
		t.Fatal("expected error from hung relay")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("expected submit to give up quickly, took %v", elapsed)
	}
}

type submitFunc func(ctx context.Context, s Submission) error

func (f submitFunc) Submit(ctx context.Context, s Submission) error { return f(ctx, s) }

func TestFormLifecycle(t *testing.T) {
	now := time.Unix(0, 0)
	var got Submission
	f := NewForm(submitFunc(func(_ context.Context, s Submission) error {
		got = s
		return nil
	}), 4*time.Second)
	f.Now = func() time.Time { return now }

	f.SetFields(Submission{Name: "a", Phone: "1", Email: "a@b.c"})
	if f.State() != StateIdle {
		t.Fatalf("expected idle, got %v", f.State())
	}
	if err := f.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got.Name != "a" {
		t.Errorf("expected fields submitted, got %+v", got)
	}
	if f.State() != StateSuccess {
		t.Fatalf("expected success, got %v", f.State())
	}

	now = now.Add(3 * time.Second)
	f.Update()
	if f.State() != StateSuccess {
		t.Error("expected success to persist before reset delay")
	}

	now = now.Add(time.Second)
	f.Update()
	if f.State() != StateIdle {
		t.Errorf("expected idle after reset delay, got %v", f.State())
	}
	if f.Fields() != (Submission{}) {
		t.Errorf("expected fields cleared, got %+v", f.Fields())
	}
}

func TestFormErrorAndRetry(t *testing.T) {
	fail := true
	f := NewForm(submitFunc(func(context.Context, Submission) error {
		if fail {
			return &SubmitError{Status: 400, Message: MsgMissingFields}
		}
		return nil
	}), 0)

	if err := f.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if f.State() != StateError || f.ErrorMessage() != MsgMissingFields {
		t.Errorf("expected error state with relay message, got %v %q", f.State(), f.ErrorMessage())
	}

	fail = false
	if err := f.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.State() != StateSuccess || f.ErrorMessage() != "" {
		t.Errorf("expected success after retry, got %v %q", f.State(), f.ErrorMessage())
	}
}

func TestFormGenericErrorMessage(t *testing.T) {
	f := NewForm(submitFunc(func(context.Context, Submission) error {
		return errors.New("network down")
	}), 0)
	_ = f.Submit(context.Background())
	if f.ErrorMessage() != MsgSubmitRetry {
		t.Errorf("expected retry message, got %q", f.ErrorMessage())
	}
}

func TestFormRejectsConcurrentSubmit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	f := NewForm(submitFunc(func(context.Context, Submission) error {
		close(entered)
		<-release
		return nil
	}), 0)

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()
	<-entered

	if f.State() != StateSubmitting {
		t.Errorf("expected submitting, got %v", f.State())
	}
	if err := f.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Errorf("expected first submit to succeed, got %v", err)
	}
}
